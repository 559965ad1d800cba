package xslsxGenerator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/KotFed0t/trading_terminal_bot/internal/model/terminalModel"
	"github.com/KotFed0t/trading_terminal_bot/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	tradesSheet  = "Trades"
	symbolsSheet = "By symbol"
)

var tradeColumns = []string{"id", "symbol", "side", "type", "quantity", "price", "executed price", "status", "time"}

type XSLSXGenerator struct{}

func New() *XSLSXGenerator {
	return &XSLSXGenerator{}
}

func (g *XSLSXGenerator) Generate(ctx context.Context, trades []terminalModel.Trade) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XSLSXGenerator.Generate"

	if len(trades) == 0 {
		return nil, "", errors.New("empty trades")
	}

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("trades", len(trades)))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if err = g.fillTrades(f, trades); err != nil {
		slog.Error("got error while filling trades sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err = g.fillSymbols(f, trades); err != nil {
		slog.Error("got error while filling symbols sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func headerStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
}

func (g *XSLSXGenerator) fillTrades(f *excelize.File, trades []terminalModel.Trade) error {
	if _, err := f.NewSheet(tradesSheet); err != nil {
		return err
	}

	for i, title := range tradeColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		_ = f.SetCellStr(tradesSheet, cell, title)
	}

	styleID, err := headerStyle(f, "#cfe2f3")
	if err != nil {
		return err
	}

	lastHeader, _ := excelize.CoordinatesToCellName(len(tradeColumns), 1)
	if err := f.SetCellStyle(tradesSheet, "A1", lastHeader, styleID); err != nil {
		return fmt.Errorf("can't apply header style: %w", err)
	}

	for i, trade := range trades {
		row := i + 2
		_ = f.SetCellInt(tradesSheet, fmt.Sprintf("A%d", row), trade.ID)
		_ = f.SetCellStr(tradesSheet, fmt.Sprintf("B%d", row), trade.Symbol)
		_ = f.SetCellStr(tradesSheet, fmt.Sprintf("C%d", row), trade.Side)
		_ = f.SetCellStr(tradesSheet, fmt.Sprintf("D%d", row), trade.Kind())
		_ = f.SetCellValue(tradesSheet, fmt.Sprintf("E%d", row), trade.Quantity.InexactFloat64())
		_ = f.SetCellValue(tradesSheet, fmt.Sprintf("F%d", row), trade.Price.InexactFloat64())
		if !trade.ExecutedPrice.IsZero() {
			_ = f.SetCellValue(tradesSheet, fmt.Sprintf("G%d", row), trade.ExecutedPrice.InexactFloat64())
		}
		_ = f.SetCellStr(tradesSheet, fmt.Sprintf("H%d", row), trade.Status)
		_ = f.SetCellStr(tradesSheet, fmt.Sprintf("I%d", row), trade.Timestamp)
	}

	return f.SetPanes(tradesSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

type symbolTotals struct {
	trades   int
	bought   decimal.Decimal
	sold     decimal.Decimal
	turnover decimal.Decimal
}

// fillSymbols aggregates filled volume per symbol. Canceled trades count only in the trades column.
func (g *XSLSXGenerator) fillSymbols(f *excelize.File, trades []terminalModel.Trade) error {
	if _, err := f.NewSheet(symbolsSheet); err != nil {
		return err
	}

	totals := make(map[string]*symbolTotals)
	for _, trade := range trades {
		t, ok := totals[trade.Symbol]
		if !ok {
			t = &symbolTotals{}
			totals[trade.Symbol] = t
		}
		t.trades++

		if trade.Status == terminalModel.StatusCanceled {
			continue
		}
		if trade.Side == terminalModel.SideSell {
			t.sold = t.sold.Add(trade.Quantity)
		} else {
			t.bought = t.bought.Add(trade.Quantity)
		}
		t.turnover = t.turnover.Add(trade.Quantity.Mul(trade.DisplayPrice()))
	}

	symbols := make([]string, 0, len(totals))
	for symbol := range totals {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	_ = f.SetCellStr(symbolsSheet, "A1", "symbol")
	_ = f.SetCellStr(symbolsSheet, "B1", "trades")
	_ = f.SetCellStr(symbolsSheet, "C1", "bought")
	_ = f.SetCellStr(symbolsSheet, "D1", "sold")
	_ = f.SetCellStr(symbolsSheet, "E1", "turnover")

	styleID, err := headerStyle(f, "#d9ead3")
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(symbolsSheet, "A1", "E1", styleID); err != nil {
		return fmt.Errorf("can't apply header style: %w", err)
	}

	for i, symbol := range symbols {
		row := i + 2
		t := totals[symbol]
		_ = f.SetCellStr(symbolsSheet, fmt.Sprintf("A%d", row), symbol)
		_ = f.SetCellInt(symbolsSheet, fmt.Sprintf("B%d", row), int64(t.trades))
		_ = f.SetCellValue(symbolsSheet, fmt.Sprintf("C%d", row), t.bought.InexactFloat64())
		_ = f.SetCellValue(symbolsSheet, fmt.Sprintf("D%d", row), t.sold.InexactFloat64())
		_ = f.SetCellValue(symbolsSheet, fmt.Sprintf("E%d", row), t.turnover.InexactFloat64())
	}

	return nil
}
