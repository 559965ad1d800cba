package terminalService

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/KotFed0t/trading_terminal_bot/internal/model"
	"github.com/KotFed0t/trading_terminal_bot/internal/model/terminalModel"
	"github.com/KotFed0t/trading_terminal_bot/internal/service"
	"github.com/shopspring/decimal"
)

// Form checks run before any request is built. An incomplete form never reaches the backend.

func required(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", service.ErrValidation, field)
	}
	return value, nil
}

func ValidateEmail(value string) (string, error) {
	value, err := required("email", value)
	if err != nil {
		return "", err
	}
	if _, err = mail.ParseAddress(value); err != nil {
		return "", fmt.Errorf("%w: email is not valid", service.ErrValidation)
	}
	return value, nil
}

func ValidateUsername(value string) (string, error) {
	return required("username", value)
}

func ValidatePassword(value string) (string, error) {
	return required("password", value)
}

func ValidateSymbol(value string) (string, error) {
	value, err := required("symbol", value)
	if err != nil {
		return "", err
	}
	if strings.ContainsAny(value, " \t") {
		return "", fmt.Errorf("%w: symbol must be a single word", service.ErrValidation)
	}
	return strings.ToUpper(value), nil
}

func ValidateSide(value string) (string, error) {
	value, err := required("side", value)
	if err != nil {
		return "", err
	}
	value = strings.ToLower(value)
	if value != terminalModel.SideBuy && value != terminalModel.SideSell {
		return "", fmt.Errorf("%w: side must be buy or sell", service.ErrValidation)
	}
	return value, nil
}

func ValidateOrderType(value string) (string, error) {
	value, err := required("type", value)
	if err != nil {
		return "", err
	}
	value = strings.ToLower(value)
	if value != terminalModel.TypeMarket && value != terminalModel.TypeLimit {
		return "", fmt.Errorf("%w: type must be market or limit", service.ErrValidation)
	}
	return value, nil
}

func positiveDecimal(field, value string) (decimal.Decimal, error) {
	value, err := required(field, value)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(value, ",", "."))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s must be a number", service.ErrValidation, field)
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s must be positive", service.ErrValidation, field)
	}
	return d, nil
}

func ValidateQuantity(value string) (decimal.Decimal, error) {
	return positiveDecimal("quantity", value)
}

func ValidatePrice(value string) (decimal.Decimal, error) {
	return positiveDecimal("price", value)
}

// BuildOrder assembles the order from the dialog draft. Price is required for limit orders only.
func BuildOrder(draft model.Draft, price string) (terminalModel.TradeOrder, error) {
	symbol, err := ValidateSymbol(draft.Symbol)
	if err != nil {
		return terminalModel.TradeOrder{}, err
	}
	side, err := ValidateSide(draft.Side)
	if err != nil {
		return terminalModel.TradeOrder{}, err
	}
	orderType, err := ValidateOrderType(draft.Type)
	if err != nil {
		return terminalModel.TradeOrder{}, err
	}
	quantity, err := ValidateQuantity(draft.Quantity)
	if err != nil {
		return terminalModel.TradeOrder{}, err
	}

	order := terminalModel.TradeOrder{Symbol: symbol, Side: side, Type: orderType, Quantity: quantity}

	if orderType == terminalModel.TypeLimit {
		p, err := ValidatePrice(price)
		if err != nil {
			return terminalModel.TradeOrder{}, err
		}
		order.Price = &p
	}

	return order, nil
}

// ParseTradeArgs reads "/trade SYMBOL SIDE TYPE QTY [PRICE]".
func ParseTradeArgs(args []string) (terminalModel.TradeOrder, error) {
	fields := make([]string, 5)
	copy(fields, args)

	draft := model.Draft{Symbol: fields[0], Side: fields[1], Type: fields[2], Quantity: fields[3]}
	return BuildOrder(draft, fields[4])
}
