package model

import (
	"github.com/KotFed0t/trading_terminal_bot/internal/model/terminalModel"
	"github.com/shopspring/decimal"
)

type Dashboard struct {
	Portfolio   terminalModel.Portfolio
	Performance *terminalModel.Performance
	// Allocation is the share of each position in percent, in the order of Portfolio.Positions.
	Allocation []decimal.Decimal
	// Fallback is set when the numbers are demo literals instead of backend data.
	Fallback bool
}

type Report struct {
	FileName string
	Content  []byte
	// Link is set instead of Content when the file went to cloud storage.
	Link string
}
