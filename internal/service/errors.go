package service

import "errors"

var (
	ErrValidation = errors.New("error validation")
	ErrNoTrades   = errors.New("error no trades")
	ErrNoToken    = errors.New("error login response has no token")
)
