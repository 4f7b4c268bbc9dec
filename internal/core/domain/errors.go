package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Ledger errors
var (
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError carries the balance context of a rejected consumption.
// It unwraps to ErrInsufficientStock.
type InsufficientStockError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
	Unit      string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock. Available: %s %s, Requested: %s %s",
		e.Available, e.Unit, e.Requested, e.Unit)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
