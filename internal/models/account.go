package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a wallet holder. Balance never goes negative; every change
// to it is paired with a TransactionRecord in the same atomic unit.
type Account struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"display_name"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"created_at"`
}
