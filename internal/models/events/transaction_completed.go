package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCompleted is emitted after a deposit or transfer commits.
// Ref is unique per mutation so downstream consumers can dedupe replays.
type TransactionCompleted struct {
	Ref          string          `json:"ref"`
	Kind         string          `json:"kind"`
	AccountID    string          `json:"account_id"`
	Counterparty string          `json:"counterparty,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	OccurredAt   time.Time       `json:"occurred_at"`
}
