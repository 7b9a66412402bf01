package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordKind classifies a ledger line. A transfer produces two records,
// a TransferOut on the sender and a TransferIn on the recipient.
type RecordKind string

const (
	KindDeposit     RecordKind = "deposit"
	KindTransferOut RecordKind = "transfer_out"
	KindTransferIn  RecordKind = "transfer_in"
)

// TransactionRecord is a single append-only ledger line for one account.
// Amount is always positive; the kind carries the direction. The two
// records of a transfer share a TransferRef and reference each other's
// account through Counterparty.
type TransactionRecord struct {
	ID           int64           `json:"id"`
	AccountID    string          `json:"account_id"`
	Kind         RecordKind      `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	Counterparty string          `json:"counterparty,omitempty"`
	TransferRef  string          `json:"transfer_ref,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
