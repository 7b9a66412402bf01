package interfaces

import (
	"context"

	"github.com/sheikh-saqib/wallet-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// LedgerStore is the append-only transaction log. Records are never
// updated or deleted; listings are ordered by timestamp ascending with
// record id as tiebreak.
type LedgerStore interface {
	ListByAccount(ctx context.Context, accountID string) ([]models.TransactionRecord, error)
	ListByAccountAndKind(ctx context.Context, accountID string, kind models.RecordKind) ([]models.TransactionRecord, error)
}

// BalanceDelta is one account mutation inside an atomic unit. A negative
// delta that would overdraw the account rejects the whole unit.
type BalanceDelta struct {
	AccountID string
	Delta     decimal.Decimal
}

// Store combines account and ledger persistence behind one atomic write
// path. Apply commits every delta and every record or none of them:
// on models.ErrInsufficientFunds, models.ErrAccountNotFound or a storage
// failure no observable state changes. It returns the post-apply balance
// of each touched account.
type Store interface {
	AccountStore
	LedgerStore
	Apply(ctx context.Context, deltas []BalanceDelta, records []models.TransactionRecord) (map[string]decimal.Decimal, error)
}
