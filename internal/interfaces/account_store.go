package interfaces

import (
	"context"

	"github.com/sheikh-saqib/wallet-ledger/internal/models"
)

// AccountStore is the durable table of accounts. Balances are only ever
// changed through Store.Apply; Create initializes them to zero.
type AccountStore interface {
	// Get returns the account with the given id, or models.ErrAccountNotFound.
	Get(ctx context.Context, id string) (models.Account, error)
	// GetByName resolves a display name, or models.ErrAccountNotFound.
	GetByName(ctx context.Context, displayName string) (models.Account, error)
	// Create registers a new account with a zero balance. Returns
	// models.ErrDuplicateName if the display name is taken.
	Create(ctx context.Context, account models.Account) (models.Account, error)
}
