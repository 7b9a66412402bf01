package ledger

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/wallet-ledger/internal/interfaces"
	"github.com/sheikh-saqib/wallet-ledger/internal/models"
	"github.com/sheikh-saqib/wallet-ledger/internal/models/events"
)

// EventTopic is the broker topic committed mutations are announced on.
const EventTopic = "transaction_completed"

// Engine owns every balance mutation. Each operation runs as one atomic
// unit against the store while the per-account locks are held, so the
// balance check always sees the balance at execution time and a failed
// unit leaves no partial debit and no orphan record.
type Engine struct {
	store  interfaces.Store
	events interfaces.EventPublisher // optional, nil disables publishing
	muMap  map[string]*sync.Mutex    // one mutex per account id
	mapMu  sync.Mutex                // protects the muMap itself
}

// NewEngine creates an Engine on top of a store. events may be nil.
func NewEngine(store interfaces.Store, events interfaces.EventPublisher) *Engine {
	return &Engine{
		store:  store,
		events: events,
		muMap:  make(map[string]*sync.Mutex),
	}
}

func (e *Engine) accountLock(accountID string) *sync.Mutex {
	e.mapMu.Lock()
	defer e.mapMu.Unlock()

	if _, exists := e.muMap[accountID]; !exists {
		e.muMap[accountID] = &sync.Mutex{}
	}
	return e.muMap[accountID]
}

// Register creates an account with a fresh wallet id and zero balance.
func (e *Engine) Register(ctx context.Context, displayName string) (models.Account, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return models.Account{}, models.ErrInvalidName
	}
	account := models.Account{
		ID:          uuid.NewString(),
		DisplayName: name,
		CreatedAt:   time.Now().UTC(),
	}
	return e.store.Create(ctx, account)
}

// Balance returns the committed balance of an account.
func (e *Engine) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := e.store.Get(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// Deposit atomically credits the account and appends one Deposit record.
// Returns the updated balance.
func (e *Engine) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, models.ErrInvalidAmount
	}

	mu := e.accountLock(accountID)
	mu.Lock()
	defer mu.Unlock()

	now := time.Now().UTC()
	balances, err := e.store.Apply(ctx,
		[]interfaces.BalanceDelta{{AccountID: accountID, Delta: amount}},
		[]models.TransactionRecord{{
			AccountID: accountID,
			Kind:      models.KindDeposit,
			Amount:    amount,
			CreatedAt: now,
		}},
	)
	if err != nil {
		return decimal.Zero, err
	}

	e.publish(events.TransactionCompleted{
		Ref:        uuid.NewString(),
		Kind:       string(models.KindDeposit),
		AccountID:  accountID,
		Amount:     amount,
		OccurredAt: now,
	})
	return balances[accountID], nil
}

// Transfer atomically moves amount from the sender to the account behind
// toDisplayName and appends the double-entry pair (TransferOut on the
// sender, TransferIn on the recipient, sharing one transfer ref).
// Returns the updated sender balance.
func (e *Engine) Transfer(ctx context.Context, fromAccountID, toDisplayName string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, models.ErrInvalidAmount
	}

	recipient, err := e.store.GetByName(ctx, toDisplayName)
	if errors.Is(err, models.ErrAccountNotFound) {
		return decimal.Zero, models.ErrUnknownRecipient
	}
	if err != nil {
		return decimal.Zero, err
	}
	if recipient.ID == fromAccountID {
		return decimal.Zero, models.ErrSelfTransfer
	}

	// Lock both accounts in id order so two opposing transfers can
	// never deadlock each other.
	senderMu := e.accountLock(fromAccountID)
	recipientMu := e.accountLock(recipient.ID)
	if fromAccountID < recipient.ID {
		senderMu.Lock()
		recipientMu.Lock()
	} else {
		recipientMu.Lock()
		senderMu.Lock()
	}
	defer senderMu.Unlock()
	defer recipientMu.Unlock()

	ref := uuid.NewString()
	now := time.Now().UTC()
	balances, err := e.store.Apply(ctx,
		[]interfaces.BalanceDelta{
			{AccountID: fromAccountID, Delta: amount.Neg()},
			{AccountID: recipient.ID, Delta: amount},
		},
		[]models.TransactionRecord{
			{
				AccountID:    fromAccountID,
				Kind:         models.KindTransferOut,
				Amount:       amount,
				Counterparty: recipient.ID,
				TransferRef:  ref,
				CreatedAt:    now,
			},
			{
				AccountID:    recipient.ID,
				Kind:         models.KindTransferIn,
				Amount:       amount,
				Counterparty: fromAccountID,
				TransferRef:  ref,
				CreatedAt:    now,
			},
		},
	)
	if err != nil {
		return decimal.Zero, err
	}

	e.publish(events.TransactionCompleted{
		Ref:          ref,
		Kind:         "transfer",
		AccountID:    fromAccountID,
		Counterparty: recipient.ID,
		Amount:       amount,
		OccurredAt:   now,
	})
	return balances[fromAccountID], nil
}

func (e *Engine) publish(event events.TransactionCompleted) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(EventTopic, event); err != nil {
		log.Printf("publish %s event: %v", EventTopic, err)
	}
}
