package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/wallet-ledger/internal/interfaces"
	"github.com/sheikh-saqib/wallet-ledger/internal/models"
)

// Store is an in-memory implementation of interfaces.Store, safe for
// concurrent use. Atomicity of Apply comes from validating every delta
// under the lock before mutating anything.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*models.Account // keyed by account id
	byName   map[string]string          // display name -> account id
	records  []models.TransactionRecord
	nextID   int64
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*models.Account),
		byName:   make(map[string]string),
	}
}

func (s *Store) Get(ctx context.Context, id string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return models.Account{}, models.ErrAccountNotFound
	}
	return *a, nil
}

func (s *Store) GetByName(ctx context.Context, displayName string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byName[displayName]
	if !ok {
		return models.Account{}, models.ErrAccountNotFound
	}
	return *s.accounts[id], nil
}

func (s *Store) Create(ctx context.Context, account models.Account) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byName[account.DisplayName]; taken {
		return models.Account{}, models.ErrDuplicateName
	}
	account.Balance = decimal.Zero
	cp := account
	s.accounts[account.ID] = &cp
	s.byName[account.DisplayName] = account.ID
	return account, nil
}

// Apply validates the whole unit first and only then mutates, so a
// rejected unit leaves both the accounts and the record log untouched.
func (s *Store) Apply(ctx context.Context, deltas []interfaces.BalanceDelta, records []models.TransactionRecord) (map[string]decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validation pass: compute resulting balances without touching state.
	next := make(map[string]decimal.Decimal, len(deltas))
	for _, d := range deltas {
		bal, seen := next[d.AccountID]
		if !seen {
			a, ok := s.accounts[d.AccountID]
			if !ok {
				return nil, models.ErrAccountNotFound
			}
			bal = a.Balance
		}
		bal = bal.Add(d.Delta)
		if bal.IsNegative() {
			return nil, models.ErrInsufficientFunds
		}
		next[d.AccountID] = bal
	}

	// Commit pass: cannot fail from here on.
	for id, bal := range next {
		s.accounts[id].Balance = bal
	}
	for _, rec := range records {
		s.nextID++
		rec.ID = s.nextID
		s.records = append(s.records, rec)
	}
	return next, nil
}

func (s *Store) ListByAccount(ctx context.Context, accountID string) ([]models.TransactionRecord, error) {
	return s.list(accountID, func(models.TransactionRecord) bool { return true })
}

func (s *Store) ListByAccountAndKind(ctx context.Context, accountID string, kind models.RecordKind) ([]models.TransactionRecord, error) {
	return s.list(accountID, func(r models.TransactionRecord) bool { return r.Kind == kind })
}

func (s *Store) list(accountID string, keep func(models.TransactionRecord) bool) ([]models.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.TransactionRecord
	for _, r := range s.records {
		if r.AccountID == accountID && keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

var _ interfaces.Store = (*Store)(nil)
