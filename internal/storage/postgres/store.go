package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/wallet-ledger/internal/interfaces"
	"github.com/sheikh-saqib/wallet-ledger/internal/models"
)

// Store is the PostgreSQL implementation of interfaces.Store. Apply runs
// every balance update and record insert inside one sql.Tx; the overdraft
// check is part of the UPDATE itself so it holds at commit time, not at
// request time.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Init creates the two relations if they do not exist yet.
func (s *Store) Init(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS accounts (
		id           TEXT PRIMARY KEY,
		display_name TEXT NOT NULL UNIQUE,
		balance      NUMERIC(20,4) NOT NULL DEFAULT 0 CHECK (balance >= 0),
		created_at   TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS transactions (
		id           BIGSERIAL PRIMARY KEY,
		account_id   TEXT NOT NULL REFERENCES accounts(id),
		kind         TEXT NOT NULL,
		amount       NUMERIC(20,4) NOT NULL CHECK (amount > 0),
		counterparty TEXT,
		transfer_ref TEXT,
		created_at   TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_account
		ON transactions (account_id, created_at, id);`

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (models.Account, error) {
	const query = `SELECT id, display_name, balance, created_at FROM accounts WHERE id = $1`
	return s.scanAccount(s.db.QueryRowContext(ctx, query, id))
}

func (s *Store) GetByName(ctx context.Context, displayName string) (models.Account, error) {
	const query = `SELECT id, display_name, balance, created_at FROM accounts WHERE display_name = $1`
	return s.scanAccount(s.db.QueryRowContext(ctx, query, displayName))
}

func (s *Store) scanAccount(row *sql.Row) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.DisplayName, &a.Balance, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, models.ErrAccountNotFound
	}
	if err != nil {
		return models.Account{}, storageErr(err)
	}
	return a, nil
}

func (s *Store) Create(ctx context.Context, account models.Account) (models.Account, error) {
	const query = `INSERT INTO accounts (id, display_name, balance, created_at)
	VALUES ($1, $2, 0, $3)`

	_, err := s.db.ExecContext(ctx, query, account.ID, account.DisplayName, account.CreatedAt)
	if isUniqueViolation(err) {
		return models.Account{}, models.ErrDuplicateName
	}
	if err != nil {
		return models.Account{}, storageErr(err)
	}
	account.Balance = decimal.Zero
	return account, nil
}

func (s *Store) Apply(ctx context.Context, deltas []interfaces.BalanceDelta, records []models.TransactionRecord) (map[string]decimal.Decimal, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr(err)
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	balances := make(map[string]decimal.Decimal, len(deltas))
	for _, d := range deltas {
		var bal decimal.Decimal
		bal, err = s.applyDelta(ctx, dbTx, d)
		if err != nil {
			return nil, err
		}
		balances[d.AccountID] = bal
	}

	for _, rec := range records {
		if err = s.appendRecord(ctx, dbTx, rec); err != nil {
			return nil, err
		}
	}

	if err = dbTx.Commit(); err != nil {
		return nil, storageErr(err)
	}
	return balances, nil
}

// applyDelta folds the non-negative balance invariant into the UPDATE so
// a concurrent debit can never slip an account below zero.
func (s *Store) applyDelta(ctx context.Context, dbTx *sql.Tx, d interfaces.BalanceDelta) (decimal.Decimal, error) {
	const query = `UPDATE accounts SET balance = balance + $2
	WHERE id = $1 AND balance + $2 >= 0
	RETURNING balance`

	var bal decimal.Decimal
	err := dbTx.QueryRowContext(ctx, query, d.AccountID, d.Delta).Scan(&bal)
	if errors.Is(err, sql.ErrNoRows) {
		// Distinguish a missing account from an overdraft rejection.
		var exists int
		probe := dbTx.QueryRowContext(ctx, `SELECT 1 FROM accounts WHERE id = $1`, d.AccountID).Scan(&exists)
		if errors.Is(probe, sql.ErrNoRows) {
			return decimal.Zero, models.ErrAccountNotFound
		}
		if probe != nil {
			return decimal.Zero, storageErr(probe)
		}
		return decimal.Zero, models.ErrInsufficientFunds
	}
	if err != nil {
		return decimal.Zero, storageErr(err)
	}
	return bal, nil
}

func (s *Store) appendRecord(ctx context.Context, dbTx *sql.Tx, rec models.TransactionRecord) error {
	const query = `INSERT INTO transactions (account_id, kind, amount, counterparty, transfer_ref, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := dbTx.ExecContext(ctx, query,
		rec.AccountID, string(rec.Kind), rec.Amount,
		nullable(rec.Counterparty), nullable(rec.TransferRef), rec.CreatedAt)
	if err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *Store) ListByAccount(ctx context.Context, accountID string) ([]models.TransactionRecord, error) {
	const query = `SELECT id, account_id, kind, amount, counterparty, transfer_ref, created_at
	FROM transactions WHERE account_id = $1
	ORDER BY created_at, id`

	return s.listRecords(ctx, query, accountID)
}

func (s *Store) ListByAccountAndKind(ctx context.Context, accountID string, kind models.RecordKind) ([]models.TransactionRecord, error) {
	const query = `SELECT id, account_id, kind, amount, counterparty, transfer_ref, created_at
	FROM transactions WHERE account_id = $1 AND kind = $2
	ORDER BY created_at, id`

	return s.listRecords(ctx, query, accountID, string(kind))
}

func (s *Store) listRecords(ctx context.Context, query string, args ...any) ([]models.TransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	var records []models.TransactionRecord
	for rows.Next() {
		var (
			rec          models.TransactionRecord
			kind         string
			counterparty sql.NullString
			transferRef  sql.NullString
		)
		err := rows.Scan(&rec.ID, &rec.AccountID, &kind, &rec.Amount, &counterparty, &transferRef, &rec.CreatedAt)
		if err != nil {
			return nil, storageErr(err)
		}
		rec.Kind = models.RecordKind(kind)
		rec.Counterparty = counterparty.String
		rec.TransferRef = transferRef.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}
	return records, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
}

var _ interfaces.Store = (*Store)(nil)
