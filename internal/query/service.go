// Package query provides read-only projections over the ledger store.
// Nothing in here mutates state; every result reflects committed records
// at call time.
package query

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/wallet-ledger/internal/interfaces"
	"github.com/sheikh-saqib/wallet-ledger/internal/models"
)

// SpendingPoint is the total amount transferred out on one calendar date.
type SpendingPoint struct {
	Date  string          `json:"date"` // YYYY-MM-DD
	Total decimal.Decimal `json:"total"`
}

// SpendingSummary aggregates an account's outgoing transfers.
type SpendingSummary struct {
	TotalSpent decimal.Decimal `json:"total_spent"`
	Average    decimal.Decimal `json:"average"`
	Transfers  int             `json:"transfers"`
}

type Service struct {
	store interfaces.LedgerStore
}

func NewService(store interfaces.LedgerStore) *Service {
	return &Service{store: store}
}

// History returns the account's full ledger, oldest first.
func (s *Service) History(ctx context.Context, accountID string) ([]models.TransactionRecord, error) {
	return s.store.ListByAccount(ctx, accountID)
}

// SpendingSeries aggregates TransferOut records by calendar date,
// ordered by date ascending.
func (s *Service) SpendingSeries(ctx context.Context, accountID string) ([]SpendingPoint, error) {
	records, err := s.store.ListByAccountAndKind(ctx, accountID, models.KindTransferOut)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, rec := range records {
		date := rec.CreatedAt.Format("2006-01-02")
		totals[date] = totals[date].Add(rec.Amount)
	}

	series := make([]SpendingPoint, 0, len(totals))
	for date, total := range totals {
		series = append(series, SpendingPoint{Date: date, Total: total})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series, nil
}

// SpendingSummary reports the total and average outgoing transfer amount.
func (s *Service) SpendingSummary(ctx context.Context, accountID string) (SpendingSummary, error) {
	records, err := s.store.ListByAccountAndKind(ctx, accountID, models.KindTransferOut)
	if err != nil {
		return SpendingSummary{}, err
	}

	summary := SpendingSummary{TotalSpent: decimal.Zero, Average: decimal.Zero}
	for _, rec := range records {
		summary.TotalSpent = summary.TotalSpent.Add(rec.Amount)
	}
	summary.Transfers = len(records)
	if summary.Transfers > 0 {
		summary.Average = summary.TotalSpent.Div(decimal.NewFromInt(int64(summary.Transfers)))
	}
	return summary, nil
}
