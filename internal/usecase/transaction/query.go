package transaction

import (
	"context"
	"fmt"

	"zakat-service/internal/domain"
	"zakat-service/pkg/xerrors"
)

// Reader is the read side of the zakat ledger. No method here mutates.
type Reader interface {
	FindByID(ctx context.Context, id string) (*domain.ZakatTransaction, error)
	ListByUser(ctx context.Context, userID string, f domain.TransactionFilter) ([]domain.ZakatTransaction, int64, error)
	Aggregate(ctx context.Context, userID *string) ([]domain.StatusTypeAgg, error)
}

type Usecase struct {
	repo Reader
}

func NewUsecase(repo Reader) *Usecase {
	return &Usecase{repo: repo}
}

// ListByUser returns one page of the caller's transactions, newest first.
func (uc *Usecase) ListByUser(ctx context.Context, userID string, f domain.TransactionFilter) ([]domain.ZakatTransaction, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 10
	}
	txs, total, err := uc.repo.ListByUser(ctx, userID, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return txs, total, nil
}

// GetByID fetches one transaction; a non-empty userID also enforces
// ownership.
func (uc *Usecase) GetByID(ctx context.Context, id, userID string) (*domain.ZakatTransaction, error) {
	tx, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	if tx == nil {
		return nil, xerrors.ErrTransactionNotFound
	}
	if userID != "" && tx.UserID != userID {
		return nil, xerrors.ErrTransactionNotFound
	}
	return tx, nil
}

// Statistics aggregates the ledger by status and type. Sums are int64
// rupiah end to end; nothing floats.
func (uc *Usecase) Statistics(ctx context.Context, userID *string) (*domain.TransactionStatistics, error) {
	rows, err := uc.repo.Aggregate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate transactions: %w", err)
	}

	stats := &domain.TransactionStatistics{
		ByStatus: make(map[string]domain.StatBucket),
		ByType:   make(map[string]domain.StatBucket),
	}
	for _, s := range domain.AllTransactionStatuses() {
		stats.ByStatus[string(s)] = domain.StatBucket{}
	}
	for _, t := range domain.AllZakatTypes() {
		stats.ByType[string(t)] = domain.StatBucket{}
	}

	for _, row := range rows {
		stats.Total += row.Count

		b := stats.ByStatus[string(row.Status)]
		b.Count += row.Count
		b.Amount += row.Amount
		stats.ByStatus[string(row.Status)] = b

		tb := stats.ByType[string(row.JenisZakat)]
		tb.Count += row.Count
		tb.Amount += row.Amount
		stats.ByType[string(row.JenisZakat)] = tb

		if row.Status == domain.StatusSuccess {
			stats.TotalSuccessAmount += row.Amount
		}
	}
	return stats, nil
}
