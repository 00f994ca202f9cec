package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zakat-service/internal/domain"
)

type ZakatTransactionRepo struct {
	db *pgxpool.Pool
}

func NewZakatTransactionRepo(db *pgxpool.Pool) *ZakatTransactionRepo {
	return &ZakatTransactionRepo{db: db}
}

func (r *ZakatTransactionRepo) Create(ctx context.Context, tx *domain.ZakatTransaction) error {
	query := `
		INSERT INTO zakat_transactions
			(id, user_id, jenis_zakat, nominal, payment_method, status, catatan)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		tx.ID, tx.UserID, tx.JenisZakat, tx.Nominal, tx.PaymentMethod, tx.Status, tx.Catatan,
	).Scan(&tx.CreatedAt, &tx.UpdatedAt)
}

func (r *ZakatTransactionRepo) SetGatewayRef(ctx context.Context, id, ref string) error {
	query := `
		UPDATE zakat_transactions
		SET midtrans_id = $2, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id, ref)
	return err
}

// ApplyGatewayStatus is the reconciler's single conditional write. paid_at
// is only ever set once, on the first SUCCESS, so duplicate deliveries are
// observable no-ops.
func (r *ZakatTransactionRepo) ApplyGatewayStatus(ctx context.Context, orderID string, status domain.TransactionStatus, gatewayRef string) (bool, error) {
	query := `
		UPDATE zakat_transactions
		SET status = $2,
		    midtrans_id = $3,
		    paid_at = CASE WHEN $2 = 'SUCCESS' THEN COALESCE(paid_at, now()) ELSE paid_at END,
		    updated_at = now()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, orderID, status, gatewayRef)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ZakatTransactionRepo) FindByID(ctx context.Context, id string) (*domain.ZakatTransaction, error) {
	query := `
		SELECT id, user_id, jenis_zakat, nominal, payment_method, status,
		       midtrans_id, catatan, paid_at, created_at, updated_at
		FROM zakat_transactions
		WHERE id = $1
	`
	var tx domain.ZakatTransaction
	err := r.db.QueryRow(ctx, query, id).Scan(
		&tx.ID, &tx.UserID, &tx.JenisZakat, &tx.Nominal, &tx.PaymentMethod, &tx.Status,
		&tx.MidtransID, &tx.Catatan, &tx.PaidAt, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *ZakatTransactionRepo) ListByUser(ctx context.Context, userID string, f domain.TransactionFilter) ([]domain.ZakatTransaction, int64, error) {
	where := "WHERE user_id = $1"
	args := []interface{}{userID}

	if f.Status != nil {
		args = append(args, *f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.JenisZakat != nil {
		args = append(args, *f.JenisZakat)
		where += fmt.Sprintf(" AND jenis_zakat = $%d", len(args))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		where += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM zakat_transactions "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	query := fmt.Sprintf(`
		SELECT id, user_id, jenis_zakat, nominal, payment_method, status,
		       midtrans_id, catatan, paid_at, created_at, updated_at
		FROM zakat_transactions
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []domain.ZakatTransaction
	for rows.Next() {
		var tx domain.ZakatTransaction
		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.JenisZakat, &tx.Nominal, &tx.PaymentMethod, &tx.Status,
			&tx.MidtransID, &tx.Catatan, &tx.PaidAt, &tx.CreatedAt, &tx.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		txs = append(txs, tx)
	}
	return txs, total, rows.Err()
}

// Aggregate groups the ledger by (status, jenis_zakat). SUM on bigint keeps
// the arithmetic exact.
func (r *ZakatTransactionRepo) Aggregate(ctx context.Context, userID *string) ([]domain.StatusTypeAgg, error) {
	query := `
		SELECT status, jenis_zakat, COUNT(*), COALESCE(SUM(nominal), 0)
		FROM zakat_transactions
	`
	args := []interface{}{}
	if userID != nil {
		query += " WHERE user_id = $1"
		args = append(args, *userID)
	}
	query += " GROUP BY status, jenis_zakat"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aggs []domain.StatusTypeAgg
	for rows.Next() {
		var a domain.StatusTypeAgg
		if err := rows.Scan(&a.Status, &a.JenisZakat, &a.Count, &a.Amount); err != nil {
			return nil, err
		}
		aggs = append(aggs, a)
	}
	return aggs, rows.Err()
}
