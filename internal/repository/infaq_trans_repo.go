package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zakat-service/internal/domain"
)

// InfaqTransactionRepo mirrors the zakat ledger for donations; both share
// the same lifecycle contract.
type InfaqTransactionRepo struct {
	db *pgxpool.Pool
}

func NewInfaqTransactionRepo(db *pgxpool.Pool) *InfaqTransactionRepo {
	return &InfaqTransactionRepo{db: db}
}

func (r *InfaqTransactionRepo) Create(ctx context.Context, tx *domain.InfaqTransaction) error {
	query := `
		INSERT INTO infaq_transactions
			(id, user_id, nominal, payment_method, status, catatan)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		tx.ID, tx.UserID, tx.Nominal, tx.PaymentMethod, tx.Status, tx.Catatan,
	).Scan(&tx.CreatedAt, &tx.UpdatedAt)
}

func (r *InfaqTransactionRepo) SetGatewayRef(ctx context.Context, id, ref string) error {
	query := `
		UPDATE infaq_transactions
		SET midtrans_id = $2, updated_at = now()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id, ref)
	return err
}

func (r *InfaqTransactionRepo) ApplyGatewayStatus(ctx context.Context, orderID string, status domain.TransactionStatus, gatewayRef string) (bool, error) {
	query := `
		UPDATE infaq_transactions
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

func (r *InfaqTransactionRepo) FindByID(ctx context.Context, id string) (*domain.InfaqTransaction, error) {
	query := `
		SELECT id, user_id, nominal, payment_method, status,
		       midtrans_id, catatan, paid_at, created_at, updated_at
		FROM infaq_transactions
		WHERE id = $1
	`
	var tx domain.InfaqTransaction
	err := r.db.QueryRow(ctx, query, id).Scan(
		&tx.ID, &tx.UserID, &tx.Nominal, &tx.PaymentMethod, &tx.Status,
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
