package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zakat-service/internal/domain"
)

// UserRepo is the boundary to the account store. Accounts are managed
// elsewhere; the payment flow only resolves them.
type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

// ResolveOwner returns (nil, nil) when the account is absent or soft
// deleted.
func (r *UserRepo) ResolveOwner(ctx context.Context, id string) (*domain.Owner, error) {
	query := `
		SELECT id, full_name, email, COALESCE(nomor_hp, '')
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`
	var owner domain.Owner
	err := r.db.QueryRow(ctx, query, id).Scan(&owner.ID, &owner.FullName, &owner.Email, &owner.Phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

// HasPendingTransactions backs the account layer's "no delete while a
// payment is in flight" rule.
func (r *UserRepo) HasPendingTransactions(ctx context.Context, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM zakat_transactions WHERE user_id = $1 AND status = 'PENDING'
			UNION ALL
			SELECT 1 FROM infaq_transactions WHERE user_id = $1 AND status = 'PENDING'
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
