package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"zakat-service/internal/domain"
)

type ZakatConfigRepo struct {
	db *pgxpool.Pool
}

func NewZakatConfigRepo(db *pgxpool.Pool) *ZakatConfigRepo {
	return &ZakatConfigRepo{db: db}
}

// Find returns (nil, nil) when no row exists for (jenis_zakat, key).
func (r *ZakatConfigRepo) Find(ctx context.Context, t domain.ZakatType, key string) (*domain.ConfigEntry, error) {
	query := `
		SELECT jenis_zakat, key, value::text, COALESCE(satuan, '')
		FROM zakat_configs
		WHERE jenis_zakat = $1 AND key = $2
	`
	var entry domain.ConfigEntry
	var raw string
	err := r.db.QueryRow(ctx, query, t, key).Scan(&entry.JenisZakat, &entry.Key, &raw, &entry.Satuan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	entry.Value, err = decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *ZakatConfigRepo) Upsert(ctx context.Context, entry domain.ConfigEntry) error {
	query := `
		INSERT INTO zakat_configs (jenis_zakat, key, value, satuan)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (jenis_zakat, key)
		DO UPDATE SET value = EXCLUDED.value, satuan = EXCLUDED.satuan, updated_at = now()
	`
	_, err := r.db.Exec(ctx, query, entry.JenisZakat, entry.Key, entry.Value.String(), entry.Satuan)
	return err
}

func (r *ZakatConfigRepo) List(ctx context.Context) ([]domain.ConfigEntry, error) {
	query := `
		SELECT jenis_zakat, key, value::text, COALESCE(satuan, '')
		FROM zakat_configs
		ORDER BY jenis_zakat, key
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ConfigEntry
	for rows.Next() {
		var entry domain.ConfigEntry
		var raw string
		if err := rows.Scan(&entry.JenisZakat, &entry.Key, &raw, &entry.Satuan); err != nil {
			return nil, err
		}
		if entry.Value, err = decimal.NewFromString(raw); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
