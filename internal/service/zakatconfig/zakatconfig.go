package zakatconfig

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"zakat-service/internal/domain"
)

// Config keys, matching the seeded rows in the config table.
const (
	KeyAmountPerJiwa = "AMOUNT_PER_JIWA"
	KeyNisabAmount   = "NISAB_AMOUNT"
	KeyNisabGram     = "NISAB_GRAM"
	KeyAmountPerHari = "AMOUNT_PER_HARI"
	KeyTarifPersen   = "TARIF_PERSEN"
)

// Store is the persisted side of the provider. Find returns (nil, nil) when
// no row exists; absence is a normal condition, not an error.
type Store interface {
	Find(ctx context.Context, t domain.ZakatType, key string) (*domain.ConfigEntry, error)
	Upsert(ctx context.Context, entry domain.ConfigEntry) error
	List(ctx context.Context) ([]domain.ConfigEntry, error)
}

type typeDefault struct {
	nisabKey string
	nisab    decimal.Decimal
	rate     decimal.Decimal
	satuan   string
}

var defaults = map[domain.ZakatType]typeDefault{
	domain.ZakatFitrah:      {nisabKey: KeyAmountPerJiwa, nisab: decimal.NewFromInt(35_000), rate: decimal.NewFromInt(100), satuan: "rupiah/jiwa"},
	domain.ZakatMaal:        {nisabKey: KeyNisabAmount, nisab: decimal.NewFromInt(85_000_000), rate: decimal.NewFromFloat(2.5), satuan: "rupiah"},
	domain.ZakatPenghasilan: {nisabKey: KeyNisabAmount, nisab: decimal.NewFromInt(85_000_000), rate: decimal.NewFromFloat(2.5), satuan: "rupiah"},
	domain.ZakatEmas:        {nisabKey: KeyNisabGram, nisab: decimal.NewFromInt(85), rate: decimal.NewFromFloat(2.5), satuan: "gram"},
	domain.ZakatFidyah:      {nisabKey: KeyAmountPerHari, nisab: decimal.NewFromInt(35_000), rate: decimal.NewFromInt(100), satuan: "rupiah/hari"},
}

// Service resolves nisab and rate values: Redis cache first, then the
// config store, then the baked-in default. Lookups never fail; a broken
// cache or store degrades to defaults.
type Service struct {
	store Store
	rdb   *redis.Client
	log   *zap.Logger
	ttl   time.Duration
}

func NewService(store Store, rdb *redis.Client, log *zap.Logger) *Service {
	return &Service{store: store, rdb: rdb, log: log, ttl: 5 * time.Minute}
}

// Nisab returns the threshold for t in its native unit (see zakat.ConfigSource).
func (s *Service) Nisab(ctx context.Context, t domain.ZakatType) decimal.Decimal {
	def := defaults[t]
	return s.resolve(ctx, t, def.nisabKey, def.nisab)
}

// Rate returns the obligation rate in percent.
func (s *Service) Rate(ctx context.Context, t domain.ZakatType) decimal.Decimal {
	return s.resolve(ctx, t, KeyTarifPersen, defaults[t].rate)
}

func (s *Service) resolve(ctx context.Context, t domain.ZakatType, key string, fallback decimal.Decimal) decimal.Decimal {
	cacheKey := fmt.Sprintf("zakat:config:%s:%s", t, key)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			if v, perr := decimal.NewFromString(cached); perr == nil {
				return v
			}
		} else if err != redis.Nil {
			s.log.Warn("config cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	entry, err := s.store.Find(ctx, t, key)
	if err != nil {
		s.log.Warn("config lookup failed, using default",
			zap.String("jenis_zakat", string(t)), zap.String("key", key), zap.Error(err))
		return fallback
	}
	if entry == nil {
		return fallback
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, cacheKey, entry.Value.String(), s.ttl).Err(); err != nil {
			s.log.Warn("config cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return entry.Value
}

// Upsert writes an override and drops the cached value. Re-upserting the
// same value is a no-op in observable effect.
func (s *Service) Upsert(ctx context.Context, t domain.ZakatType, key string, value decimal.Decimal, satuan string) error {
	if err := s.store.Upsert(ctx, domain.ConfigEntry{
		JenisZakat: t,
		Key:        key,
		Value:      value,
		Satuan:     satuan,
	}); err != nil {
		return fmt.Errorf("upsert zakat config: %w", err)
	}
	if s.rdb != nil {
		cacheKey := fmt.Sprintf("zakat:config:%s:%s", t, key)
		if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
			s.log.Warn("config cache invalidation failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return nil
}

// List returns all stored overrides (admin surface).
func (s *Service) List(ctx context.Context) ([]domain.ConfigEntry, error) {
	return s.store.List(ctx)
}

// SeedDefaults inserts the compile-time defaults for any (type, key) pair
// that has no stored row yet. Safe to run on every startup.
func (s *Service) SeedDefaults(ctx context.Context) error {
	for _, t := range domain.AllZakatTypes() {
		def := defaults[t]
		pairs := []domain.ConfigEntry{
			{JenisZakat: t, Key: def.nisabKey, Value: def.nisab, Satuan: def.satuan},
			{JenisZakat: t, Key: KeyTarifPersen, Value: def.rate, Satuan: "persen"},
		}
		for _, entry := range pairs {
			existing, err := s.store.Find(ctx, entry.JenisZakat, entry.Key)
			if err != nil {
				return fmt.Errorf("seed zakat config: %w", err)
			}
			if existing != nil {
				continue
			}
			if err := s.store.Upsert(ctx, entry); err != nil {
				return fmt.Errorf("seed zakat config: %w", err)
			}
		}
	}
	return nil
}
