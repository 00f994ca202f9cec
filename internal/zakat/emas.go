package zakat

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"zakat-service/internal/domain"
	"zakat-service/pkg/xerrors"
)

// EmasCalculator applies the gold rule: once the held weight reaches the
// nisab in grams, the full holding's value is taxed at the configured rate.
// The caller supplies the market price per gram.
type EmasCalculator struct {
	cfg ConfigSource
}

func NewEmasCalculator(cfg ConfigSource) *EmasCalculator {
	return &EmasCalculator{cfg: cfg}
}

func (c *EmasCalculator) Type() domain.ZakatType { return domain.ZakatEmas }

// Nisab returns the threshold in grams.
func (c *EmasCalculator) Nisab(ctx context.Context) decimal.Decimal {
	return c.cfg.Nisab(ctx, domain.ZakatEmas)
}

func (c *EmasCalculator) RatePercent(ctx context.Context) decimal.Decimal {
	return c.cfg.Rate(ctx, domain.ZakatEmas)
}

func (c *EmasCalculator) Calculate(ctx context.Context, req domain.CalculationRequest) (domain.CalculationResult, error) {
	if req.BeratEmas.IsNegative() || req.HargaPerGram < 0 {
		return domain.CalculationResult{}, fmt.Errorf("%w: berat_emas and harga_per_gram must not be negative", xerrors.ErrInvalidInput)
	}

	nisabGram := c.Nisab(ctx)
	rate := c.RatePercent(ctx)
	harga := decimal.NewFromInt(req.HargaPerGram)
	nisabRupiah := nisabGram.Mul(harga).Round(0).IntPart()
	wajib := req.BeratEmas.GreaterThanOrEqual(nisabGram)

	var nominal int64
	detail := domain.CalculationDetail{
		Perhitungan: fmt.Sprintf("Berat emas %s gram < Nisab %s gram", req.BeratEmas.String(), nisabGram.String()),
		Keterangan:  fmt.Sprintf("Zakat emas tidak wajib karena berat emas belum mencapai nisab (%s gram)", nisabGram.String()),
	}
	if wajib {
		nominal = applyRate(req.BeratEmas.Mul(harga), rate)
		detail = domain.CalculationDetail{
			Perhitungan: fmt.Sprintf("%s gram × %s × %s%% = %s",
				req.BeratEmas.String(), rupiah(req.HargaPerGram), rate.String(), rupiah(nominal)),
			Keterangan: fmt.Sprintf("Zakat emas wajib dibayarkan karena berat emas mencapai nisab (%s gram)", nisabGram.String()),
		}
	}

	return domain.CalculationResult{
		JenisZakat: domain.ZakatEmas,
		Nominal:    nominal,
		Nisab:      nisabRupiah,
		WajibZakat: wajib,
		Detail:     detail,
	}, nil
}
