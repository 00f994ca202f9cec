package zakat

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"zakat-service/internal/domain"
	"zakat-service/pkg/xerrors"
)

// FitrahCalculator charges a fixed amount per head; the obligation always
// applies.
type FitrahCalculator struct {
	cfg ConfigSource
}

func NewFitrahCalculator(cfg ConfigSource) *FitrahCalculator {
	return &FitrahCalculator{cfg: cfg}
}

func (c *FitrahCalculator) Type() domain.ZakatType { return domain.ZakatFitrah }

func (c *FitrahCalculator) Nisab(ctx context.Context) decimal.Decimal {
	return c.cfg.Nisab(ctx, domain.ZakatFitrah)
}

func (c *FitrahCalculator) RatePercent(ctx context.Context) decimal.Decimal {
	return c.cfg.Rate(ctx, domain.ZakatFitrah)
}

func (c *FitrahCalculator) Calculate(ctx context.Context, req domain.CalculationRequest) (domain.CalculationResult, error) {
	if req.JumlahJiwa < 1 {
		return domain.CalculationResult{}, fmt.Errorf("%w: jumlah_jiwa must be at least 1", xerrors.ErrInvalidInput)
	}

	perJiwa := c.Nisab(ctx)
	nominal := perJiwa.Mul(decimal.NewFromInt(req.JumlahJiwa)).Round(0).IntPart()

	return domain.CalculationResult{
		JenisZakat: domain.ZakatFitrah,
		Nominal:    nominal,
		Nisab:      perJiwa.Round(0).IntPart(),
		WajibZakat: true,
		Detail: domain.CalculationDetail{
			Perhitungan: fmt.Sprintf("%d jiwa × %s = %s", req.JumlahJiwa, rupiah(perJiwa.Round(0).IntPart()), rupiah(nominal)),
			Keterangan:  "Zakat fitrah wajib dibayarkan untuk setiap jiwa Muslim sebelum sholat Idul Fitri",
		},
	}, nil
}
