package zakat

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"zakat-service/internal/domain"
	"zakat-service/pkg/xerrors"
)

// FidyahCalculator charges a fixed amount per missed fasting day; always
// obligated.
type FidyahCalculator struct {
	cfg ConfigSource
}

func NewFidyahCalculator(cfg ConfigSource) *FidyahCalculator {
	return &FidyahCalculator{cfg: cfg}
}

func (c *FidyahCalculator) Type() domain.ZakatType { return domain.ZakatFidyah }

func (c *FidyahCalculator) Nisab(ctx context.Context) decimal.Decimal {
	return c.cfg.Nisab(ctx, domain.ZakatFidyah)
}

func (c *FidyahCalculator) RatePercent(ctx context.Context) decimal.Decimal {
	return c.cfg.Rate(ctx, domain.ZakatFidyah)
}

func (c *FidyahCalculator) Calculate(ctx context.Context, req domain.CalculationRequest) (domain.CalculationResult, error) {
	if req.JumlahHari < 1 {
		return domain.CalculationResult{}, fmt.Errorf("%w: jumlah_hari must be at least 1", xerrors.ErrInvalidInput)
	}

	perHari := c.Nisab(ctx)
	nominal := perHari.Mul(decimal.NewFromInt(req.JumlahHari)).Round(0).IntPart()

	return domain.CalculationResult{
		JenisZakat: domain.ZakatFidyah,
		Nominal:    nominal,
		Nisab:      perHari.Round(0).IntPart(),
		WajibZakat: true,
		Detail: domain.CalculationDetail{
			Perhitungan: fmt.Sprintf("%d hari × %s = %s", req.JumlahHari, rupiah(perHari.Round(0).IntPart()), rupiah(nominal)),
			Keterangan:  "Fidyah wajib dibayarkan untuk setiap hari puasa yang ditinggalkan karena uzur syar'i",
		},
	}, nil
}
