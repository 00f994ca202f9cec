package zakat

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"zakat-service/internal/domain"
	"zakat-service/pkg/xerrors"
)

// MaalCalculator taxes net wealth (assets minus debts) at the configured
// rate once it reaches the nisab.
type MaalCalculator struct {
	cfg ConfigSource
}

func NewMaalCalculator(cfg ConfigSource) *MaalCalculator {
	return &MaalCalculator{cfg: cfg}
}

func (c *MaalCalculator) Type() domain.ZakatType { return domain.ZakatMaal }

func (c *MaalCalculator) Nisab(ctx context.Context) decimal.Decimal {
	return c.cfg.Nisab(ctx, domain.ZakatMaal)
}

func (c *MaalCalculator) RatePercent(ctx context.Context) decimal.Decimal {
	return c.cfg.Rate(ctx, domain.ZakatMaal)
}

func (c *MaalCalculator) Calculate(ctx context.Context, req domain.CalculationRequest) (domain.CalculationResult, error) {
	if req.TotalHarta < 0 || req.TotalHutang < 0 {
		return domain.CalculationResult{}, fmt.Errorf("%w: total_harta and total_hutang must not be negative", xerrors.ErrInvalidInput)
	}

	nisab := c.Nisab(ctx)
	rate := c.RatePercent(ctx)
	hartaBersih := req.TotalHarta - req.TotalHutang
	wajib := decimal.NewFromInt(hartaBersih).GreaterThanOrEqual(nisab)

	var nominal int64
	detail := domain.CalculationDetail{
		Perhitungan: fmt.Sprintf("Harta bersih %s < Nisab %s", rupiah(hartaBersih), rupiah(nisab.Round(0).IntPart())),
		Keterangan:  "Zakat maal tidak wajib karena harta bersih belum mencapai nisab",
	}
	if wajib {
		nominal = applyRate(decimal.NewFromInt(hartaBersih), rate)
		detail = domain.CalculationDetail{
			Perhitungan: fmt.Sprintf("(%s - %s) × %s%% = %s",
				rupiah(req.TotalHarta), rupiah(req.TotalHutang), rate.String(), rupiah(nominal)),
			Keterangan: "Zakat maal wajib dibayarkan karena harta bersih mencapai nisab",
		}
	}

	return domain.CalculationResult{
		JenisZakat: domain.ZakatMaal,
		Nominal:    nominal,
		Nisab:      nisab.Round(0).IntPart(),
		WajibZakat: wajib,
		Detail:     detail,
	}, nil
}
