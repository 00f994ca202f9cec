package zakat

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"zakat-service/internal/domain"
	"zakat-service/pkg/xerrors"
)

// PenghasilanCalculator taxes net income (gross minus mandatory deductions
// and basic needs) against the same nisab source as maal.
type PenghasilanCalculator struct {
	cfg ConfigSource
}

func NewPenghasilanCalculator(cfg ConfigSource) *PenghasilanCalculator {
	return &PenghasilanCalculator{cfg: cfg}
}

func (c *PenghasilanCalculator) Type() domain.ZakatType { return domain.ZakatPenghasilan }

func (c *PenghasilanCalculator) Nisab(ctx context.Context) decimal.Decimal {
	return c.cfg.Nisab(ctx, domain.ZakatPenghasilan)
}

func (c *PenghasilanCalculator) RatePercent(ctx context.Context) decimal.Decimal {
	return c.cfg.Rate(ctx, domain.ZakatPenghasilan)
}

func (c *PenghasilanCalculator) Calculate(ctx context.Context, req domain.CalculationRequest) (domain.CalculationResult, error) {
	if req.PenghasilanBruto < 0 || req.PotonganWajib < 0 || req.KebutuhanPokok < 0 {
		return domain.CalculationResult{}, fmt.Errorf("%w: income fields must not be negative", xerrors.ErrInvalidInput)
	}

	nisab := c.Nisab(ctx)
	rate := c.RatePercent(ctx)
	bersih := req.PenghasilanBruto - req.PotonganWajib - req.KebutuhanPokok
	wajib := decimal.NewFromInt(bersih).GreaterThanOrEqual(nisab)

	var nominal int64
	detail := domain.CalculationDetail{
		Perhitungan: fmt.Sprintf("Penghasilan bersih %s < Nisab %s", rupiah(bersih), rupiah(nisab.Round(0).IntPart())),
		Keterangan:  "Zakat penghasilan tidak wajib karena penghasilan bersih belum mencapai nisab",
	}
	if wajib {
		nominal = applyRate(decimal.NewFromInt(bersih), rate)
		detail = domain.CalculationDetail{
			Perhitungan: fmt.Sprintf("(%s - %s - %s) × %s%% = %s",
				rupiah(req.PenghasilanBruto), rupiah(req.PotonganWajib), rupiah(req.KebutuhanPokok),
				rate.String(), rupiah(nominal)),
			Keterangan: "Zakat penghasilan wajib dibayarkan karena penghasilan bersih mencapai nisab",
		}
	}

	return domain.CalculationResult{
		JenisZakat: domain.ZakatPenghasilan,
		Nominal:    nominal,
		Nisab:      nisab.Round(0).IntPart(),
		WajibZakat: wajib,
		Detail:     detail,
	}, nil
}
