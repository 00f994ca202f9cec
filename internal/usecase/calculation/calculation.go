package calculation

import (
	"context"

	"zakat-service/internal/domain"
	"zakat-service/internal/zakat"
	"zakat-service/pkg/xerrors"
)

// Usecase routes a typed calculation request to its strategy. The variant
// set is closed; the switch below is the single dispatch point.
type Usecase struct {
	fitrah      *zakat.FitrahCalculator
	maal        *zakat.MaalCalculator
	penghasilan *zakat.PenghasilanCalculator
	emas        *zakat.EmasCalculator
	fidyah      *zakat.FidyahCalculator
}

func NewUsecase(cfg zakat.ConfigSource) *Usecase {
	return &Usecase{
		fitrah:      zakat.NewFitrahCalculator(cfg),
		maal:        zakat.NewMaalCalculator(cfg),
		penghasilan: zakat.NewPenghasilanCalculator(cfg),
		emas:        zakat.NewEmasCalculator(cfg),
		fidyah:      zakat.NewFidyahCalculator(cfg),
	}
}

func (uc *Usecase) calculator(t domain.ZakatType) zakat.Calculator {
	switch t {
	case domain.ZakatFitrah:
		return uc.fitrah
	case domain.ZakatMaal:
		return uc.maal
	case domain.ZakatPenghasilan:
		return uc.penghasilan
	case domain.ZakatEmas:
		return uc.emas
	case domain.ZakatFidyah:
		return uc.fidyah
	}
	return nil
}

// Calculate parses the requested type and runs the matching strategy.
func (uc *Usecase) Calculate(ctx context.Context, jenisZakat string, req domain.CalculationRequest) (domain.CalculationResult, error) {
	t, err := domain.ParseZakatType(jenisZakat)
	if err != nil {
		return domain.CalculationResult{}, err
	}
	calc := uc.calculator(t)
	if calc == nil {
		return domain.CalculationResult{}, xerrors.ErrInvalidZakatType
	}
	return calc.Calculate(ctx, req)
}

// NisabValues reports each type's current threshold in its native unit.
func (uc *Usecase) NisabValues(ctx context.Context) map[string]string {
	out := make(map[string]string, len(domain.AllZakatTypes()))
	for _, t := range domain.AllZakatTypes() {
		out[string(t)] = uc.calculator(t).Nisab(ctx).String()
	}
	return out
}
