package zakat

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"zakat-service/internal/domain"
	"zakat-service/pkg/xerrors"
)

// stubConfig returns the documented defaults without touching a store.
type stubConfig struct{}

func (stubConfig) Nisab(_ context.Context, t domain.ZakatType) decimal.Decimal {
	switch t {
	case domain.ZakatFitrah, domain.ZakatFidyah:
		return decimal.NewFromInt(35_000)
	case domain.ZakatMaal, domain.ZakatPenghasilan:
		return decimal.NewFromInt(85_000_000)
	case domain.ZakatEmas:
		return decimal.NewFromInt(85)
	}
	return decimal.Zero
}

func (stubConfig) Rate(_ context.Context, t domain.ZakatType) decimal.Decimal {
	switch t {
	case domain.ZakatFitrah, domain.ZakatFidyah:
		return decimal.NewFromInt(100)
	}
	return decimal.NewFromFloat(2.5)
}

func TestFitrahAlwaysObligated(t *testing.T) {
	calc := NewFitrahCalculator(stubConfig{})

	res, err := calc.Calculate(context.Background(), domain.CalculationRequest{JumlahJiwa: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.WajibZakat {
		t.Error("fitrah must always be obligated")
	}
	if res.Nominal != 140_000 {
		t.Errorf("expected nominal 140000, got %d", res.Nominal)
	}
}

func TestFitrahRejectsNonPositiveHeadCount(t *testing.T) {
	calc := NewFitrahCalculator(stubConfig{})

	for _, jiwa := range []int64{0, -3} {
		_, err := calc.Calculate(context.Background(), domain.CalculationRequest{JumlahJiwa: jiwa})
		if !errors.Is(err, xerrors.ErrInvalidInput) {
			t.Errorf("jumlah_jiwa=%d: expected ErrInvalidInput, got %v", jiwa, err)
		}
	}
}

func TestMaalObligatedAboveNisab(t *testing.T) {
	calc := NewMaalCalculator(stubConfig{})

	res, err := calc.Calculate(context.Background(), domain.CalculationRequest{
		TotalHarta:  100_000_000,
		TotalHutang: 5_000_000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.WajibZakat {
		t.Fatal("net wealth of 95M against 85M nisab must be obligated")
	}
	if res.Nominal != 2_375_000 {
		t.Errorf("expected nominal 2375000, got %d", res.Nominal)
	}
	if res.Nisab != 85_000_000 {
		t.Errorf("expected nisab 85000000, got %d", res.Nisab)
	}
}

func TestMaalBelowNisabOwesNothing(t *testing.T) {
	calc := NewMaalCalculator(stubConfig{})

	res, err := calc.Calculate(context.Background(), domain.CalculationRequest{
		TotalHarta:  90_000_000,
		TotalHutang: 10_000_000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.WajibZakat {
		t.Error("net wealth of 80M is below the 85M nisab")
	}
	if res.Nominal != 0 {
		t.Errorf("expected nominal 0, got %d", res.Nominal)
	}
}

func TestMaalObligationBoundary(t *testing.T) {
	calc := NewMaalCalculator(stubConfig{})

	res, err := calc.Calculate(context.Background(), domain.CalculationRequest{
		TotalHarta: 85_000_000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.WajibZakat {
		t.Error("net wealth exactly at nisab must be obligated")
	}
	if res.Nominal != 2_125_000 {
		t.Errorf("expected nominal 2125000, got %d", res.Nominal)
	}
}

func TestMaalRejectsNegativeInput(t *testing.T) {
	calc := NewMaalCalculator(stubConfig{})

	_, err := calc.Calculate(context.Background(), domain.CalculationRequest{
		TotalHarta:  -1,
		TotalHutang: 0,
	})
	if !errors.Is(err, xerrors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPenghasilanNetIncomeRule(t *testing.T) {
	calc := NewPenghasilanCalculator(stubConfig{})

	res, err := calc.Calculate(context.Background(), domain.CalculationRequest{
		PenghasilanBruto: 120_000_000,
		PotonganWajib:    10_000_000,
		KebutuhanPokok:   20_000_000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.WajibZakat {
		t.Fatal("net income of 90M against 85M nisab must be obligated")
	}
	if res.Nominal != 2_250_000 {
		t.Errorf("expected nominal 2250000, got %d", res.Nominal)
	}
}

func TestPenghasilanBelowNisab(t *testing.T) {
	calc := NewPenghasilanCalculator(stubConfig{})

	res, err := calc.Calculate(context.Background(), domain.CalculationRequest{
		PenghasilanBruto: 60_000_000,
		PotonganWajib:    5_000_000,
		KebutuhanPokok:   10_000_000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.WajibZakat || res.Nominal != 0 {
		t.Errorf("expected not obligated with nominal 0, got wajib=%v nominal=%d", res.WajibZakat, res.Nominal)
	}
}

func TestEmasWeightThreshold(t *testing.T) {
	calc := NewEmasCalculator(stubConfig{})

	res, err := calc.Calculate(context.Background(), domain.CalculationRequest{
		BeratEmas:    decimal.NewFromInt(100),
		HargaPerGram: 1_000_000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.WajibZakat {
		t.Fatal("100 grams against an 85 gram nisab must be obligated")
	}
	if res.Nominal != 2_500_000 {
		t.Errorf("expected nominal 2500000, got %d", res.Nominal)
	}
	if res.Nisab != 85_000_000 {
		t.Errorf("expected currency nisab 85000000, got %d", res.Nisab)
	}
}

func TestEmasBelowThreshold(t *testing.T) {
	calc := NewEmasCalculator(stubConfig{})

	res, err := calc.Calculate(context.Background(), domain.CalculationRequest{
		BeratEmas:    decimal.NewFromFloat(84.9),
		HargaPerGram: 1_000_000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.WajibZakat || res.Nominal != 0 {
		t.Errorf("expected not obligated with nominal 0, got wajib=%v nominal=%d", res.WajibZakat, res.Nominal)
	}
}

func TestFidyahAlwaysObligated(t *testing.T) {
	calc := NewFidyahCalculator(stubConfig{})

	res, err := calc.Calculate(context.Background(), domain.CalculationRequest{JumlahHari: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.WajibZakat {
		t.Error("fidyah must always be obligated")
	}
	if res.Nominal != 350_000 {
		t.Errorf("expected nominal 350000, got %d", res.Nominal)
	}
}

func TestFidyahRejectsNonPositiveDays(t *testing.T) {
	calc := NewFidyahCalculator(stubConfig{})

	_, err := calc.Calculate(context.Background(), domain.CalculationRequest{JumlahHari: 0})
	if !errors.Is(err, xerrors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRupiahFormatting(t *testing.T) {
	cases := map[int64]string{
		0:          "Rp 0",
		950:        "Rp 950",
		35_000:     "Rp 35.000",
		2_375_000:  "Rp 2.375.000",
		85_000_000: "Rp 85.000.000",
		-1_500:     "Rp -1.500",
	}
	for in, want := range cases {
		if got := rupiah(in); got != want {
			t.Errorf("rupiah(%d) = %q, want %q", in, got, want)
		}
	}
}
