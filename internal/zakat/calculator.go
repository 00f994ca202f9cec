package zakat

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"zakat-service/internal/domain"
)

// ConfigSource resolves the per-type threshold and rate. Implementations
// must not fail on missing entries; absence falls back to defaults.
type ConfigSource interface {
	// Nisab returns the threshold in the type's native unit: rupiah per
	// head (Fitrah), rupiah (Maal/Penghasilan), grams (Emas), rupiah per
	// day (Fidyah).
	Nisab(ctx context.Context, t domain.ZakatType) decimal.Decimal
	// Rate returns the obligation rate in percent.
	Rate(ctx context.Context, t domain.ZakatType) decimal.Decimal
}

// Calculator is one obligation strategy. All five live in this package;
// the dispatcher switches exhaustively over domain.ZakatType.
type Calculator interface {
	Type() domain.ZakatType
	Calculate(ctx context.Context, req domain.CalculationRequest) (domain.CalculationResult, error)
	Nisab(ctx context.Context) decimal.Decimal
	RatePercent(ctx context.Context) decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// applyRate computes base × rate% rounded to whole rupiah.
func applyRate(base, ratePercent decimal.Decimal) int64 {
	return base.Mul(ratePercent).Div(hundred).Round(0).IntPart()
}

// rupiah renders an amount the way receipts do: Rp 85.000.000.
func rupiah(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, c)
	}
	if neg {
		return "Rp -" + string(out)
	}
	return "Rp " + string(out)
}
