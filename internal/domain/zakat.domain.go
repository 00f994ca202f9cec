package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"zakat-service/pkg/xerrors"
)

// ZakatType is the closed set of obligation categories. Adding a type means
// touching every switch over this enum, which is the point.
type ZakatType string

const (
	ZakatFitrah      ZakatType = "FITRAH"
	ZakatMaal        ZakatType = "MAAL"
	ZakatPenghasilan ZakatType = "PENGHASILAN"
	ZakatEmas        ZakatType = "EMAS"
	ZakatFidyah      ZakatType = "FIDYAH"
)

func ParseZakatType(s string) (ZakatType, error) {
	switch ZakatType(strings.ToUpper(strings.TrimSpace(s))) {
	case ZakatFitrah:
		return ZakatFitrah, nil
	case ZakatMaal:
		return ZakatMaal, nil
	case ZakatPenghasilan:
		return ZakatPenghasilan, nil
	case ZakatEmas:
		return ZakatEmas, nil
	case ZakatFidyah:
		return ZakatFidyah, nil
	default:
		return "", fmt.Errorf("%w: %q", xerrors.ErrInvalidZakatType, s)
	}
}

// DisplayName is the human label used on gateway line items.
func (t ZakatType) DisplayName() string {
	switch t {
	case ZakatFitrah:
		return "Fitrah"
	case ZakatMaal:
		return "Maal"
	case ZakatPenghasilan:
		return "Penghasilan"
	case ZakatEmas:
		return "Emas"
	case ZakatFidyah:
		return "Fidyah"
	}
	return string(t)
}

func AllZakatTypes() []ZakatType {
	return []ZakatType{ZakatFitrah, ZakatMaal, ZakatPenghasilan, ZakatEmas, ZakatFidyah}
}

// CalculationRequest carries the per-type inputs; each strategy reads only
// the fields it needs. Amounts are whole rupiah.
type CalculationRequest struct {
	JumlahJiwa       int64           `json:"jumlah_jiwa,omitempty"`
	TotalHarta       int64           `json:"total_harta,omitempty"`
	TotalHutang      int64           `json:"total_hutang,omitempty"`
	PenghasilanBruto int64           `json:"penghasilan_bruto,omitempty"`
	PotonganWajib    int64           `json:"potongan_wajib,omitempty"`
	KebutuhanPokok   int64           `json:"kebutuhan_pokok,omitempty"`
	BeratEmas        decimal.Decimal `json:"berat_emas,omitempty"`
	HargaPerGram     int64           `json:"harga_per_gram,omitempty"`
	JumlahHari       int64           `json:"jumlah_hari,omitempty"`
}

// CalculationResult is ephemeral; it is never persisted.
type CalculationResult struct {
	JenisZakat ZakatType         `json:"jenis_zakat"`
	Nominal    int64             `json:"nominal"`
	Nisab      int64             `json:"nisab"`
	WajibZakat bool              `json:"wajib_zakat"`
	Detail     CalculationDetail `json:"detail"`
}

type CalculationDetail struct {
	Perhitungan string `json:"perhitungan"`
	Keterangan  string `json:"keterangan"`
}

// ConfigEntry is one persisted (type, key) override of a baked-in default.
type ConfigEntry struct {
	JenisZakat ZakatType       `json:"jenis_zakat"`
	Key        string          `json:"key"`
	Value      decimal.Decimal `json:"value"`
	Satuan     string          `json:"satuan,omitempty"`
}
