package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"zakat-service/internal/domain"
	"zakat-service/internal/service/zakatconfig"
	"zakat-service/internal/usecase/calculation"
	"zakat-service/pkg/response"
)

type ZakatHandler struct {
	calc *calculation.Usecase
	cfg  *zakatconfig.Service
	log  *zap.Logger
}

func NewZakatHandler(calc *calculation.Usecase, cfg *zakatconfig.Service, log *zap.Logger) *ZakatHandler {
	return &ZakatHandler{calc: calc, cfg: cfg, log: log}
}

type calculateRequest struct {
	JenisZakat string `json:"jenis_zakat"`
	domain.CalculationRequest
}

// Calculate runs one zakat computation; nothing is persisted.
func (h *ZakatHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.calc.Calculate(r.Context(), req.JenisZakat, req.CalculationRequest)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// GetConfig lists stored overrides plus the effective nisab per type.
func (h *ZakatHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	entries, err := h.cfg.List(r.Context())
	if err != nil {
		h.log.Error("list zakat config failed", zap.Error(err))
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"nisab":   h.calc.NisabValues(r.Context()),
	})
}

type updateConfigRequest struct {
	JenisZakat string          `json:"jenis_zakat"`
	Key        string          `json:"key"`
	Value      decimal.Decimal `json:"value"`
	Satuan     string          `json:"satuan,omitempty"`
}

// UpdateConfig upserts one (type, key) override. Admin surface.
func (h *ZakatHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req updateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := domain.ParseZakatType(req.JenisZakat)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Key == "" {
		response.Error(w, http.StatusBadRequest, "key is required")
		return
	}

	if err := h.cfg.Upsert(r.Context(), t, req.Key, req.Value, req.Satuan); err != nil {
		h.log.Error("upsert zakat config failed", zap.Error(err))
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{
		"jenis_zakat": string(t),
		"key":         req.Key,
		"value":       req.Value.String(),
	})
}
