package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"zakat-service/internal/domain"
	"zakat-service/internal/usecase/transaction"
	"zakat-service/pkg/response"
	"zakat-service/pkg/xerrors"
)

type TransactionHandler struct {
	query *transaction.Usecase
	log   *zap.Logger
}

func NewTransactionHandler(query *transaction.Usecase, log *zap.Logger) *TransactionHandler {
	return &TransactionHandler{query: query, log: log}
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ownerID(r)
	if userID == "" {
		writeError(w, xerrors.ErrUnauthorized)
		return
	}

	f := domain.TransactionFilter{}
	q := r.URL.Query()

	if v := q.Get("status"); v != "" {
		s := domain.TransactionStatus(v)
		f.Status = &s
	}
	if v := q.Get("jenis_zakat"); v != "" {
		t, err := domain.ParseZakatType(v)
		if err != nil {
			writeError(w, err)
			return
		}
		f.JenisZakat = &t
	}
	if v := q.Get("start_date"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "start_date must be RFC3339")
			return
		}
		f.StartDate = &ts
	}
	if v := q.Get("end_date"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "end_date must be RFC3339")
			return
		}
		f.EndDate = &ts
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))

	txs, total, err := h.query.ListByUser(r.Context(), userID, f)
	if err != nil {
		h.log.Error("list transactions failed", zap.String("user_id", userID), zap.Error(err))
		writeError(w, err)
		return
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 10
	}
	totalPages := int((total + int64(f.Limit) - 1) / int64(f.Limit))
	response.Paginated(w, http.StatusOK, txs, response.PageMeta{
		Page:       f.Page,
		Limit:      f.Limit,
		Total:      total,
		TotalPages: totalPages,
	})
}

func (h *TransactionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID := ownerID(r)
	if userID == "" {
		writeError(w, xerrors.ErrUnauthorized)
		return
	}

	tx, err := h.query.GetByID(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, tx)
}

// Statistics aggregates the caller's ledger; scope=all drops the owner
// filter (admin reporting).
func (h *TransactionHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	userID := ownerID(r)
	if userID == "" {
		writeError(w, xerrors.ErrUnauthorized)
		return
	}

	var scope *string
	if r.URL.Query().Get("scope") != "all" {
		scope = &userID
	}

	stats, err := h.query.Statistics(r.Context(), scope)
	if err != nil {
		h.log.Error("transaction statistics failed", zap.Error(err))
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, stats)
}
