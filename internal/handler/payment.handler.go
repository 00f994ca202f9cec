package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"zakat-service/internal/domain"
	"zakat-service/internal/usecase/payment"
	"zakat-service/internal/usecase/reconcile"
	"zakat-service/pkg/response"
	"zakat-service/pkg/xerrors"
)

type PaymentHandler struct {
	payments   *payment.Usecase
	reconciler *reconcile.Service
	log        *zap.Logger
}

func NewPaymentHandler(payments *payment.Usecase, reconciler *reconcile.Service, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, reconciler: reconciler, log: log}
}

func (h *PaymentHandler) CreateZakatPayment(w http.ResponseWriter, r *http.Request) {
	userID := ownerID(r)
	if userID == "" {
		writeError(w, xerrors.ErrUnauthorized)
		return
	}

	var req payment.CreateZakatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.payments.CreateZakatPayment(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, resp)
}

func (h *PaymentHandler) CreateInfaqPayment(w http.ResponseWriter, r *http.Request) {
	userID := ownerID(r)
	if userID == "" {
		writeError(w, xerrors.ErrUnauthorized)
		return
	}

	var req payment.CreateInfaqRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.payments.CreateInfaqPayment(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, resp)
}

// Notification is the gateway webhook. Forged payloads and unknown orders
// are answered 200 so Midtrans stops redelivering; the distinction lives in
// the logs. Only a storage failure earns a 5xx, where a retry can succeed.
func (h *PaymentHandler) Notification(w http.ResponseWriter, r *http.Request) {
	var n domain.PaymentNotification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		h.log.Warn("notification with undecodable body", zap.Error(err))
		response.JSON(w, http.StatusOK, map[string]string{"result": "rejected"})
		return
	}

	outcome, err := h.reconciler.HandleNotification(r.Context(), n)
	if err != nil {
		h.log.Error("notification apply failed", zap.String("order_id", n.OrderID), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "temporary failure")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"result": string(outcome)})
}
