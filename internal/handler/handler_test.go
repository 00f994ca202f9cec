package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"zakat-service/internal/domain"
	"zakat-service/internal/handler"
	"zakat-service/internal/provider/midtrans"
	"zakat-service/internal/router"
	"zakat-service/internal/service/zakatconfig"
	"zakat-service/internal/usecase/calculation"
	"zakat-service/internal/usecase/payment"
	"zakat-service/internal/usecase/reconcile"
	"zakat-service/internal/usecase/transaction"
)

const testServerKey = "SB-Mid-server-handler-test"

// memZakatLedger backs the zakat side end to end: the payment write path,
// the reconciler's conditional write and the query read path.
type memZakatLedger struct {
	rows     map[string]*domain.ZakatTransaction
	applyErr error
}

func newMemZakatLedger() *memZakatLedger {
	return &memZakatLedger{rows: make(map[string]*domain.ZakatTransaction)}
}

func (m *memZakatLedger) Create(_ context.Context, tx *domain.ZakatTransaction) error {
	tx.CreatedAt = time.Now()
	tx.UpdatedAt = tx.CreatedAt
	cp := *tx
	m.rows[tx.ID] = &cp
	return nil
}

func (m *memZakatLedger) SetGatewayRef(_ context.Context, id, ref string) error {
	if row, ok := m.rows[id]; ok {
		row.MidtransID = &ref
	}
	return nil
}

func (m *memZakatLedger) ApplyGatewayStatus(_ context.Context, orderID string, status domain.TransactionStatus, gatewayRef string) (bool, error) {
	if m.applyErr != nil {
		return false, m.applyErr
	}
	row, ok := m.rows[orderID]
	if !ok {
		return false, nil
	}
	row.Status = status
	row.MidtransID = &gatewayRef
	if status == domain.StatusSuccess && row.PaidAt == nil {
		now := time.Now()
		row.PaidAt = &now
	}
	row.UpdatedAt = time.Now()
	return true, nil
}

func (m *memZakatLedger) FindByID(_ context.Context, id string) (*domain.ZakatTransaction, error) {
	if row, ok := m.rows[id]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (m *memZakatLedger) ListByUser(_ context.Context, userID string, _ domain.TransactionFilter) ([]domain.ZakatTransaction, int64, error) {
	var out []domain.ZakatTransaction
	for _, row := range m.rows {
		if row.UserID == userID {
			out = append(out, *row)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memZakatLedger) Aggregate(_ context.Context, userID *string) ([]domain.StatusTypeAgg, error) {
	agg := make(map[string]*domain.StatusTypeAgg)
	for _, row := range m.rows {
		if userID != nil && row.UserID != *userID {
			continue
		}
		k := string(row.Status) + "/" + string(row.JenisZakat)
		if agg[k] == nil {
			agg[k] = &domain.StatusTypeAgg{Status: row.Status, JenisZakat: row.JenisZakat}
		}
		agg[k].Count++
		agg[k].Amount += row.Nominal
	}
	var out []domain.StatusTypeAgg
	for _, a := range agg {
		out = append(out, *a)
	}
	return out, nil
}

type memInfaqLedger struct {
	rows map[string]*domain.InfaqTransaction
}

func newMemInfaqLedger() *memInfaqLedger {
	return &memInfaqLedger{rows: make(map[string]*domain.InfaqTransaction)}
}

func (m *memInfaqLedger) Create(_ context.Context, tx *domain.InfaqTransaction) error {
	cp := *tx
	m.rows[tx.ID] = &cp
	return nil
}

func (m *memInfaqLedger) SetGatewayRef(_ context.Context, id, ref string) error {
	if row, ok := m.rows[id]; ok {
		row.MidtransID = &ref
	}
	return nil
}

func (m *memInfaqLedger) ApplyGatewayStatus(_ context.Context, orderID string, status domain.TransactionStatus, gatewayRef string) (bool, error) {
	row, ok := m.rows[orderID]
	if !ok {
		return false, nil
	}
	row.Status = status
	row.MidtransID = &gatewayRef
	if status == domain.StatusSuccess && row.PaidAt == nil {
		now := time.Now()
		row.PaidAt = &now
	}
	return true, nil
}

type memConfigStore struct {
	entries map[string]domain.ConfigEntry
}

func (s *memConfigStore) Find(_ context.Context, t domain.ZakatType, k string) (*domain.ConfigEntry, error) {
	if e, ok := s.entries[string(t)+"/"+k]; ok {
		return &e, nil
	}
	return nil, nil
}

func (s *memConfigStore) Upsert(_ context.Context, e domain.ConfigEntry) error {
	s.entries[string(e.JenisZakat)+"/"+e.Key] = e
	return nil
}

func (s *memConfigStore) List(_ context.Context) ([]domain.ConfigEntry, error) {
	var out []domain.ConfigEntry
	for _, e := range s.entries {
		out = append(out, e)
	}
	return out, nil
}

type memResolver struct{}

func (memResolver) ResolveOwner(_ context.Context, id string) (*domain.Owner, error) {
	if id == "user-1" {
		return &domain.Owner{ID: "user-1", FullName: "Siti Aminah", Email: "siti@example.com"}, nil
	}
	return nil, nil
}

type memGateway struct {
	err error
}

func (g *memGateway) CreateSession(_ context.Context, req domain.SessionRequest) (domain.PaymentSession, error) {
	if g.err != nil {
		return domain.PaymentSession{}, g.err
	}
	return domain.PaymentSession{
		Token:       "snap-" + req.OrderID,
		RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-" + req.OrderID,
	}, nil
}

type testEnv struct {
	router chi.Router
	zakat  *memZakatLedger
	infaq  *memInfaqLedger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()

	zakatLedger := newMemZakatLedger()
	infaqLedger := newMemInfaqLedger()

	cfg := zakatconfig.NewService(&memConfigStore{entries: make(map[string]domain.ConfigEntry)}, nil, log)
	calcUC := calculation.NewUsecase(cfg)
	payUC := payment.NewUsecase(zakatLedger, infaqLedger, memResolver{}, &memGateway{}, log)
	reconUC := reconcile.NewService(zakatLedger, infaqLedger, testServerKey, log)
	queryUC := transaction.NewUsecase(zakatLedger)

	r := router.SetupRoutes(chi.NewRouter(),
		handler.NewZakatHandler(calcUC, cfg, log),
		handler.NewPaymentHandler(payUC, reconUC, log),
		handler.NewTransactionHandler(queryUC, log),
	)
	return &testEnv{router: r, zakat: zakatLedger, infaq: infaqLedger}
}

func (e *testEnv) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Status string                 `json:"status"`
		Data   map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func notification(orderID, transactionStatus string) map[string]string {
	return map[string]string{
		"order_id":           orderID,
		"status_code":        "200",
		"gross_amount":       "2375000.00",
		"signature_key":      midtrans.Signature(orderID, "200", "2375000.00", testServerKey),
		"transaction_status": transactionStatus,
		"transaction_id":     "mid-trx-e2e",
		"payment_type":       "bank_transfer",
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /health = %d, want 200", rec.Code)
	}
}

func TestCalculateEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/zakat/calculate", "", map[string]interface{}{
		"jenis_zakat": "MAAL",
		"total_harta": 100_000_000,
		"total_hutang": 5_000_000,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["nominal"].(float64) != 2_375_000 {
		t.Errorf("nominal = %v, want 2375000", data["nominal"])
	}
	if data["wajib_zakat"] != true {
		t.Errorf("wajib_zakat = %v, want true", data["wajib_zakat"])
	}
}

func TestCalculateRejectsUnknownType(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/zakat/calculate", "", map[string]interface{}{
		"jenis_zakat": "PERAK",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreatePaymentRequiresIdentity(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/payment", "", map[string]interface{}{
		"jenis_zakat":    "MAAL",
		"nominal":        100_000,
		"payment_method": "MIDTRANS",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestCreatePaymentUnknownOwnerIs404(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/payment", "ghost", map[string]interface{}{
		"jenis_zakat":    "MAAL",
		"nominal":        100_000,
		"payment_method": "MIDTRANS",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestWebhookForgeryAnsweredOK(t *testing.T) {
	env := newTestEnv(t)
	n := notification("ZKT-whatever", "settlement")
	n["signature_key"] = "0000" + n["signature_key"][4:]

	rec := env.do(t, http.MethodPost, "/payment/notification", "", n)
	if rec.Code != http.StatusOK {
		t.Fatalf("forged webhook must be answered 200, got %d", rec.Code)
	}
	data := decodeData(t, rec)
	if data["result"] != "invalid_signature" {
		t.Errorf("result = %v, want invalid_signature", data["result"])
	}
}

func TestWebhookUnknownOrderAnsweredOK(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/payment/notification", "", notification("ZKT-missing", "settlement"))
	if rec.Code != http.StatusOK {
		t.Fatalf("unknown order must be answered 200, got %d", rec.Code)
	}
	data := decodeData(t, rec)
	if data["result"] != "unknown_order" {
		t.Errorf("result = %v, want unknown_order", data["result"])
	}
}

func TestWebhookStorageFailureIs500(t *testing.T) {
	env := newTestEnv(t)
	env.zakat.applyErr = errors.New("connection refused")

	rec := env.do(t, http.MethodPost, "/payment/notification", "", notification("ZKT-any", "settlement"))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("storage failure must be answered 500 so the gateway retries, got %d", rec.Code)
	}
}

func TestWebhookUndecodableBodyAnsweredOK(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/payment/notification", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("garbage body must be answered 200, got %d", rec.Code)
	}
}

// TestZakatPaymentLifecycle walks the whole flow: calculate, open a payment,
// settle it via webhook, read it back, then replay the webhook.
func TestZakatPaymentLifecycle(t *testing.T) {
	env := newTestEnv(t)

	// Calculate maal for 100M wealth with 5M debt.
	rec := env.do(t, http.MethodPost, "/zakat/calculate", "user-1", map[string]interface{}{
		"jenis_zakat":  "MAAL",
		"total_harta":  100_000_000,
		"total_hutang": 5_000_000,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("calculate: status = %d", rec.Code)
	}
	nominal := int64(decodeData(t, rec)["nominal"].(float64))
	if nominal != 2_375_000 {
		t.Fatalf("nominal = %d, want 2375000", nominal)
	}

	// Open the payment.
	rec = env.do(t, http.MethodPost, "/payment", "user-1", map[string]interface{}{
		"jenis_zakat":    "MAAL",
		"nominal":        nominal,
		"payment_method": "MIDTRANS",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create payment: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	orderID := data["id"].(string)
	if !strings.HasPrefix(orderID, "ZKT-") {
		t.Fatalf("order id = %q", orderID)
	}
	if data["status"] != "PENDING" {
		t.Errorf("status = %v, want PENDING", data["status"])
	}
	if data["payment_token"] == "" {
		t.Error("expected a payment token")
	}

	// Settlement webhook.
	rec = env.do(t, http.MethodPost, "/payment/notification", "", notification(orderID, "settlement"))
	if rec.Code != http.StatusOK {
		t.Fatalf("webhook: status = %d", rec.Code)
	}
	if got := decodeData(t, rec)["result"]; got != "applied" {
		t.Fatalf("webhook result = %v, want applied", got)
	}

	// Read it back as the owner.
	rec = env.do(t, http.MethodGet, "/transactions/"+orderID, "user-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get transaction: status = %d", rec.Code)
	}
	tx := decodeData(t, rec)
	if tx["status"] != "SUCCESS" {
		t.Errorf("status = %v, want SUCCESS", tx["status"])
	}
	if tx["paid_at"] == nil {
		t.Fatal("paid_at must be set after settlement")
	}
	firstPaidAt := tx["paid_at"].(string)

	// A foreign owner must not see it.
	rec = env.do(t, http.MethodGet, "/transactions/"+orderID, "user-2", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign owner: status = %d, want 404", rec.Code)
	}

	// Replay the same delivery: applied again, nothing changes.
	rec = env.do(t, http.MethodPost, "/payment/notification", "", notification(orderID, "settlement"))
	if rec.Code != http.StatusOK {
		t.Fatalf("replay webhook: status = %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/transactions/"+orderID, "user-1", nil)
	tx = decodeData(t, rec)
	if tx["paid_at"].(string) != firstPaidAt {
		t.Error("webhook replay must not move paid_at")
	}

	// Statistics reflect the settled payment.
	rec = env.do(t, http.MethodGet, "/transactions/statistics", "user-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("statistics: status = %d", rec.Code)
	}
	stats := decodeData(t, rec)
	if stats["total_success_amount"].(float64) != 2_375_000 {
		t.Errorf("total_success_amount = %v, want 2375000", stats["total_success_amount"])
	}
}

func TestInfaqPaymentLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/infaq/payment", "user-1", map[string]interface{}{
		"nominal":        50_000,
		"payment_method": "MIDTRANS",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create infaq: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	orderID := decodeData(t, rec)["id"].(string)
	if !strings.HasPrefix(orderID, "INF-") {
		t.Fatalf("order id = %q", orderID)
	}

	n := map[string]string{
		"order_id":           orderID,
		"status_code":        "200",
		"gross_amount":       "50000.00",
		"signature_key":      midtrans.Signature(orderID, "200", "50000.00", testServerKey),
		"transaction_status": "settlement",
		"transaction_id":     "mid-trx-infaq",
	}
	rec = env.do(t, http.MethodPost, "/payment/notification", "", n)
	if rec.Code != http.StatusOK {
		t.Fatalf("webhook: status = %d", rec.Code)
	}
	if got := decodeData(t, rec)["result"]; got != "applied" {
		t.Fatalf("webhook result = %v, want applied", got)
	}

	row := env.infaq.rows[orderID]
	if row.Status != domain.StatusSuccess || row.PaidAt == nil {
		t.Errorf("infaq row = status %s paid_at %v, want SUCCESS and a timestamp", row.Status, row.PaidAt)
	}
}

func TestUpdateAndReadConfig(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/zakat/config", "admin-1", map[string]interface{}{
		"jenis_zakat": "FITRAH",
		"key":         "AMOUNT_PER_JIWA",
		"value":       40_000,
		"satuan":      "rupiah/jiwa",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update config: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// The override must flow into subsequent calculations.
	rec = env.do(t, http.MethodPost, "/zakat/calculate", "", map[string]interface{}{
		"jenis_zakat": "FITRAH",
		"jumlah_jiwa": 2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("calculate: status = %d", rec.Code)
	}
	if got := decodeData(t, rec)["nominal"].(float64); got != 80_000 {
		t.Errorf("nominal = %v, want 80000 after override", got)
	}

	rec = env.do(t, http.MethodGet, "/zakat/config", "admin-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get config: status = %d", rec.Code)
	}
	data := decodeData(t, rec)
	nisab := data["nisab"].(map[string]interface{})
	if nisab["FITRAH"] != "40000" {
		t.Errorf("nisab[FITRAH] = %v, want 40000", nisab["FITRAH"])
	}
}

func TestListTransactionsPaginatedEnvelope(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/payment", "user-1", map[string]interface{}{
		"jenis_zakat":    "FITRAH",
		"nominal":        35_000,
		"payment_method": "TRANSFER",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create payment: status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/transactions?page=1&limit=10", "user-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rec.Code)
	}
	var envelope struct {
		Status string                   `json:"status"`
		Data   []map[string]interface{} `json:"data"`
		Meta   *struct {
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Meta == nil || envelope.Meta.Total != 1 || envelope.Meta.Page != 1 {
		t.Errorf("meta = %+v, want total 1 page 1", envelope.Meta)
	}
	if len(envelope.Data) != 1 {
		t.Errorf("data rows = %d, want 1", len(envelope.Data))
	}
}
