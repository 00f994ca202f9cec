package reconcile

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"zakat-service/internal/domain"
	"zakat-service/internal/provider/midtrans"
)

// Ledger is the mutation surface the reconciler needs: a single conditional
// write keyed by order id. Found reports whether the id matched a row.
type Ledger interface {
	ApplyGatewayStatus(ctx context.Context, orderID string, status domain.TransactionStatus, gatewayRef string) (found bool, err error)
}

// Outcome classifies a handled notification for the audit log. The
// transport layer answers 200 for every outcome; only a storage error is
// worth letting the gateway retry.
type Outcome string

const (
	OutcomeApplied          Outcome = "applied"
	OutcomeInvalidSignature Outcome = "invalid_signature"
	OutcomeUnknownOrder     Outcome = "unknown_order"
)

type Service struct {
	zakat     Ledger
	infaq     Ledger
	serverKey string
	log       *zap.Logger
}

func NewService(zakat, infaq Ledger, serverKey string, log *zap.Logger) *Service {
	return &Service{zakat: zakat, infaq: infaq, serverKey: serverKey, log: log}
}

// MapStatus translates the gateway vocabulary into the internal enum.
// Precedence matters: a challenged capture is held PENDING for fraud
// review even though capture normally means SUCCESS.
func MapStatus(transactionStatus, fraudStatus string) domain.TransactionStatus {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "challenge" {
			return domain.StatusPending
		}
		return domain.StatusSuccess
	case "settlement":
		return domain.StatusSuccess
	case "pending":
		return domain.StatusPending
	case "deny", "cancel":
		return domain.StatusCancelled
	case "expire":
		return domain.StatusExpired
	default:
		return domain.StatusFailed
	}
}

// HandleNotification verifies, maps and applies one webhook delivery.
// Deliveries may be duplicated or out of order; every step is safe to
// re-run with the same payload. The returned error is non-nil only for
// storage failures, where a gateway retry is actually useful.
func (s *Service) HandleNotification(ctx context.Context, n domain.PaymentNotification) (Outcome, error) {
	if !midtrans.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, s.serverKey, n.SignatureKey) {
		s.log.Warn("notification rejected: invalid signature",
			zap.String("order_id", n.OrderID),
			zap.String("transaction_status", n.TransactionStatus))
		return OutcomeInvalidSignature, nil
	}

	status := MapStatus(n.TransactionStatus, n.FraudStatus)

	for _, ledger := range s.route(n.OrderID) {
		found, err := ledger.ApplyGatewayStatus(ctx, n.OrderID, status, n.TransactionID)
		if err != nil {
			return "", fmt.Errorf("apply notification %s: %w", n.OrderID, err)
		}
		if found {
			s.log.Info("notification applied",
				zap.String("order_id", n.OrderID),
				zap.String("status", string(status)))
			return OutcomeApplied, nil
		}
	}

	// Unknown ids must not error out: the gateway would retry forever.
	s.log.Warn("notification for unknown order", zap.String("order_id", n.OrderID))
	return OutcomeUnknownOrder, nil
}

// route picks the ledgers to try. Ids minted here carry a ZKT-/INF- prefix
// so routing is direct; anything else falls back to zakat-then-infaq.
func (s *Service) route(orderID string) []Ledger {
	switch {
	case strings.HasPrefix(orderID, "ZKT-"):
		return []Ledger{s.zakat}
	case strings.HasPrefix(orderID, "INF-"):
		return []Ledger{s.infaq}
	default:
		return []Ledger{s.zakat, s.infaq}
	}
}
