package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"zakat-service/internal/domain"
	"zakat-service/pkg/xerrors"
)

// DefaultMinNominal is the payment floor in rupiah.
const DefaultMinNominal = 1_000

// ZakatStore and InfaqStore are the write sides of the two ledgers used by
// the orchestrator. The reconciler owns all later status mutations.
type ZakatStore interface {
	Create(ctx context.Context, tx *domain.ZakatTransaction) error
	SetGatewayRef(ctx context.Context, id, ref string) error
}

type InfaqStore interface {
	Create(ctx context.Context, tx *domain.InfaqTransaction) error
	SetGatewayRef(ctx context.Context, id, ref string) error
}

// OwnerResolver looks up the paying account. Returns (nil, nil) when the
// account does not exist or is deleted.
type OwnerResolver interface {
	ResolveOwner(ctx context.Context, id string) (*domain.Owner, error)
}

type Gateway interface {
	CreateSession(ctx context.Context, req domain.SessionRequest) (domain.PaymentSession, error)
}

type Usecase struct {
	zakat      ZakatStore
	infaq      InfaqStore
	users      OwnerResolver
	gateway    Gateway
	minNominal int64
	log        *zap.Logger
}

func NewUsecase(zakat ZakatStore, infaq InfaqStore, users OwnerResolver, gateway Gateway, log *zap.Logger) *Usecase {
	return &Usecase{
		zakat:      zakat,
		infaq:      infaq,
		users:      users,
		gateway:    gateway,
		minNominal: DefaultMinNominal,
		log:        log,
	}
}

type CreateZakatRequest struct {
	JenisZakat    string  `json:"jenis_zakat"`
	Nominal       int64   `json:"nominal"`
	PaymentMethod string  `json:"payment_method"`
	Catatan       *string `json:"catatan,omitempty"`
}

type CreateInfaqRequest struct {
	Nominal       int64   `json:"nominal"`
	PaymentMethod string  `json:"payment_method"`
	Catatan       *string `json:"catatan,omitempty"`
}

type Response struct {
	ID            string                   `json:"id"`
	JenisZakat    *domain.ZakatType        `json:"jenis_zakat,omitempty"`
	Nominal       int64                    `json:"nominal"`
	PaymentMethod domain.PaymentMethod     `json:"payment_method"`
	Status        domain.TransactionStatus `json:"status"`
	PaymentToken  string                   `json:"payment_token,omitempty"`
	PaymentURL    string                   `json:"payment_url,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
}

func parseMethod(s string) (domain.PaymentMethod, error) {
	switch domain.PaymentMethod(s) {
	case domain.MethodMidtrans:
		return domain.MethodMidtrans, nil
	case domain.MethodTransfer:
		return domain.MethodTransfer, nil
	default:
		return "", fmt.Errorf("%w: unknown payment method %q", xerrors.ErrInvalidRequest, s)
	}
}

// CreateZakatPayment opens a PENDING transaction and, for gateway-backed
// methods, a payment session. A gateway failure after the row exists is
// surfaced but the row stays PENDING: reconciliation can retry later.
func (uc *Usecase) CreateZakatPayment(ctx context.Context, userID string, req CreateZakatRequest) (*Response, error) {
	jenis, err := domain.ParseZakatType(req.JenisZakat)
	if err != nil {
		return nil, err
	}
	method, err := parseMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if req.Nominal < uc.minNominal {
		return nil, fmt.Errorf("%w: minimum is Rp %d", xerrors.ErrAmountTooSmall, uc.minNominal)
	}

	owner, err := uc.users.ResolveOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve owner: %w", err)
	}
	if owner == nil {
		return nil, xerrors.ErrOwnerNotFound
	}

	tx := &domain.ZakatTransaction{
		ID:            "ZKT-" + uuid.NewString(),
		UserID:        owner.ID,
		JenisZakat:    jenis,
		Nominal:       req.Nominal,
		PaymentMethod: method,
		Status:        domain.StatusPending,
		Catatan:       req.Catatan,
	}
	if err := uc.zakat.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("create zakat transaction: %w", err)
	}

	resp := &Response{
		ID:            tx.ID,
		JenisZakat:    &jenis,
		Nominal:       tx.Nominal,
		PaymentMethod: tx.PaymentMethod,
		Status:        tx.Status,
		CreatedAt:     tx.CreatedAt,
	}

	if method.RequiresGateway() {
		session, err := uc.openSession(ctx, tx.ID, tx.Nominal, *owner,
			"zakat-"+string(jenis), "Zakat "+jenis.DisplayName())
		if err != nil {
			return nil, err
		}
		if err := uc.zakat.SetGatewayRef(ctx, tx.ID, session.Token); err != nil {
			return nil, fmt.Errorf("store gateway ref: %w", err)
		}
		resp.PaymentToken = session.Token
		resp.PaymentURL = session.RedirectURL
	}

	return resp, nil
}

// CreateInfaqPayment is the donation counterpart of CreateZakatPayment.
func (uc *Usecase) CreateInfaqPayment(ctx context.Context, userID string, req CreateInfaqRequest) (*Response, error) {
	method, err := parseMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if req.Nominal < uc.minNominal {
		return nil, fmt.Errorf("%w: minimum is Rp %d", xerrors.ErrAmountTooSmall, uc.minNominal)
	}

	owner, err := uc.users.ResolveOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve owner: %w", err)
	}
	if owner == nil {
		return nil, xerrors.ErrOwnerNotFound
	}

	tx := &domain.InfaqTransaction{
		ID:            "INF-" + uuid.NewString(),
		UserID:        owner.ID,
		Nominal:       req.Nominal,
		PaymentMethod: method,
		Status:        domain.StatusPending,
		Catatan:       req.Catatan,
	}
	if err := uc.infaq.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("create infaq transaction: %w", err)
	}

	resp := &Response{
		ID:            tx.ID,
		Nominal:       tx.Nominal,
		PaymentMethod: tx.PaymentMethod,
		Status:        tx.Status,
		CreatedAt:     tx.CreatedAt,
	}

	if method.RequiresGateway() {
		session, err := uc.openSession(ctx, tx.ID, tx.Nominal, *owner, "infaq", "Infaq / Sedekah")
		if err != nil {
			return nil, err
		}
		if err := uc.infaq.SetGatewayRef(ctx, tx.ID, session.Token); err != nil {
			return nil, fmt.Errorf("store gateway ref: %w", err)
		}
		resp.PaymentToken = session.Token
		resp.PaymentURL = session.RedirectURL
	}

	return resp, nil
}

func (uc *Usecase) openSession(ctx context.Context, orderID string, nominal int64, owner domain.Owner, itemID, itemName string) (domain.PaymentSession, error) {
	session, err := uc.gateway.CreateSession(ctx, domain.SessionRequest{
		OrderID:     orderID,
		GrossAmount: nominal,
		Customer:    owner,
		ItemID:      itemID,
		ItemName:    itemName,
	})
	if err != nil {
		// The PENDING row is left in place on purpose.
		uc.log.Warn("gateway session failed, transaction stays pending",
			zap.String("order_id", orderID), zap.Error(err))
		return domain.PaymentSession{}, err
	}
	return session, nil
}
