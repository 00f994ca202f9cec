package domain

import "time"

type TransactionStatus string

// PENDING is the sole initial status; the rest are terminal and only the
// notification reconciler (or a manual correction) moves a row there.
const (
	StatusPending   TransactionStatus = "PENDING"
	StatusSuccess   TransactionStatus = "SUCCESS"
	StatusFailed    TransactionStatus = "FAILED"
	StatusCancelled TransactionStatus = "CANCELLED"
	StatusExpired   TransactionStatus = "EXPIRED"
)

func AllTransactionStatuses() []TransactionStatus {
	return []TransactionStatus{StatusPending, StatusSuccess, StatusFailed, StatusCancelled, StatusExpired}
}

type PaymentMethod string

const (
	MethodMidtrans PaymentMethod = "MIDTRANS"
	MethodTransfer PaymentMethod = "TRANSFER"
)

// RequiresGateway reports whether a payment session must be opened with the
// external gateway for this method.
func (m PaymentMethod) RequiresGateway() bool {
	return m == MethodMidtrans
}

// ZakatTransaction rows are created PENDING by the payment orchestrator and
// mutated only through ApplyGatewayStatus. The id doubles as the gateway
// order identifier.
type ZakatTransaction struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	JenisZakat    ZakatType         `json:"jenis_zakat"`
	Nominal       int64             `json:"nominal"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	Status        TransactionStatus `json:"status"`
	MidtransID    *string           `json:"midtrans_id,omitempty"`
	Catatan       *string           `json:"catatan,omitempty"`
	PaidAt        *time.Time        `json:"paid_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// InfaqTransaction is the donation ledger; structurally parallel to the
// zakat ledger and sharing the same lifecycle contract.
type InfaqTransaction struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	Nominal       int64             `json:"nominal"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	Status        TransactionStatus `json:"status"`
	MidtransID    *string           `json:"midtrans_id,omitempty"`
	Catatan       *string           `json:"catatan,omitempty"`
	PaidAt        *time.Time        `json:"paid_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Owner is the slice of the account record the payment flow needs for
// gateway customer details. Accounts themselves live behind the user
// repository boundary.
type Owner struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// TransactionFilter narrows ListByUser; nil fields mean no filter.
type TransactionFilter struct {
	Status     *TransactionStatus
	JenisZakat *ZakatType
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	Limit      int
}

type StatBucket struct {
	Count  int64 `json:"count"`
	Amount int64 `json:"amount"`
}

type TransactionStatistics struct {
	Total              int64                 `json:"total"`
	ByStatus           map[string]StatBucket `json:"by_status"`
	ByType             map[string]StatBucket `json:"by_type"`
	TotalSuccessAmount int64                 `json:"total_success_amount"`
}

// StatusTypeAgg is one grouped row from the ledger aggregation query.
type StatusTypeAgg struct {
	Status     TransactionStatus
	JenisZakat ZakatType
	Count      int64
	Amount     int64
}
