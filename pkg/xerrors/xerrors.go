package xerrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ParsePGErrorCode extracts the SQLSTATE code from a pgx error, e.g.
// 23505 for unique_violation.
func ParsePGErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return "unknown"
}

// Generic
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternalServer = errors.New("internal server error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not found")
)

// Calculation
var (
	ErrInvalidInput     = errors.New("invalid calculation input")
	ErrInvalidZakatType = errors.New("invalid zakat type")
)

// Payments
var (
	ErrAmountTooSmall      = errors.New("amount below minimum")
	ErrOwnerNotFound       = errors.New("owner not found")
	ErrPaymentGateway      = errors.New("payment gateway error")
	ErrTransactionNotFound = errors.New("transaction not found")
)
