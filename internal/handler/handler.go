package handler

import (
	"errors"
	"net/http"

	"zakat-service/pkg/response"
	"zakat-service/pkg/xerrors"
)

// ownerID pulls the authenticated account id injected by the upstream
// gateway. Authentication itself happens before this service.
func ownerID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, xerrors.ErrInvalidInput),
		errors.Is(err, xerrors.ErrInvalidZakatType),
		errors.Is(err, xerrors.ErrInvalidRequest),
		errors.Is(err, xerrors.ErrAmountTooSmall):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, xerrors.ErrOwnerNotFound),
		errors.Is(err, xerrors.ErrTransactionNotFound):
		response.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, xerrors.ErrUnauthorized):
		response.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, xerrors.ErrPaymentGateway):
		response.Error(w, http.StatusBadGateway, "payment gateway unavailable, retry later")
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
