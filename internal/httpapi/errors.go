// Package httpapi maps domain errors onto HTTP responses.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
)

// Status returns the HTTP status and a stable error code for err.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicateKey):
		return http.StatusConflict, "DUPLICATE_KEY"
	case errors.Is(err, domain.ErrCommitted):
		return http.StatusConflict, "ORDER_COMMITTED"
	case errors.Is(err, domain.ErrInsufficientPayment):
		return http.StatusPaymentRequired, "INSUFFICIENT_PAYMENT"
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusInternalServerError, "PERSISTENCE_FAILURE"
	case errors.Is(err, domain.ErrIO):
		return http.StatusBadGateway, "IO_FAILURE"
	case errors.Is(err, domain.ErrRendering):
		return http.StatusInternalServerError, "RENDERING_FAILURE"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

// Message returns the text shown to clients. Internal failures are not
// echoed back.
func Message(err error) string {
	status, _ := Status(err)
	if status == http.StatusInternalServerError && !errors.Is(err, domain.ErrPersistence) && !errors.Is(err, domain.ErrRendering) {
		return "internal server error"
	}
	return err.Error()
}
