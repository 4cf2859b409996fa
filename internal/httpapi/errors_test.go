package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation -> 400", fmt.Errorf("%w: quantity", domain.ErrValidation), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found -> 404", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"duplicate -> 409", domain.ErrDuplicateKey, http.StatusConflict, "DUPLICATE_KEY"},
		{"committed -> 409", domain.ErrCommitted, http.StatusConflict, "ORDER_COMMITTED"},
		{"insufficient payment -> 402", domain.ErrInsufficientPayment, http.StatusPaymentRequired, "INSUFFICIENT_PAYMENT"},
		{"persistence -> 500", fmt.Errorf("%w: disk full", domain.ErrPersistence), http.StatusInternalServerError, "PERSISTENCE_FAILURE"},
		{"io -> 502", domain.ErrIO, http.StatusBadGateway, "IO_FAILURE"},
		{"unknown -> 500", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := Status(tc.err)
			if status != tc.status || code != tc.code {
				t.Fatalf("got (%d,%s), want (%d,%s)", status, code, tc.status, tc.code)
			}
		})
	}
}

func TestMessageHidesInternalErrors(t *testing.T) {
	if got := Message(errors.New("pq: connection refused")); got != "internal server error" {
		t.Fatalf("expected generic message, got %q", got)
	}
	err := fmt.Errorf("%w: quantity must be greater than zero", domain.ErrValidation)
	if got := Message(err); got != err.Error() {
		t.Fatalf("expected validation message, got %q", got)
	}
}
