package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	catalogapp "github.com/springbooks/storefront/internal/catalog/app"
	checkoutapp "github.com/springbooks/storefront/internal/checkout/app"
	"github.com/springbooks/storefront/internal/checkout/infra/orderapi"
)

func TestHTTPStatusFromError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid input -> 400", catalogapp.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"not found -> 404", fmt.Errorf("book b1: %w", catalogapp.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"empty cart -> 422", checkoutapp.ErrEmptyCart, http.StatusUnprocessableEntity, "EMPTY_CART"},
		{"in flight -> 409", checkoutapp.ErrCheckoutInFlight, http.StatusConflict, "CHECKOUT_IN_FLIGHT"},
		{"upstream -> 502", fmt.Errorf("place order: %w", &orderapi.StatusError{StatusCode: 500}), http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"deadline -> 503", context.DeadlineExceeded, http.StatusServiceUnavailable, "UNAVAILABLE"},
		{"unknown -> 500", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, gotCode, _ := httpStatusFromError(tc.err)
			if gotStatus != tc.wantStatus || gotCode != tc.wantCode {
				t.Fatalf("got (%d,%s)", gotStatus, gotCode)
			}
		})
	}
}
