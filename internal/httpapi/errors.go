package httpapi

import (
	"context"
	"errors"
	"net/http"

	catalogapp "github.com/springbooks/storefront/internal/catalog/app"
	checkoutapp "github.com/springbooks/storefront/internal/checkout/app"
	"github.com/springbooks/storefront/internal/checkout/infra/orderapi"
)

// httpStatusFromError maps application errors to an HTTP status and a stable
// machine-readable code.
func httpStatusFromError(err error) (int, string, string) {
	var se *orderapi.StatusError

	switch {
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_ARGUMENT", err.Error()
	case errors.Is(err, catalogapp.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, checkoutapp.ErrEmptyCart):
		return http.StatusUnprocessableEntity, "EMPTY_CART", err.Error()
	case errors.Is(err, checkoutapp.ErrCheckoutInFlight):
		return http.StatusConflict, "CHECKOUT_IN_FLIGHT", err.Error()
	case errors.As(err, &se):
		return http.StatusBadGateway, "UPSTREAM_ERROR", err.Error()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "UNAVAILABLE", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}
}
