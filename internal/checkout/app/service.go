package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/springbooks/storefront/internal/checkout/domain"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrCheckoutInFlight = errors.New("checkout already in flight")
)

// CartGateway exposes the two cart operations checkout needs: read the lines
// and, after a confirmed order, clear them.
type CartGateway interface {
	Items(ctx context.Context, userID string) ([]CartLine, error)
	Clear(ctx context.Context, userID string) error
}

// OrderPlacer submits an order to the external order-creation endpoint.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, userID, bearer string, req OrderRequest) (OrderConfirmation, error)
}

type OrderRequest struct {
	Items          []CartLine
	SubTotal       decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	IdempotencyKey string
}

type OrderConfirmation struct {
	ID        string
	Status    string
	Total     decimal.Decimal
	CreatedAt time.Time
}

// Service derives checkout summaries and submits orders. A per-user in-flight
// guard rejects a second submission while one is still running, so a
// double-click can never place two orders.
type Service struct {
	cart   CartGateway
	orders OrderPlacer
	log    *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewService(cart CartGateway, orders OrderPlacer, log *slog.Logger) *Service {
	return &Service{
		cart:     cart,
		orders:   orders,
		log:      log,
		inFlight: make(map[string]struct{}),
	}
}

// Quote computes the summary for the user's current cart and promo code.
func (s *Service) Quote(ctx context.Context, userID, promoCode string) (domain.Summary, error) {
	lines, err := s.cart.Items(ctx, userID)
	if err != nil {
		return domain.Summary{}, err
	}
	if len(lines) == 0 {
		return domain.Summary{}, ErrEmptyCart
	}
	return Summarize(lines, promoCode), nil
}

// Submit places an order for the user's cart. On success the cart is cleared;
// on any failure, including cancellation, the cart is left untouched so the
// user can retry.
func (s *Service) Submit(ctx context.Context, userID, promoCode, bearer string) (OrderConfirmation, domain.Summary, error) {
	if !s.begin(userID) {
		return OrderConfirmation{}, domain.Summary{}, ErrCheckoutInFlight
	}
	defer s.end(userID)

	lines, err := s.cart.Items(ctx, userID)
	if err != nil {
		return OrderConfirmation{}, domain.Summary{}, err
	}
	if len(lines) == 0 {
		return OrderConfirmation{}, domain.Summary{}, ErrEmptyCart
	}

	summary := Summarize(lines, promoCode)

	conf, err := s.orders.PlaceOrder(ctx, userID, bearer, OrderRequest{
		Items:          lines,
		SubTotal:       summary.Subtotal,
		Tax:            summary.Tax,
		Total:          summary.Total,
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return OrderConfirmation{}, summary, fmt.Errorf("place order for %s: %w", userID, err)
	}

	if err := s.cart.Clear(ctx, userID); err != nil {
		// The order went through; a stale cart is recoverable, a lost order
		// is not. Log and report success.
		s.log.Error("cart clear after checkout failed", slog.String("user_id", userID), slog.Any("err", err))
	}

	s.log.Info("order placed",
		slog.String("user_id", userID),
		slog.String("order_id", conf.ID),
		slog.String("total", summary.Total.StringFixed(2)),
	)
	return conf, summary, nil
}

func (s *Service) begin(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[userID]; busy {
		return false
	}
	s.inFlight[userID] = struct{}{}
	return true
}

func (s *Service) end(userID string) {
	s.mu.Lock()
	delete(s.inFlight, userID)
	s.mu.Unlock()
}
