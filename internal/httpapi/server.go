package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cartapp "github.com/springbooks/storefront/internal/cart/app"
	cartdomain "github.com/springbooks/storefront/internal/cart/domain"
	catalogapp "github.com/springbooks/storefront/internal/catalog/app"
	checkoutapp "github.com/springbooks/storefront/internal/checkout/app"
)

// Server is the storefront REST surface over the cart, catalog and checkout
// services.
type Server struct {
	carts    *cartapp.Service
	checkout *checkoutapp.Service
	catalog  *catalogapp.Service
	auth     *Authenticator
	log      *slog.Logger
}

func NewServer(carts *cartapp.Service, checkout *checkoutapp.Service, catalog *catalogapp.Service, auth *Authenticator, log *slog.Logger) *Server {
	return &Server{
		carts:    carts,
		checkout: checkout,
		catalog:  catalog,
		auth:     auth,
		log:      log,
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(metricsMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }).Methods(http.MethodGet)
	r.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.auth.Middleware)

	api.HandleFunc("/cart", s.handleGetCart).Methods(http.MethodGet)
	api.HandleFunc("/cart", s.handleClearCart).Methods(http.MethodDelete)
	api.HandleFunc("/cart/items", s.handleAddItem).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{bookID}", s.handleSetQuantity).Methods(http.MethodPut)
	api.HandleFunc("/cart/items/{bookID}", s.handleRemoveItem).Methods(http.MethodDelete)

	api.HandleFunc("/checkout/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/checkout", s.handleCheckout).Methods(http.MethodPost)

	return r
}

func (s *Server) manager(w http.ResponseWriter, r *http.Request) (*cartapp.Manager, Identity, bool) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "no identity")
		return nil, Identity{}, false
	}
	mgr, err := s.carts.GetOrCreate(r.Context(), id.UserID)
	if err != nil {
		s.respondError(w, r, err)
		return nil, Identity{}, false
	}
	return mgr, id, true
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	mgr, _, ok := s.manager(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newCartView(mgr.Items()))
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	mgr, _, ok := s.manager(w, r)
	if !ok {
		return
	}
	mgr.Clear(r.Context())
	writeJSON(w, http.StatusOK, newCartView(mgr.Items()))
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	mgr, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	var body struct {
		BookID string `json:"bookId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.BookID == "" {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "bookId is required")
		return
	}

	book, err := s.catalog.GetBook(r.Context(), body.BookID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	mgr.AddItem(r.Context(), cartdomain.Book{
		ID:         book.ID,
		Title:      book.Title,
		Author:     book.Author,
		Price:      book.Price,
		CoverImage: book.CoverImage,
	})
	writeJSON(w, http.StatusOK, newCartView(mgr.Items()))
}

func (s *Server) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	mgr, _, ok := s.manager(w, r)
	if !ok {
		return
	}

	var body struct {
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Quantity == nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "quantity is required")
		return
	}

	mgr.SetQuantity(r.Context(), mux.Vars(r)["bookID"], *body.Quantity)
	writeJSON(w, http.StatusOK, newCartView(mgr.Items()))
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	mgr, _, ok := s.manager(w, r)
	if !ok {
		return
	}
	mgr.RemoveItem(r.Context(), mux.Vars(r)["bookID"])
	writeJSON(w, http.StatusOK, newCartView(mgr.Items()))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "no identity")
		return
	}

	summary, err := s.checkout.Quote(r.Context(), id.UserID, r.URL.Query().Get("promo"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSummaryView(summary))
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "no identity")
		return
	}

	var body struct {
		PromoCode string `json:"promoCode"`
	}
	// An absent body means no promo code; a present but malformed one is an
	// error, like everywhere else.
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "malformed request body")
		return
	}

	conf, summary, err := s.checkout.Submit(r.Context(), id.UserID, body.PromoCode, id.Bearer)
	if err != nil {
		checkoutOutcomes.WithLabelValues(outcomeLabel(err)).Inc()
		s.respondError(w, r, err)
		return
	}

	checkoutOutcomes.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusCreated, newCheckoutView(conf, summary))
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, checkoutapp.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, checkoutapp.ErrCheckoutInFlight):
		return "in_flight"
	default:
		return "error"
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := httpStatusFromError(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("err", err),
		)
	}
	writeError(w, status, code, msg)
}
