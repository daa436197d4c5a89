package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	checkoutapp "github.com/springbooks/storefront/internal/checkout/app"
)

// Client talks to the external order-creation endpoint. The bearer credential
// belongs to the calling user and is attached per request, never stored.
type Client struct {
	base string
	http *http.Client
}

func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: timeout},
	}
}

// StatusError is returned for non-2xx responses so callers can distinguish
// server rejection from transport failure.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("order api returned %d: %s", e.StatusCode, e.Body)
}

type orderItem struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Author     string      `json:"author"`
	Price      json.Number `json:"price"`
	CoverImage string      `json:"coverImage,omitempty"`
	Quantity   int         `json:"quantity"`
}

type orderPayload struct {
	Items    []orderItem `json:"items"`
	SubTotal json.Number `json:"subTotal"`
	Tax      json.Number `json:"tax"`
	Total    json.Number `json:"total"`
}

type orderResponse struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (c *Client) PlaceOrder(ctx context.Context, userID, bearer string, req checkoutapp.OrderRequest) (checkoutapp.OrderConfirmation, error) {
	items := make([]orderItem, 0, len(req.Items))
	for _, l := range req.Items {
		items = append(items, orderItem{
			ID:         l.BookID,
			Title:      l.Title,
			Author:     l.Author,
			Price:      number(l.UnitPrice),
			CoverImage: l.CoverImage,
			Quantity:   l.Quantity,
		})
	}

	body, err := json.Marshal(orderPayload{
		Items:    items,
		SubTotal: number(req.SubTotal),
		Tax:      number(req.Tax),
		Total:    number(req.Total),
	})
	if err != nil {
		return checkoutapp.OrderConfirmation{}, fmt.Errorf("encode order payload: %w", err)
	}

	u := c.base + "/api/order/addOrder/" + url.PathEscape(userID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return checkoutapp.OrderConfirmation{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+bearer)
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return checkoutapp.OrderConfirmation{}, fmt.Errorf("order api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return checkoutapp.OrderConfirmation{}, &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	var out orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return checkoutapp.OrderConfirmation{}, fmt.Errorf("decode order response: %w", err)
	}

	return checkoutapp.OrderConfirmation{
		ID:        out.ID,
		Status:    out.Status,
		Total:     out.TotalAmount,
		CreatedAt: out.CreatedAt,
	}, nil
}

// number renders a decimal as a bare JSON number with two-decimal display
// rounding; the wire format is the presentation edge for money.
func number(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}
