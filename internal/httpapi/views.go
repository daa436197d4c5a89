package httpapi

import (
	"encoding/json"
	"net/http"

	cartdomain "github.com/springbooks/storefront/internal/cart/domain"
	checkoutapp "github.com/springbooks/storefront/internal/checkout/app"
	checkoutdomain "github.com/springbooks/storefront/internal/checkout/domain"
)

// Money is rendered as two-decimal strings at this edge only; everything
// behind it computes on unrounded decimals.

type lineItemView struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Price      string `json:"price"`
	CoverImage string `json:"coverImage,omitempty"`
	Quantity   int    `json:"quantity"`
	LineTotal  string `json:"lineTotal"`
}

type cartView struct {
	Items    []lineItemView `json:"items"`
	Subtotal string         `json:"subtotal"`
}

type summaryView struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
	Promo    string `json:"promo"`
}

type checkoutView struct {
	OrderID string      `json:"orderId"`
	Status  string      `json:"status"`
	Summary summaryView `json:"summary"`
}

type errorView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newCartView(items []cartdomain.LineItem) cartView {
	c := cartdomain.Cart{Items: items}
	views := make([]lineItemView, 0, len(items))
	for _, it := range items {
		views = append(views, lineItemView{
			ID:         it.BookID,
			Title:      it.Title,
			Author:     it.Author,
			Price:      it.UnitPrice.StringFixed(2),
			CoverImage: it.CoverImage,
			Quantity:   it.Quantity,
			LineTotal:  it.LineTotal().StringFixed(2),
		})
	}
	return cartView{Items: views, Subtotal: c.Subtotal().StringFixed(2)}
}

func newSummaryView(s checkoutdomain.Summary) summaryView {
	return summaryView{
		Subtotal: s.Subtotal.StringFixed(2),
		Shipping: s.Shipping.StringFixed(2),
		Tax:      s.Tax.StringFixed(2),
		Discount: s.Discount.StringFixed(2),
		Total:    s.Total.StringFixed(2),
		Promo:    string(s.Promo),
	}
}

func newCheckoutView(conf checkoutapp.OrderConfirmation, s checkoutdomain.Summary) checkoutView {
	return checkoutView{
		OrderID: conf.ID,
		Status:  conf.Status,
		Summary: newSummaryView(s),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorView{Code: code, Message: message})
}
