package app

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/springbooks/storefront/internal/checkout/domain"
)

// CartLine is the checkout-local view of one cart line.
type CartLine struct {
	BookID     string
	Title      string
	Author     string
	CoverImage string
	UnitPrice  decimal.Decimal
	Quantity   int
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

var (
	// Orders strictly above the threshold ship free; exactly at it they pay.
	freeShippingThreshold = decimal.New(35, 0)
	shippingFee           = decimal.New(499, -2)
	taxRate               = decimal.New(1, -1)

	// Valid promo codes (lower-cased) and the discount rate they grant.
	promoCodes = map[string]decimal.Decimal{
		"bookworm": decimal.New(1, -1),
	}
)

// Summarize derives the pricing breakdown for a set of cart lines and an
// optional promo code. Pure: no state, no I/O, no intermediate rounding.
func Summarize(lines []CartLine, promoCode string) domain.Summary {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
	}

	shipping := shippingFee
	if subtotal.GreaterThan(freeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(taxRate)

	discount := decimal.Zero
	outcome := domain.PromoNone
	if strings.TrimSpace(promoCode) != "" {
		// Matching is case-insensitive but untrimmed: padded input is not a
		// valid code, it is an entered-and-rejected one.
		if rate, ok := promoCodes[strings.ToLower(promoCode)]; ok {
			discount = subtotal.Mul(rate)
			outcome = domain.PromoApplied
		} else {
			outcome = domain.PromoInvalid
		}
	}

	return domain.Summary{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Discount: discount,
		Total:    subtotal.Add(shipping).Add(tax).Sub(discount),
		Promo:    outcome,
	}
}
