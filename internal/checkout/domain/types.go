package domain

import "github.com/shopspring/decimal"

// PromoOutcome distinguishes "no code entered" from "code rejected" so the
// caller can message each case; both yield a zero discount.
type PromoOutcome string

const (
	PromoNone    PromoOutcome = "none"
	PromoApplied PromoOutcome = "applied"
	PromoInvalid PromoOutcome = "invalid"
)

// Summary is the derived pricing breakdown for a cart at a point in time.
// Values are unrounded; display rounding happens at the encoding edge only.
type Summary struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
	Promo    PromoOutcome
}
