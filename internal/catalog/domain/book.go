package domain

import "github.com/shopspring/decimal"

// Book is the catalog read model. The storefront never writes the catalog; it
// copies the fields it needs into cart lines at add time.
type Book struct {
	ID          string
	Title       string
	Author      string
	Price       decimal.Decimal
	CoverImage  string
	Description string
	Genre       string
}
