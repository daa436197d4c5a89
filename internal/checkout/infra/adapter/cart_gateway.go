package adapter

import (
	"context"

	cartapp "github.com/springbooks/storefront/internal/cart/app"
	checkoutapp "github.com/springbooks/storefront/internal/checkout/app"
)

// CartServiceGateway adapts the cart service to the checkout port.
type CartServiceGateway struct {
	svc *cartapp.Service
}

func NewCartServiceGateway(svc *cartapp.Service) *CartServiceGateway {
	return &CartServiceGateway{svc: svc}
}

func (g *CartServiceGateway) Items(ctx context.Context, userID string) ([]checkoutapp.CartLine, error) {
	mgr, err := g.svc.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := mgr.Items()
	lines := make([]checkoutapp.CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, checkoutapp.CartLine{
			BookID:     it.BookID,
			Title:      it.Title,
			Author:     it.Author,
			CoverImage: it.CoverImage,
			UnitPrice:  it.UnitPrice,
			Quantity:   it.Quantity,
		})
	}
	return lines, nil
}

func (g *CartServiceGateway) Clear(ctx context.Context, userID string) error {
	mgr, err := g.svc.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	mgr.Clear(ctx)
	return nil
}
