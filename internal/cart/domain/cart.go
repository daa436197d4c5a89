package domain

import "github.com/shopspring/decimal"

// Book carries the catalog fields copied into a cart line at add time.
// Display fields are frozen at that point and never re-synced to the catalog.
type Book struct {
	ID         string
	Title      string
	Author     string
	Price      decimal.Decimal
	CoverImage string
}

type LineItem struct {
	BookID     string          `json:"id"`
	Title      string          `json:"title"`
	Author     string          `json:"author"`
	UnitPrice  decimal.Decimal `json:"price"`
	CoverImage string          `json:"coverImage,omitempty"`
	Quantity   int             `json:"quantity"`
}

func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is an ordered sequence of line items, at most one per book id.
// Insertion order is kept for stable display.
type Cart struct {
	Items []LineItem
}

func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, li := range c.Items {
		total = total.Add(li.LineTotal())
	}
	return total
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Add merges a book into the cart: an existing line gains quantity 1, a new
// book is appended with quantity 1.
func (c *Cart) Add(b Book) {
	for i := range c.Items {
		if c.Items[i].BookID == b.ID {
			c.Items[i].Quantity++
			return
		}
	}
	c.Items = append(c.Items, LineItem{
		BookID:     b.ID,
		Title:      b.Title,
		Author:     b.Author,
		UnitPrice:  b.Price,
		CoverImage: b.CoverImage,
		Quantity:   1,
	})
}

// Remove drops the line with the given book id. Absent ids are a no-op.
func (c *Cart) Remove(bookID string) {
	for i := range c.Items {
		if c.Items[i].BookID == bookID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// SetQuantity sets the quantity for a line. A quantity below 1 removes the
// line; there is no upper bound. Absent ids are a no-op.
func (c *Cart) SetQuantity(bookID string, qty int) {
	if qty < 1 {
		c.Remove(bookID)
		return
	}
	for i := range c.Items {
		if c.Items[i].BookID == bookID {
			c.Items[i].Quantity = qty
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

// Clone returns a deep enough copy for handing out snapshots of the items.
func (c Cart) Clone() Cart {
	if len(c.Items) == 0 {
		return Cart{}
	}
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
