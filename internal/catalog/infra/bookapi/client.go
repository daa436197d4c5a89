package bookapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/springbooks/storefront/internal/catalog/app"
	"github.com/springbooks/storefront/internal/catalog/domain"
)

// Client reads books from the external catalog API.
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

type bookDTO struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Price       decimal.Decimal `json:"price"`
	CoverImage  string          `json:"coverImage"`
	Description string          `json:"description"`
	Genre       string          `json:"genre"`
}

func (c *Client) GetBook(ctx context.Context, id string) (domain.Book, error) {
	u := c.base + "/api/book/getBookById/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Book{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Book{}, fmt.Errorf("catalog api request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.Book{}, fmt.Errorf("book %s: %w", id, app.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return domain.Book{}, fmt.Errorf("catalog api returned %d for book %s", resp.StatusCode, id)
	}

	var dto bookDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return domain.Book{}, fmt.Errorf("decode book %s: %w", id, err)
	}

	return domain.Book{
		ID:          dto.ID,
		Title:       dto.Title,
		Author:      dto.Author,
		Price:       dto.Price,
		CoverImage:  dto.CoverImage,
		Description: dto.Description,
		Genre:       dto.Genre,
	}, nil
}
