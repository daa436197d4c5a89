package app

import (
	"context"

	"github.com/springbooks/storefront/internal/catalog/domain"
)

type Reader interface {
	GetBook(ctx context.Context, id string) (domain.Book, error)
}
