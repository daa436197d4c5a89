package app

import (
	"context"
	"errors"
	"strings"

	"github.com/springbooks/storefront/internal/catalog/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	reader Reader
}

func NewService(reader Reader) *Service {
	return &Service{reader: reader}
}

func (s *Service) GetBook(ctx context.Context, id string) (domain.Book, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Book{}, ErrInvalidInput
	}
	return s.reader.GetBook(ctx, id)
}
