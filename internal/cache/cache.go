package cache

import (
	"context"
	"errors"

	"github.com/lighthouse/storefront/internal/domain"
)

type ProductCache interface {
	GetProducts(ctx context.Context, key string) ([]*domain.Product, error)
	SetProducts(ctx context.Context, key string, products []*domain.Product) error
}

var ErrCacheMiss = errors.New("cache miss")
