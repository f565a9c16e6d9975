package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"github.com/lighthouse/storefront/internal/cache"
	"github.com/lighthouse/storefront/internal/catalog"
	"github.com/lighthouse/storefront/internal/domain"
)

// Listing limits mirror the home screen's display regions.
const (
	featuredLimit  = 6
	suggestedLimit = 10
	newestLimit    = 6
)

type CatalogService struct {
	catalog catalog.Catalog
	cache   cache.ProductCache
	sfg     singleflight.Group // Prevents cache stampede

	listBreaker    *gobreaker.CircuitBreaker[[]*domain.Product]
	productBreaker *gobreaker.CircuitBreaker[*domain.Product]
}

func NewCatalogService(cat catalog.Catalog, productCache cache.ProductCache) *CatalogService {
	settings := gobreaker.Settings{
		Name:    "catalog",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &CatalogService{
		catalog:        cat,
		cache:          productCache,
		listBreaker:    gobreaker.NewCircuitBreaker[[]*domain.Product](settings),
		productBreaker: gobreaker.NewCircuitBreaker[*domain.Product](settings),
	}
}

func (s *CatalogService) Featured(ctx context.Context) ([]*domain.Product, error) {
	return s.listing(ctx, "featured", func() ([]*domain.Product, error) {
		return s.catalog.Featured(ctx, featuredLimit)
	})
}

func (s *CatalogService) Suggested(ctx context.Context) ([]*domain.Product, error) {
	return s.listing(ctx, "suggested", func() ([]*domain.Product, error) {
		return s.catalog.Suggested(ctx, suggestedLimit)
	})
}

func (s *CatalogService) Newest(ctx context.Context) ([]*domain.Product, error) {
	return s.listing(ctx, "newest", func() ([]*domain.Product, error) {
		return s.catalog.Newest(ctx, newestLimit)
	})
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.productBreaker.Execute(func() (*domain.Product, error) {
		return s.catalog.GetProduct(ctx, id)
	})
}

// listing serves a product listing cache-first. Cache failures other than a
// miss are logged and treated as a miss; each listing is an independent
// query, so one failing never corrupts another.
func (s *CatalogService) listing(ctx context.Context, key string, fetch func() ([]*domain.Product, error)) ([]*domain.Product, error) {
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		products, err := s.cache.GetProducts(ctx, key)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err)
		}

		products, err = s.listBreaker.Execute(fetch)
		if err != nil {
			return nil, err
		}

		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.SetProducts(setCtx, key, products); err != nil {
				log.Printf("cache set error: %v", err)
			}
		}()

		return products, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]*domain.Product), nil
}
