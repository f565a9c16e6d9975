package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lighthouse/storefront/internal/cache"
	"github.com/lighthouse/storefront/internal/domain"
)

type fakeCatalog struct {
	m        sync.Mutex
	products []*domain.Product
	err      error
	calls    int
}

func (f *fakeCatalog) fetch() ([]*domain.Product, error) {
	f.m.Lock()
	defer f.m.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeCatalog) callCount() int {
	f.m.Lock()
	defer f.m.Unlock()
	return f.calls
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	f.m.Lock()
	defer f.m.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeCatalog) Featured(context.Context, int) ([]*domain.Product, error)  { return f.fetch() }
func (f *fakeCatalog) Suggested(context.Context, int) ([]*domain.Product, error) { return f.fetch() }
func (f *fakeCatalog) Newest(context.Context, int) ([]*domain.Product, error)    { return f.fetch() }

type fakeCache struct {
	m       sync.Mutex
	entries map[string][]*domain.Product
	getErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]*domain.Product)}
}

func (f *fakeCache) GetProducts(_ context.Context, key string) ([]*domain.Product, error) {
	f.m.Lock()
	defer f.m.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if products, ok := f.entries[key]; ok {
		return products, nil
	}
	return nil, cache.ErrCacheMiss
}

func (f *fakeCache) SetProducts(_ context.Context, key string, products []*domain.Product) error {
	f.m.Lock()
	defer f.m.Unlock()
	f.entries[key] = products
	return nil
}

func (f *fakeCache) cached(key string) []*domain.Product {
	f.m.Lock()
	defer f.m.Unlock()
	return f.entries[key]
}

func TestFeatured_FetchesAndCaches(t *testing.T) {
	cat := &fakeCatalog{products: []*domain.Product{{ID: "p1", Featured: true}}}
	c := newFakeCache()
	sut := NewCatalogService(cat, c)

	products, err := sut.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)

	// The cache write happens off the request path.
	require.Eventually(t, func() bool {
		return c.cached("featured") != nil
	}, time.Second, 10*time.Millisecond)

	// Second read is served from cache.
	_, err = sut.Featured(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cat.callCount())
}

func TestListing_CacheErrorFallsThroughToCatalog(t *testing.T) {
	cat := &fakeCatalog{products: []*domain.Product{{ID: "p1"}}}
	c := newFakeCache()
	c.getErr = errors.New("redis down")
	sut := NewCatalogService(cat, c)

	products, err := sut.Newest(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestListing_IndependentKeysDoNotShareFailures(t *testing.T) {
	cat := &fakeCatalog{products: []*domain.Product{{ID: "p1"}}}
	c := newFakeCache()
	sut := NewCatalogService(cat, c)

	// Prime "suggested" via cache so a later catalog failure for another
	// region cannot affect it.
	_, err := sut.Suggested(context.Background())
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return c.cached("suggested") != nil
	}, time.Second, 10*time.Millisecond)

	cat.m.Lock()
	cat.err = errors.New("firestore unavailable")
	cat.m.Unlock()

	_, err = sut.Featured(context.Background())
	require.Error(t, err)

	products, err := sut.Suggested(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestListing_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cat := &fakeCatalog{err: errors.New("firestore unavailable")}
	c := newFakeCache()
	sut := NewCatalogService(cat, c)

	for i := 0; i < 5; i++ {
		_, err := sut.Featured(context.Background())
		require.Error(t, err)
	}

	_, err := sut.Featured(context.Background())
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestGetProduct_PassesThrough(t *testing.T) {
	cat := &fakeCatalog{products: []*domain.Product{{ID: "p1", Name: "Tee"}}}
	sut := NewCatalogService(cat, newFakeCache())

	product, err := sut.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Tee", product.Name)
}
