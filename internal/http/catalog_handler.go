package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sony/gobreaker/v2"

	"github.com/lighthouse/storefront/internal/catalog"
	"github.com/lighthouse/storefront/internal/domain"
)

// CatalogService is the slice of the catalog service the handlers need.
type CatalogService interface {
	Featured(ctx context.Context) ([]*domain.Product, error)
	Suggested(ctx context.Context) ([]*domain.Product, error)
	Newest(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type CatalogHandler struct {
	catalog CatalogService
	timeout time.Duration
}

func NewCatalogHandler(cat CatalogService, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{catalog: cat, timeout: timeout}
}

func (h *CatalogHandler) Featured(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, h.catalog.Featured)
}

func (h *CatalogHandler) Suggested(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, h.catalog.Suggested)
}

func (h *CatalogHandler) Newest(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, h.catalog.Newest)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	product, err := h.catalog.GetProduct(ctx, id)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) listing(w http.ResponseWriter, r *http.Request, fetch func(context.Context) ([]*domain.Product, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := fetch(ctx)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, products)
}

func handleCatalogError(w http.ResponseWriter, err error) {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "catalog temporarily unavailable")
		return
	}
	respondError(w, http.StatusBadGateway, "catalog_error", "failed to query catalog")
}
