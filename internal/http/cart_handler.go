package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/lighthouse/storefront/internal/domain"
	"github.com/lighthouse/storefront/internal/service"
)

// CartService is the slice of the cart service the handlers need.
type CartService interface {
	AddItem(ctx context.Context, item domain.CartItem) error
	Items(ctx context.Context) ([]domain.CartItem, error)
	UpdateQuantity(ctx context.Context, productID, size, color string, quantity int) error
	RemoveItem(ctx context.Context, productID, size, color string) (bool, error)
	ClearCart(ctx context.Context) error
}

type CartHandler struct {
	cart    CartService
	timeout time.Duration
}

func NewCartHandler(cart CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{cart: cart, timeout: timeout}
}

type AddItemRequestDTO struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

type CartResponseDTO struct {
	Items []domain.CartItem `json:"items"`
	Total string            `json:"total"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.cart.Items(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{
		Items: items,
		Total: service.CartTotal(items).StringFixed(2),
	})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
		return
	}

	err := h.cart.AddItem(ctx, domain.CartItem{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Size:      req.Size,
		Color:     req.Color,
		Quantity:  req.Quantity,
		ImageURL:  req.ImageURL,
	})
	if errors.Is(err, service.ErrMissingSelection) {
		respondError(w, http.StatusBadRequest, "missing_selection", "size and color must be selected")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add item")
		return
	}

	if uid := userIDFromContext(r.Context()); uid != "" {
		log.Printf("user %s added product %s to cart", uid, req.ProductID)
	}

	respondJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" || req.Size == "" || req.Color == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "product_id, size and color are required")
		return
	}

	// Quantity <= 0 is routed to removal by the service.
	if err := h.cart.UpdateQuantity(ctx, req.ProductID, req.Size, req.Color, req.Quantity); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update quantity")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := r.URL.Query().Get("product_id")
	size := r.URL.Query().Get("size")
	color := r.URL.Query().Get("color")
	if productID == "" || size == "" || color == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "product_id, size and color are required")
		return
	}

	removed, err := h.cart.RemoveItem(ctx, productID, size, color)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to remove item")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.cart.ClearCart(ctx); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear cart")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
