package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/lighthouse/storefront/internal/domain"
	"github.com/lighthouse/storefront/internal/service"
)

// OrderService is the slice of the cart service checkout needs.
type OrderService interface {
	PlaceOrder(ctx context.Context) (string, error)
	Orders(ctx context.Context) ([]domain.Order, error)
}

type OrderHandler struct {
	orders  OrderService
	timeout time.Duration
}

func NewOrderHandler(orders OrderService, timeout time.Duration) *OrderHandler {
	return &OrderHandler{orders: orders, timeout: timeout}
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, err := h.orders.PlaceOrder(ctx)
	if errors.Is(err, service.ErrEmptyCart) {
		respondError(w, http.StatusConflict, "empty_cart", "cart is empty")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to place order")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"order_id": orderID})
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.orders.Orders(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load orders")
		return
	}

	respondJSON(w, http.StatusOK, orders)
}
