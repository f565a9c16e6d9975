package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lighthouse/storefront/internal/domain"
	"github.com/lighthouse/storefront/internal/repository"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrMissingSelection = errors.New("size and color must be selected")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
)

type CartService struct {
	store repository.StoreInterface
}

func NewCartService(store repository.StoreInterface) *CartService {
	return &CartService{store: store}
}

// AddItem validates the selection and adds it to the cart. Quantity bounds
// and dedup on (product, size, color) are enforced by the store.
func (s *CartService) AddItem(ctx context.Context, item domain.CartItem) error {
	if item.ProductID == "" || item.Size == "" || item.Color == "" {
		return ErrMissingSelection
	}
	if item.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	if err := s.store.AddItem(ctx, item); err != nil {
		log.Printf("store add item error: %v", err)
		return err
	}
	return nil
}

func (s *CartService) Items(ctx context.Context) ([]domain.CartItem, error) {
	return s.store.ListItems(ctx)
}

// UpdateQuantity routes a requested quantity of zero or less to removal;
// everything else goes to the store, which clamps into [1, max].
func (s *CartService) UpdateQuantity(ctx context.Context, productID, size, color string, quantity int) error {
	if quantity <= 0 {
		if _, err := s.store.RemoveItem(ctx, productID, size, color); err != nil {
			log.Printf("store remove item error: %v", err)
			return err
		}
		return nil
	}

	if err := s.store.UpdateQuantity(ctx, productID, size, color, quantity); err != nil {
		log.Printf("store update quantity error: %v", err)
		return err
	}
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, productID, size, color string) (bool, error) {
	removed, err := s.store.RemoveItem(ctx, productID, size, color)
	if err != nil {
		log.Printf("store remove item error: %v", err)
		return false, err
	}
	return removed, nil
}

func (s *CartService) ClearCart(ctx context.Context) error {
	if err := s.store.ClearCart(ctx); err != nil {
		log.Printf("store clear cart error: %v", err)
		return err
	}
	return nil
}

// PlaceOrder converts the current cart into an order and empties the cart.
// The insert and the clear happen in one store transaction; an empty cart
// is rejected before any write.
func (s *CartService) PlaceOrder(ctx context.Context) (string, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		log.Printf("store list items error: %v", err)
		return "", err
	}
	if len(items) == 0 {
		return "", ErrEmptyCart
	}

	order := &domain.Order{
		ID:     uuid.NewString(),
		Date:   time.Now().UnixMilli(),
		Status: domain.OrderStatusPending,
		Total:  CartTotal(items).InexactFloat64(),
	}

	if err := s.store.SubmitOrder(ctx, order, items); err != nil {
		log.Printf("store submit order error: %v", err)
		return "", err
	}
	return order.ID, nil
}

// Orders returns all placed orders, newest first.
func (s *CartService) Orders(ctx context.Context) ([]domain.Order, error) {
	return s.store.ListOrders(ctx)
}

// CartTotal sums price x quantity over the given items. Decimal arithmetic
// keeps 19.99 + 19.99 at exactly 39.98.
func CartTotal(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total
}
