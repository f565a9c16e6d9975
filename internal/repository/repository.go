package repository

import (
	"context"

	"github.com/lighthouse/storefront/internal/domain"
)

// OutboxEvent is a pending domain event written in the same transaction as
// the state change it describes.
type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   int64
}

// StoreInterface defines the cart/order data operations.
// Consumers define this interface, not the SQLite implementation.
type StoreInterface interface {
	AddItem(ctx context.Context, item domain.CartItem) error
	ListItems(ctx context.Context) ([]domain.CartItem, error)
	UpdateQuantity(ctx context.Context, productID, size, color string, quantity int) error
	RemoveItem(ctx context.Context, productID, size, color string) (bool, error)
	ClearCart(ctx context.Context) error
	SubmitOrder(ctx context.Context, order *domain.Order, items []domain.CartItem) error
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int64) error
	Close() error
}
