package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/lighthouse/storefront/internal/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const eventTypeOrderPlaced = "order.placed"

type Repository struct {
	db          *sql.DB
	maxQuantity int
}

// NewRepository opens (creating if needed) the SQLite database at dbPath.
// maxQuantity bounds a single line item's quantity; values <= 0 fall back
// to domain.MaxQuantity.
func NewRepository(dbPath string, maxQuantity int) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Writes are serialized through one connection; the store is small and
	// every call is a short transaction.
	db.SetMaxOpenConns(1)

	if maxQuantity <= 0 {
		maxQuantity = domain.MaxQuantity
	}

	return &Repository{db: db, maxQuantity: maxQuantity}, nil
}

func (r *Repository) RunMigrations() error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not load migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// AddItem inserts a new cart row, or bumps the quantity of the existing
// (product_id, size, color) row capped at maxQuantity. Name, price and
// image are last-write-wins on a re-add; added_at keeps the first
// insertion time.
func (r *Repository) AddItem(ctx context.Context, item domain.CartItem) error {
	query := `
		INSERT INTO cart_items (product_id, product_name, price, size, color, quantity, image_url, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(product_id, size, color) DO UPDATE SET
			quantity     = min(cart_items.quantity + excluded.quantity, ?),
			product_name = excluded.product_name,
			price        = excluded.price,
			image_url    = excluded.image_url
	`

	_, err := r.db.ExecContext(ctx, query,
		item.ProductID,
		item.Name,
		item.Price,
		item.Size,
		item.Color,
		min(item.Quantity, r.maxQuantity),
		item.ImageURL,
		time.Now().UnixMilli(),
		r.maxQuantity,
	)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

// ListItems returns every cart row, most recently added first. The result
// is never nil, an empty cart yields an empty slice.
func (r *Repository) ListItems(ctx context.Context) ([]domain.CartItem, error) {
	query := `
		SELECT id, product_id, product_name, price, size, color, quantity, image_url, added_at
		FROM cart_items
		ORDER BY added_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CartItem, 0)
	for rows.Next() {
		var item domain.CartItem
		var imageURL sql.NullString
		err := rows.Scan(
			&item.ID,
			&item.ProductID,
			&item.Name,
			&item.Price,
			&item.Size,
			&item.Color,
			&item.Quantity,
			&imageURL,
			&item.AddedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		item.ImageURL = imageURL.String
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

// UpdateQuantity overwrites the matching row's quantity, clamped into
// [1, maxQuantity]. A missing row is a no-op, not an error.
func (r *Repository) UpdateQuantity(ctx context.Context, productID, size, color string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	if quantity > r.maxQuantity {
		quantity = r.maxQuantity
	}

	query := `UPDATE cart_items SET quantity = ? WHERE product_id = ? AND size = ? AND color = ?`
	_, err := r.db.ExecContext(ctx, query, quantity, productID, size, color)
	if err != nil {
		return fmt.Errorf("failed to update quantity: %w", err)
	}
	return nil
}

// RemoveItem deletes the matching row. The bool reports whether anything
// was deleted; false is "nothing to remove", not an error.
func (r *Repository) RemoveItem(ctx context.Context, productID, size, color string) (bool, error) {
	query := `DELETE FROM cart_items WHERE product_id = ? AND size = ? AND color = ?`
	res, err := r.db.ExecContext(ctx, query, productID, size, color)
	if err != nil {
		return false, fmt.Errorf("failed to remove cart item: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return deleted > 0, nil
}

func (r *Repository) ClearCart(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items`); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// SubmitOrder inserts the order row, writes the order.placed outbox event
// and clears the cart in a single transaction. Either all three effects
// become visible or none do.
func (r *Repository) SubmitOrder(ctx context.Context, order *domain.Order, items []domain.CartItem) error {
	event := domain.OrderPlacedEvent{
		OrderID: order.ID,
		Date:    order.Date,
		Total:   order.Total,
		Items:   make([]domain.OrderLine, 0, len(items)),
	}
	for _, item := range items {
		event.Items = append(event.Items, domain.OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
		})
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (order_id, order_date, status, total) VALUES (?, ?, ?, ?)`,
		order.ID, order.Date, string(order.Status), order.Total)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO outbox_events (aggregate_id, event_type, payload, created_at) VALUES (?, ?, ?, ?)`,
		order.ID, eventTypeOrderPlaced, payload, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM cart_items`); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

// ListOrders returns all placed orders, newest first.
func (r *Repository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	query := `
		SELECT order_id, order_date, status, total
		FROM orders
		ORDER BY order_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		var status string
		if err := rows.Scan(&order.ID, &order.Date, &status, &order.Total); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		order.Status = domain.OrderStatus(status)
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}

func (r *Repository) GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	query := `
		SELECT id, aggregate_id, event_type, payload, created_at
		FROM outbox_events
		WHERE processed_at IS NULL
		ORDER BY id
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query outbox events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		event := &OutboxEvent{}
		if err := rows.Scan(&event.ID, &event.AggregateID, &event.EventType, &event.Payload, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}

func (r *Repository) MarkEventAsProcessed(ctx context.Context, id int64) error {
	query := `UPDATE outbox_events SET processed_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, time.Now().UnixMilli(), id); err != nil {
		return fmt.Errorf("failed to mark event as processed: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
