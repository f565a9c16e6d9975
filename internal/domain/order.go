package domain

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
)

// Order is an immutable snapshot taken at checkout time. The total is fixed
// at creation and never recomputed from later cart state.
type Order struct {
	ID     string      `json:"order_id"`
	Date   int64       `json:"order_date"` // epoch millis
	Status OrderStatus `json:"status"`
	Total  float64     `json:"total"`
}

// OrderLine is one line of the order snapshot carried in the placed event.
type OrderLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"product_name"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
}

// OrderPlacedEvent is the payload published for every placed order.
type OrderPlacedEvent struct {
	OrderID string      `json:"order_id"`
	Date    int64       `json:"order_date"`
	Total   float64     `json:"total"`
	Items   []OrderLine `json:"items"`
}
