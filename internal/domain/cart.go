package domain

// MaxQuantity is the default upper bound on a single line item's quantity.
const MaxQuantity = 10

// CartItem is one (product, size, color) selection and its quantity.
// At most one row exists per (ProductID, Size, Color) tuple; adding the
// same tuple again bumps the existing row's quantity instead.
type CartItem struct {
	ID        int64   `json:"id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url,omitempty"`
	AddedAt   int64   `json:"added_at"` // epoch millis, used only for ordering
}

// Key identifies a cart line for UI diffing. Rows with the same key but
// different quantity are the same item, changed.
func (c CartItem) Key() (string, string, string) {
	return c.ProductID, c.Size, c.Color
}
