package catalog

import (
	"errors"

	"github.com/lighthouse/storefront/internal/domain"
)

// docToProduct maps a loosely-typed catalog document into a Product.
// Every field has an explicit default (empty string, zero, empty list,
// false); the whole record fails only when there is no data at all.
func docToProduct(id string, data map[string]interface{}) (*domain.Product, error) {
	if data == nil {
		return nil, errors.New("document has no data")
	}

	return &domain.Product{
		ID:          id,
		Name:        stringField(data, "name"),
		Price:       floatField(data, "price"),
		Description: stringField(data, "description"),
		ImageURLs:   stringListField(data, "imageUrls"),
		Sizes:       stringListField(data, "sizes"),
		Colors:      stringListField(data, "colors"),
		Featured:    boolField(data, "featured"),
		Suggested:   boolField(data, "suggested"),
		CreatedAt:   intField(data, "createdAt"),
	}, nil
}

func stringField(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func floatField(data map[string]interface{}, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func intField(data map[string]interface{}, key string) int64 {
	switch v := data[key].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

func boolField(data map[string]interface{}, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

func stringListField(data map[string]interface{}, key string) []string {
	raw, ok := data[key].([]interface{})
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		if s, ok := entry.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
