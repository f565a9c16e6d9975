package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocToProduct_FullDocument(t *testing.T) {
	data := map[string]interface{}{
		"name":        "Classic Hoodie",
		"price":       49.99,
		"description": "Premium cotton blend hoodie",
		"imageUrls":   []interface{}{"https://img.example/hoodie.png"},
		"sizes":       []interface{}{"S", "M", "L"},
		"colors":      []interface{}{"Black", "Gray"},
		"featured":    true,
		"suggested":   false,
		"createdAt":   int64(1700000000000),
	}

	product, err := docToProduct("featured_1", data)
	require.NoError(t, err)
	assert.Equal(t, "featured_1", product.ID)
	assert.Equal(t, "Classic Hoodie", product.Name)
	assert.Equal(t, 49.99, product.Price)
	assert.Equal(t, []string{"https://img.example/hoodie.png"}, product.ImageURLs)
	assert.Equal(t, []string{"S", "M", "L"}, product.Sizes)
	assert.Equal(t, []string{"Black", "Gray"}, product.Colors)
	assert.True(t, product.Featured)
	assert.False(t, product.Suggested)
	assert.Equal(t, int64(1700000000000), product.CreatedAt)
}

func TestDocToProduct_MissingFieldsGetDefaults(t *testing.T) {
	product, err := docToProduct("p1", map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)
	assert.Equal(t, "", product.Name)
	assert.Equal(t, 0.0, product.Price)
	assert.Empty(t, product.ImageURLs)
	assert.Empty(t, product.Sizes)
	assert.Empty(t, product.Colors)
	assert.False(t, product.Featured)
	assert.False(t, product.Suggested)
	assert.Equal(t, int64(0), product.CreatedAt)
}

func TestDocToProduct_NilDataFails(t *testing.T) {
	_, err := docToProduct("p1", nil)
	require.Error(t, err)
}

func TestDocToProduct_NumericCoercion(t *testing.T) {
	// Firestore integers come back as int64; floats stay float64.
	product, err := docToProduct("p1", map[string]interface{}{
		"price":     int64(25),
		"createdAt": 1700000000000.0,
	})
	require.NoError(t, err)
	assert.Equal(t, 25.0, product.Price)
	assert.Equal(t, int64(1700000000000), product.CreatedAt)
}

func TestDocToProduct_MixedListEntriesSkipped(t *testing.T) {
	product, err := docToProduct("p1", map[string]interface{}{
		"sizes": []interface{}{"S", int64(3), "M", nil},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "M"}, product.Sizes)
}

func TestDocToProduct_WrongTypeFallsBackToDefault(t *testing.T) {
	product, err := docToProduct("p1", map[string]interface{}{
		"name":  int64(12),
		"sizes": "not a list",
	})
	require.NoError(t, err)
	assert.Equal(t, "", product.Name)
	assert.Empty(t, product.Sizes)
}
