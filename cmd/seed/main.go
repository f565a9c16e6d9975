// Seeds the catalog with the sample product set when the collection is
// still empty. One-shot tool for fresh environments.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"google.golang.org/api/iterator"

	"github.com/lighthouse/storefront/internal/catalog"
	"github.com/lighthouse/storefront/internal/domain"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	projectID := getEnv("FIREBASE_PROJECT_ID", "")
	if projectID == "" {
		log.Fatal("FIREBASE_PROJECT_ID is required")
	}
	credentialsFile := getEnv("FIREBASE_CREDENTIALS_FILE", "")

	ctx := context.Background()
	client, err := catalog.Connect(ctx, projectID, credentialsFile)
	if err != nil {
		log.Fatalf("Failed to connect to firestore: %v", err)
	}
	defer client.Close()

	products := client.Collection("products")

	it := products.Limit(1).Documents(ctx)
	defer it.Stop()
	if _, err := it.Next(); err != iterator.Done {
		if err != nil {
			log.Fatalf("Failed to check products collection: %v", err)
		}
		log.Println("Products collection is not empty, nothing to seed")
		return
	}

	now := time.Now().UnixMilli()
	samples := []domain.Product{
		{
			ID:          "featured_1",
			Name:        "Classic Hoodie",
			Price:       49.99,
			Description: "Premium cotton blend hoodie with a modern fit",
			Sizes:       []string{"S", "M", "L", "XL"},
			Colors:      []string{"Black", "Gray"},
			Featured:    true,
			CreatedAt:   now,
		},
		{
			ID:          "featured_2",
			Name:        "Classic Cap",
			Price:       24.99,
			Description: "Stylish and comfortable cap for everyday wear",
			Sizes:       []string{"One Size"},
			Colors:      []string{"Black", "White"},
			Featured:    true,
			CreatedAt:   now,
		},
		{
			ID:          "suggested_1",
			Name:        "Bucket Hat",
			Price:       29.99,
			Description: "Trendy bucket hat perfect for summer",
			Sizes:       []string{"S/M", "L/XL"},
			Colors:      []string{"Black", "Beige"},
			Suggested:   true,
			CreatedAt:   now,
		},
		{
			ID:          "suggested_2",
			Name:        "Classic Sweater",
			Price:       59.99,
			Description: "Warm and cozy sweater for cold days",
			Sizes:       []string{"S", "M", "L", "XL"},
			Colors:      []string{"Gray", "Navy"},
			Suggested:   true,
			CreatedAt:   now,
		},
		{
			ID:          "new_1",
			Name:        "Essential T-Shirt",
			Price:       24.99,
			Description: "Premium cotton t-shirt with perfect fit",
			Sizes:       []string{"S", "M", "L", "XL", "XXL"},
			Colors:      []string{"White", "Black", "Gray"},
			CreatedAt:   now,
		},
	}

	batch := client.Batch()
	for _, p := range samples {
		batch.Set(products.Doc(p.ID), map[string]interface{}{
			"name":        p.Name,
			"price":       p.Price,
			"description": p.Description,
			"imageUrls":   p.ImageURLs,
			"sizes":       p.Sizes,
			"colors":      p.Colors,
			"featured":    p.Featured,
			"suggested":   p.Suggested,
			"createdAt":   p.CreatedAt,
		})
	}

	if _, err := batch.Commit(ctx); err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	log.Printf("Seeded %d sample products", len(samples))
}
