package catalog

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lighthouse/storefront/internal/domain"
)

const productsCollection = "products"

type firestoreCatalog struct {
	client *firestore.Client
}

func NewFirestoreCatalog(client *firestore.Client) Catalog {
	return &firestoreCatalog{client: client}
}

func (c *firestoreCatalog) products() *firestore.CollectionRef {
	return c.client.Collection(productsCollection)
}

func (c *firestoreCatalog) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	snap, err := c.products().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}

	product, err := docToProduct(snap.Ref.ID, snap.Data())
	if err != nil {
		return nil, fmt.Errorf("failed to decode product %s: %w", id, err)
	}
	return product, nil
}

func (c *firestoreCatalog) Featured(ctx context.Context, limit int) ([]*domain.Product, error) {
	query := c.products().Where("featured", "==", true).Limit(limit)
	return c.collect(ctx, query)
}

func (c *firestoreCatalog) Suggested(ctx context.Context, limit int) ([]*domain.Product, error) {
	query := c.products().Where("suggested", "==", true).Limit(limit)
	return c.collect(ctx, query)
}

func (c *firestoreCatalog) Newest(ctx context.Context, limit int) ([]*domain.Product, error) {
	query := c.products().OrderBy("createdAt", firestore.Desc).Limit(limit)
	return c.collect(ctx, query)
}

func (c *firestoreCatalog) collect(ctx context.Context, query firestore.Query) ([]*domain.Product, error) {
	it := query.Documents(ctx)
	defer it.Stop()

	products := make([]*domain.Product, 0)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate products: %w", err)
		}

		product, err := docToProduct(snap.Ref.ID, snap.Data())
		if err != nil {
			// One broken document must not fail the whole listing.
			log.Printf("skipping undecodable product %s: %v", snap.Ref.ID, err)
			continue
		}
		products = append(products, product)
	}

	return products, nil
}
