package catalog

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/lighthouse/storefront/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Catalog is the read-only query surface over the remote product store.
// Consumers define this interface, not the Firestore implementation.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	Featured(ctx context.Context, limit int) ([]*domain.Product, error)
	Suggested(ctx context.Context, limit int) ([]*domain.Product, error)
	Newest(ctx context.Context, limit int) ([]*domain.Product, error)
}

// Connect creates a Firestore client. An empty credentialsFile falls back
// to Application Default Credentials.
func Connect(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var (
		client *firestore.Client
		err    error
	)
	if credentialsFile != "" {
		client, err = firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credentialsFile))
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return client, nil
}
