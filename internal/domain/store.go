package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrKeyNotFound        = errors.New("key not found in store")
	ErrCatalogUnavailable = errors.New("catalog source unavailable")
)

// Store keys for the two persisted aggregates. They are independent;
// no cross-key transaction is ever required.
const (
	KeyCatalogCache = "clothify:catalog:v1"
	KeyCartSnapshot = "clothify:cart:v1"
)

// KeyValueStore is the durable store surviving across runs. Implementations
// return ErrKeyNotFound for absent keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// CatalogFetcher retrieves the full product list from the remote source,
// already validated and normalized to the canonical Product shape.
type CatalogFetcher interface {
	Fetch(ctx context.Context) ([]Product, error)
}
