package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"

	"github.com/clothify/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// CatalogService owns the product cache and its load lifecycle. The cache is
// an explicit field, not ambient state: construct a service, call Load, call
// Reset to invalidate. Load order is memory, then the durable store, then the
// remote source.
type CatalogService struct {
	fetcher domain.CatalogFetcher
	store   domain.KeyValueStore
	tracer  trace.Tracer
	logger  *slog.Logger

	loadCounter metric.Int64Counter

	// flight dedupes overlapping loads so two callers racing before the
	// first fetch resolves share a single request.
	flight singleflight.Group

	mu     sync.RWMutex
	cache  []domain.Product
	loaded bool
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	fetcher domain.CatalogFetcher,
	store domain.KeyValueStore,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CatalogService {
	loadCounter, _ := meter.Int64Counter(
		"catalog.loads.total",
		metric.WithDescription("Catalog loads by source (memory, store, remote, error)"),
	)

	return &CatalogService{
		fetcher:     fetcher,
		store:       store,
		tracer:      tracer,
		logger:      logger,
		loadCounter: loadCounter,
	}
}

// Load returns the full product list. Results are cached in memory and in the
// durable store; a corrupt store entry is discarded and refetched. A remote
// failure yields an empty list together with an error wrapping
// domain.ErrCatalogUnavailable.
func (s *CatalogService) Load(ctx context.Context) ([]domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Load")
	defer span.End()

	s.mu.RLock()
	if s.loaded {
		products := s.snapshotLocked()
		s.mu.RUnlock()
		s.countLoad(ctx, "memory")
		span.SetAttributes(attribute.Int("catalog.count", len(products)))
		span.SetStatus(codes.Ok, "Catalog served from memory")
		return products, nil
	}
	s.mu.RUnlock()

	result, err, _ := s.flight.Do("catalog", func() (interface{}, error) {
		return s.loadSlow(ctx)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog load failed")
		s.countLoad(ctx, "error")
		return []domain.Product{}, err
	}

	// The singleflight result aliases the cache's backing array and is
	// shared by every waiter, so each caller gets its own copy.
	shared := result.([]domain.Product)
	products := make([]domain.Product, len(shared))
	copy(products, shared)

	span.SetAttributes(attribute.Int("catalog.count", len(products)))
	span.SetStatus(codes.Ok, "Catalog loaded")
	return products, nil
}

// loadSlow runs under singleflight: durable store first, remote source last.
func (s *CatalogService) loadSlow(ctx context.Context) ([]domain.Product, error) {
	// A racing caller may have populated the cache while we waited.
	s.mu.RLock()
	if s.loaded {
		products := s.snapshotLocked()
		s.mu.RUnlock()
		return products, nil
	}
	s.mu.RUnlock()

	if products, ok := s.loadFromStore(ctx); ok {
		s.adopt(products)
		s.countLoad(ctx, "store")
		return products, nil
	}

	products, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch catalog from remote source",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	s.persist(ctx, products)
	s.adopt(products)
	s.countLoad(ctx, "remote")

	s.logger.InfoContext(ctx, "Catalog fetched from remote source",
		slog.Int("count", len(products)),
	)
	return products, nil
}

// loadFromStore reads the durable cache entry. A parse failure is treated as
// a miss: the corrupt entry is deleted so the next step refetches.
func (s *CatalogService) loadFromStore(ctx context.Context) ([]domain.Product, bool) {
	raw, err := s.store.Get(ctx, domain.KeyCatalogCache)
	if err != nil {
		return nil, false
	}

	var products []domain.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		s.logger.WarnContext(ctx, "Discarding corrupt catalog cache entry",
			slog.String("error", err.Error()),
		)
		if err := s.store.Delete(ctx, domain.KeyCatalogCache); err != nil {
			s.logger.WarnContext(ctx, "Failed to delete corrupt catalog cache entry",
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	s.logger.InfoContext(ctx, "Catalog restored from durable store",
		slog.Int("count", len(products)),
	)
	return products, true
}

// persist writes the fetched catalog to the durable store. A write failure is
// logged and otherwise ignored; the in-memory copy still serves this run.
func (s *CatalogService) persist(ctx context.Context, products []domain.Product) {
	raw, err := json.Marshal(products)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to serialize catalog for caching",
			slog.String("error", err.Error()),
		)
		return
	}
	if err := s.store.Set(ctx, domain.KeyCatalogCache, string(raw)); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist catalog cache",
			slog.String("error", err.Error()),
		)
	}
}

func (s *CatalogService) adopt(products []domain.Product) {
	s.mu.Lock()
	s.cache = products
	s.loaded = true
	s.mu.Unlock()
}

// snapshotLocked copies the cached slice; callers must hold at least a read
// lock. Products themselves are immutable, so a shallow copy suffices.
func (s *CatalogService) snapshotLocked() []domain.Product {
	products := make([]domain.Product, len(s.cache))
	copy(products, s.cache)
	return products
}

func (s *CatalogService) countLoad(ctx context.Context, source string) {
	s.loadCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("source", source)),
	)
}

// Reset invalidates both the in-memory copy and the durable cache entry.
// The next Load rebuilds from the remote source.
func (s *CatalogService) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.cache = nil
	s.loaded = false
	s.mu.Unlock()

	if err := s.store.Delete(ctx, domain.KeyCatalogCache); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}

// GetByID returns the product with the given id or domain.ErrProductNotFound.
func (s *CatalogService) GetByID(ctx context.Context, id string) (domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetByID")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", id))

	products, err := s.Load(ctx)
	if err != nil {
		return domain.Product{}, err
	}

	for i := range products {
		if products[i].ID == id {
			span.SetStatus(codes.Ok, "Product found")
			return products[i], nil
		}
	}

	span.SetStatus(codes.Error, "Product not found")
	s.logger.WarnContext(ctx, "Product not found",
		slog.String("product_id", id),
	)
	return domain.Product{}, domain.ErrProductNotFound
}

// ByGender returns the cached products with the given gender.
func (s *CatalogService) ByGender(ctx context.Context, gender domain.Gender) ([]domain.Product, error) {
	products, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Product, 0, len(products))
	for i := range products {
		if products[i].Gender == gender {
			matched = append(matched, products[i])
		}
	}
	return matched, nil
}

// CategoriesForGender returns the distinct category values for the gender,
// sorted ascending by string comparison.
func (s *CatalogService) CategoriesForGender(ctx context.Context, gender domain.Gender) ([]string, error) {
	products, err := s.ByGender(ctx, gender)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for i := range products {
		if _, ok := seen[products[i].Category]; ok {
			continue
		}
		seen[products[i].Category] = struct{}{}
		categories = append(categories, products[i].Category)
	}
	sort.Strings(categories)
	return categories, nil
}

// Featured returns up to n products drawn at random from the catalog.
func (s *CatalogService) Featured(ctx context.Context, n int) ([]domain.Product, error) {
	products, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	rand.Shuffle(len(products), func(i, j int) {
		products[i], products[j] = products[j], products[i]
	})
	if n < len(products) {
		products = products[:n]
	}
	return products, nil
}

// Related returns up to n other products sharing the given product's
// category or gender, in catalog order.
func (s *CatalogService) Related(ctx context.Context, id string, n int) ([]domain.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	related := make([]domain.Product, 0, n)
	for i := range products {
		if len(related) == n {
			break
		}
		if products[i].ID == product.ID {
			continue
		}
		if products[i].Category == product.Category || products[i].Gender == product.Gender {
			related = append(related, products[i])
		}
	}
	return related, nil
}

// RepresentativeForCategory picks one product for a gender and category,
// used for category card thumbnails.
func (s *CatalogService) RepresentativeForCategory(ctx context.Context, gender domain.Gender, category string) (domain.Product, error) {
	products, err := s.ByGender(ctx, gender)
	if err != nil {
		return domain.Product{}, err
	}
	for i := range products {
		if products[i].Category == category {
			return products[i], nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}
