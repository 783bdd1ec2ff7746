package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/clothify/storefront-api/internal/domain"
	"github.com/clothify/storefront-api/internal/infrastructure/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher counts Fetch calls and can block on gate to let tests race
// multiple loaders against one in-flight fetch.
type stubFetcher struct {
	products []domain.Product
	err      error
	calls    atomic.Int32
	gate     chan struct{}
}

func (f *stubFetcher) Fetch(ctx context.Context) ([]domain.Product, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func sampleCatalog() []domain.Product {
	return []domain.Product{
		{ID: "M1", Name: "Oxford Shirt", Price: decimal.NewFromInt(60), Category: "shirts", Gender: domain.GenderMens, Sizes: []string{"M", "L"}, Colors: []domain.Color{{Name: "White", Hex: "#ffffff"}}},
		{ID: "M2", Name: "Chino Pants", Price: decimal.NewFromInt(80), Category: "pants", Gender: domain.GenderMens, Sizes: []string{"32", "34"}, Colors: []domain.Color{{Name: "Khaki", Hex: "#c3b091"}}},
		{ID: "W1", Name: "Summer Dress", Price: decimal.NewFromInt(95), Category: "dresses", Gender: domain.GenderWomens, Sizes: []string{"S", "M"}, Colors: []domain.Color{{Name: "Blue", Hex: "#2980b9"}}},
		{ID: "W2", Name: "Silk Blouse", Price: decimal.NewFromInt(110), Category: "shirts", Gender: domain.GenderWomens, Sizes: []string{"S"}, Colors: []domain.Color{{Name: "Ivory", Hex: "#fffff0"}}},
	}
}

func newCatalogService(t *testing.T, fetcher domain.CatalogFetcher, store domain.KeyValueStore) *CatalogService {
	t.Helper()
	tracer, meter, logger := testDeps()
	return NewCatalogService(fetcher, store, tracer, meter, logger)
}

func TestLoad_FetchesOnceThenServesFromMemory(t *testing.T) {
	fetcher := &stubFetcher{products: sampleCatalog()}
	s := newCatalogService(t, fetcher, memory.NewKVStore())
	ctx := context.Background()

	first, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 4)

	second, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 4)

	assert.Equal(t, int32(1), fetcher.calls.Load(), "second load must hit memory")
}

func TestLoad_PersistsToStore(t *testing.T) {
	fetcher := &stubFetcher{products: sampleCatalog()}
	store := memory.NewKVStore()
	s := newCatalogService(t, fetcher, store)

	_, err := s.Load(context.Background())
	require.NoError(t, err)

	raw, err := store.Get(context.Background(), domain.KeyCatalogCache)
	require.NoError(t, err)

	var cached []domain.Product
	require.NoError(t, json.Unmarshal([]byte(raw), &cached))
	assert.Len(t, cached, 4)
}

func TestLoad_StoreHitSkipsFetch(t *testing.T) {
	store := memory.NewKVStore()
	raw, err := json.Marshal(sampleCatalog())
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), domain.KeyCatalogCache, string(raw)))

	fetcher := &stubFetcher{products: nil}
	s := newCatalogService(t, fetcher, store)

	products, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 4)
	assert.Equal(t, int32(0), fetcher.calls.Load(), "a valid store entry must satisfy the load")
}

func TestLoad_CorruptStoreEntryIsDiscardedAndRefetched(t *testing.T) {
	store := memory.NewKVStore()
	require.NoError(t, store.Set(context.Background(), domain.KeyCatalogCache, "][ not json"))

	fetcher := &stubFetcher{products: sampleCatalog()}
	s := newCatalogService(t, fetcher, store)

	products, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 4)
	assert.Equal(t, int32(1), fetcher.calls.Load())

	// The corrupt entry was overwritten with the fresh catalog.
	raw, err := store.Get(context.Background(), domain.KeyCatalogCache)
	require.NoError(t, err)
	var cached []domain.Product
	assert.NoError(t, json.Unmarshal([]byte(raw), &cached))
}

func TestLoad_FetchFailureYieldsEmptyListAndError(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	s := newCatalogService(t, fetcher, memory.NewKVStore())

	products, err := s.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestLoad_FailureIsNotCached(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("boom")}
	s := newCatalogService(t, fetcher, memory.NewKVStore())
	ctx := context.Background()

	_, err := s.Load(ctx)
	require.Error(t, err)

	fetcher.err = nil
	fetcher.products = sampleCatalog()

	products, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 4)
}

func TestLoad_ConcurrentCallersShareOneFetch(t *testing.T) {
	fetcher := &stubFetcher{products: sampleCatalog(), gate: make(chan struct{})}
	s := newCatalogService(t, fetcher, memory.NewKVStore())
	ctx := context.Background()

	const callers = 8
	var wg sync.WaitGroup
	results := make([][]domain.Product, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.Load(ctx)
		}(i)
	}

	close(fetcher.gate)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Len(t, results[i], 4)
	}
	assert.Equal(t, int32(1), fetcher.calls.Load(), "overlapping loads must share one fetch")
}

func TestReset_ForcesRefetch(t *testing.T) {
	fetcher := &stubFetcher{products: sampleCatalog()}
	store := memory.NewKVStore()
	s := newCatalogService(t, fetcher, store)
	ctx := context.Background()

	_, err := s.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Reset(ctx))

	_, err = store.Get(ctx, domain.KeyCatalogCache)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	_, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetcher.calls.Load())
}

func TestGetByID(t *testing.T) {
	s := newCatalogService(t, &stubFetcher{products: sampleCatalog()}, memory.NewKVStore())
	ctx := context.Background()

	product, err := s.GetByID(ctx, "W1")
	require.NoError(t, err)
	assert.Equal(t, "Summer Dress", product.Name)

	_, err = s.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestByGender(t *testing.T) {
	s := newCatalogService(t, &stubFetcher{products: sampleCatalog()}, memory.NewKVStore())

	mens, err := s.ByGender(context.Background(), domain.GenderMens)
	require.NoError(t, err)
	require.Len(t, mens, 2)
	assert.Equal(t, "M1", mens[0].ID)
	assert.Equal(t, "M2", mens[1].ID)
}

func TestCategoriesForGender_DistinctAndSorted(t *testing.T) {
	s := newCatalogService(t, &stubFetcher{products: sampleCatalog()}, memory.NewKVStore())

	categories, err := s.CategoriesForGender(context.Background(), domain.GenderWomens)
	require.NoError(t, err)
	assert.Equal(t, []string{"dresses", "shirts"}, categories)
}

func TestFeatured_BoundedByCatalogSize(t *testing.T) {
	s := newCatalogService(t, &stubFetcher{products: sampleCatalog()}, memory.NewKVStore())
	ctx := context.Background()

	three, err := s.Featured(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, three, 3)

	all, err := s.Featured(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	// Featured must not corrupt the underlying cache.
	products, err := s.Load(ctx)
	require.NoError(t, err)
	ids := make(map[string]struct{})
	for _, p := range products {
		ids[p.ID] = struct{}{}
	}
	assert.Len(t, ids, 4)
}

func TestFeatured_ColdStartLeavesCatalogOrderIntact(t *testing.T) {
	products := make([]domain.Product, 12)
	for i := range products {
		products[i] = domain.Product{
			ID:     fmt.Sprintf("P%02d", i),
			Name:   fmt.Sprintf("Product %02d", i),
			Price:  decimal.NewFromInt(int64(10 + i)),
			Gender: domain.GenderMens,
			Sizes:  []string{},
			Colors: []domain.Color{},
		}
	}
	s := newCatalogService(t, &stubFetcher{products: products}, memory.NewKVStore())
	ctx := context.Background()

	// First call ever, so Featured itself triggers the cold load.
	_, err := s.Featured(ctx, 3)
	require.NoError(t, err)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, len(products))
	for i := range loaded {
		assert.Equal(t, products[i].ID, loaded[i].ID, "cache order must survive a shuffle")
	}
}

func TestRelated_SameCategoryOrGenderExcludingSelf(t *testing.T) {
	s := newCatalogService(t, &stubFetcher{products: sampleCatalog()}, memory.NewKVStore())
	ctx := context.Background()

	related, err := s.Related(ctx, "W2", 10)
	require.NoError(t, err)

	// Shirts or womens: M1 (shirts), W1 (womens). Never W2 itself.
	ids := make([]string, 0, len(related))
	for _, p := range related {
		assert.NotEqual(t, "W2", p.ID)
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"M1", "W1"}, ids)

	capped, err := s.Related(ctx, "W2", 1)
	require.NoError(t, err)
	assert.Len(t, capped, 1)
}

func TestRepresentativeForCategory(t *testing.T) {
	s := newCatalogService(t, &stubFetcher{products: sampleCatalog()}, memory.NewKVStore())
	ctx := context.Background()

	product, err := s.RepresentativeForCategory(ctx, domain.GenderMens, "pants")
	require.NoError(t, err)
	assert.Equal(t, "M2", product.ID)

	_, err = s.RepresentativeForCategory(ctx, domain.GenderMens, "dresses")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
