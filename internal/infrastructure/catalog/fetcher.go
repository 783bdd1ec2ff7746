package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/clothify/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Fetcher retrieves the product catalog from the remote JSON source over
// HTTP, with a bounded exponential-backoff retry. It is the only place that
// sees the wire format; everything it returns is normalized to the canonical
// domain.Product shape.
type Fetcher struct {
	client   *http.Client
	url      string
	maxTries uint
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewFetcher creates a new catalog fetcher
func NewFetcher(url string, timeout time.Duration, maxTries uint, tracer trace.Tracer, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		url:      url,
		maxTries: maxTries,
		tracer:   tracer,
		logger:   logger,
	}
}

// Fetch retrieves, validates, and normalizes the full product list.
func (f *Fetcher) Fetch(ctx context.Context) ([]domain.Product, error) {
	ctx, span := f.tracer.Start(ctx, "Fetcher.Fetch")
	defer span.End()

	span.SetAttributes(attribute.String("catalog.url", f.url))

	products, err := backoff.Retry(ctx, func() ([]domain.Product, error) {
		return f.fetchOnce(ctx)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(f.maxTries),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog fetch failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("catalog.count", len(products)))
	span.SetStatus(codes.Ok, "Catalog fetched")
	return products, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to build catalog request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.WarnContext(ctx, "Catalog request failed, will retry",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("catalog source returned status %d", resp.StatusCode)
		// Client errors will not heal on retry; server errors might.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, backoff.Permanent(err)
		}
		f.logger.WarnContext(ctx, "Catalog source returned non-success status, will retry",
			slog.Int("status", resp.StatusCode),
		)
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}

	products, err := decodeProducts(body)
	if err != nil {
		// A malformed payload is not retryable.
		return nil, backoff.Permanent(err)
	}
	return products, nil
}

// decodeProducts parses the wire payload, which must be a JSON array of
// product records, and normalizes each record.
func decodeProducts(body []byte) ([]domain.Product, error) {
	var records []wireProduct
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("expected a JSON array of products: %w", err)
	}

	products := make([]domain.Product, 0, len(records))
	for i, rec := range records {
		product := rec.toDomain()
		if err := product.Validate(); err != nil {
			return nil, fmt.Errorf("invalid product at index %d: %w", i, err)
		}
		products = append(products, product)
	}
	return products, nil
}
