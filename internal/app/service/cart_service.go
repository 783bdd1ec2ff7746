package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/clothify/storefront-api/internal/domain"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CartService owns the cart lines: identity-based merging, quantity changes,
// and persistence. Every mutation writes the full cart snapshot to the
// durable store immediately. Lines keep insertion order and there is at most
// one line per (product, size, color) identity.
type CartService struct {
	store   domain.KeyValueStore
	pricing *PricingService
	tracer  trace.Tracer
	logger  *slog.Logger

	itemsAdded   metric.Int64Counter
	cartMutation metric.Int64Counter

	mu    sync.RWMutex
	lines []domain.CartLine
}

// NewCartService creates a cart service and restores the persisted snapshot.
// A corrupt snapshot resets to an empty cart rather than propagating an error.
func NewCartService(
	ctx context.Context,
	store domain.KeyValueStore,
	pricing *PricingService,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CartService {
	itemsAdded, _ := meter.Int64Counter(
		"cart.items.added.total",
		metric.WithDescription("Total quantity of items added to the cart"),
	)
	cartMutation, _ := meter.Int64Counter(
		"cart.mutations.total",
		metric.WithDescription("Cart mutations by operation and result"),
	)

	s := &CartService{
		store:        store,
		pricing:      pricing,
		tracer:       tracer,
		logger:       logger,
		itemsAdded:   itemsAdded,
		cartMutation: cartMutation,
	}
	s.restore(ctx)
	return s
}

// restore reads the cart snapshot back from the durable store.
func (s *CartService) restore(ctx context.Context) {
	raw, err := s.store.Get(ctx, domain.KeyCartSnapshot)
	if err != nil {
		return
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		s.logger.WarnContext(ctx, "Discarding corrupt cart snapshot, starting empty",
			slog.String("error", err.Error()),
		)
		return
	}

	s.lines = lines
	s.logger.InfoContext(ctx, "Cart restored from durable store",
		slog.Int("lines", len(lines)),
	)
}

// persistLocked serializes the cart to the durable store; callers hold the
// write lock. A write failure is logged, not surfaced: the in-memory cart
// stays authoritative for this run.
func (s *CartService) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(s.lines)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to serialize cart snapshot",
			slog.String("error", err.Error()),
		)
		return
	}
	if err := s.store.Set(ctx, domain.KeyCartSnapshot, string(raw)); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist cart snapshot",
			slog.String("error", err.Error()),
		)
	}
}

// AddItem adds qty units of the product to the cart. Lines with the same
// (product, size, color) identity merge by incrementing quantity; a new line
// snapshots the product's name and price at add time. A sized product without
// a size selection fails with domain.ErrSizeRequired.
func (s *CartService) AddItem(ctx context.Context, product domain.Product, qty int, size, color string) (domain.CartLine, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.AddItem")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", product.ID),
		attribute.Int("quantity", qty),
	)

	if qty < 1 {
		span.SetStatus(codes.Error, "Invalid quantity")
		s.countMutation(ctx, "add", "invalid")
		return domain.CartLine{}, domain.ErrInvalidQuantity
	}
	if product.HasSizes() && size == "" {
		span.SetStatus(codes.Error, "Size selection required")
		s.logger.WarnContext(ctx, "Rejected add to cart without a size selection",
			slog.String("product_id", product.ID),
		)
		s.countMutation(ctx, "add", "size_required")
		return domain.CartLine{}, domain.ErrSizeRequired
	}

	identity := domain.LineIdentity{ProductID: product.ID, Size: size, Color: color}

	s.mu.Lock()
	defer s.mu.Unlock()

	var line domain.CartLine
	if i := s.indexOfLocked(identity); i >= 0 {
		s.lines[i].Quantity += qty
		line = s.lines[i]
	} else {
		line = domain.CartLine{
			LineID:    uuid.New().String(),
			Identity:  identity,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  qty,
		}
		s.lines = append(s.lines, line)
	}
	s.persistLocked(ctx)

	s.itemsAdded.Add(ctx, int64(qty))
	s.countMutation(ctx, "add", "success")
	s.logger.InfoContext(ctx, "Item added to cart",
		slog.String("product_id", product.ID),
		slog.Int("quantity", line.Quantity),
	)

	span.SetStatus(codes.Ok, "Item added")
	return line, nil
}

// ChangeQuantity applies delta to the identified line's quantity. A result of
// zero or below removes the line entirely. It reports whether the line was
// removed; an absent identity is domain.ErrCartLineNotFound.
func (s *CartService) ChangeQuantity(ctx context.Context, identity domain.LineIdentity, delta int) (removed bool, err error) {
	ctx, span := s.tracer.Start(ctx, "CartService.ChangeQuantity")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", identity.ProductID),
		attribute.Int("delta", delta),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(identity)
	if i < 0 {
		span.SetStatus(codes.Error, "Cart line not found")
		s.countMutation(ctx, "change_quantity", "not_found")
		return false, domain.ErrCartLineNotFound
	}

	s.lines[i].Quantity += delta
	if s.lines[i].Quantity <= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
		removed = true
	}
	s.persistLocked(ctx)

	s.countMutation(ctx, "change_quantity", "success")
	span.SetAttributes(attribute.Bool("line.removed", removed))
	span.SetStatus(codes.Ok, "Quantity changed")
	return removed, nil
}

// RemoveItem removes the identified line. Removing an absent identity is a
// defined no-op, not an error.
func (s *CartService) RemoveItem(ctx context.Context, identity domain.LineIdentity) {
	ctx, span := s.tracer.Start(ctx, "CartService.RemoveItem")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(identity)
	if i < 0 {
		span.SetStatus(codes.Ok, "Line already absent")
		return
	}

	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.persistLocked(ctx)

	s.countMutation(ctx, "remove", "success")
	s.logger.InfoContext(ctx, "Cart line removed",
		slog.String("product_id", identity.ProductID),
	)
	span.SetStatus(codes.Ok, "Line removed")
}

// Clear empties the cart, used after a successful checkout.
func (s *CartService) Clear(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "CartService.Clear")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.persistLocked(ctx)

	s.countMutation(ctx, "clear", "success")
	span.SetStatus(codes.Ok, "Cart cleared")
}

// TotalItemCount sums all line quantities for the cart badge.
func (s *CartService) TotalItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.TotalItemCount(s.lines)
}

// Lines returns a copy of the cart lines in insertion order.
func (s *CartService) Lines() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines := make([]domain.CartLine, len(s.lines))
	copy(lines, s.lines)
	return lines
}

// IdentityForLineID resolves a generated line id back to its identity tuple.
func (s *CartService) IdentityForLineID(lineID string) (domain.LineIdentity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.lines {
		if s.lines[i].LineID == lineID {
			return s.lines[i].Identity, true
		}
	}
	return domain.LineIdentity{}, false
}

// Checkout validates the shipping selection, prices the cart, and clears it.
// The cart is left untouched when the selection is invalid or no rate exists.
// Pricing and clearing happen under one write lock so a concurrent AddItem
// is either billed by this checkout or still in the cart afterwards.
func (s *CartService) Checkout(ctx context.Context, selection domain.ShippingSelection) (domain.PricingResult, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.Checkout")
	defer span.End()

	if err := selection.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid shipping selection")
		s.countMutation(ctx, "checkout", "invalid_selection")
		return domain.PricingResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.pricing.ComputeTotals(ctx, s.lines, selection)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Pricing failed")
		s.countMutation(ctx, "checkout", "pricing_failed")
		return domain.PricingResult{}, err
	}

	s.lines = nil
	s.persistLocked(ctx)

	s.countMutation(ctx, "checkout", "success")
	s.logger.InfoContext(ctx, "Checkout completed",
		slog.String("grand_total", result.GrandTotal.String()),
	)
	span.SetStatus(codes.Ok, "Checkout completed")
	return result, nil
}

func (s *CartService) indexOfLocked(identity domain.LineIdentity) int {
	for i := range s.lines {
		if s.lines[i].Identity == identity {
			return i
		}
	}
	return -1
}

func (s *CartService) countMutation(ctx context.Context, operation, result string) {
	s.cartMutation.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}
