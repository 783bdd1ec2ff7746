package service

import (
	"context"
	"log/slog"

	"github.com/clothify/storefront-api/internal/domain"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Merchandise totals at or above the threshold ship free regardless of
// destination and method.
var freeShippingThreshold = decimal.NewFromInt(500)

// Flat 5% tax applies to CA only; every other destination is untaxed.
var caTaxRate = decimal.RequireFromString("0.05")

// shippingRates is the fixed rate table. A (destination, method) pair absent
// from it is an error, never a silent zero.
var shippingRates = map[domain.Destination]map[domain.ShippingMethod]decimal.Decimal{
	domain.DestinationCA: {
		domain.MethodStandard: decimal.NewFromInt(10),
		domain.MethodExpress:  decimal.NewFromInt(25),
		domain.MethodPriority: decimal.NewFromInt(35),
	},
	domain.DestinationUS: {
		domain.MethodStandard: decimal.NewFromInt(15),
		domain.MethodExpress:  decimal.NewFromInt(25),
		domain.MethodPriority: decimal.NewFromInt(50),
	},
	domain.DestinationINTL: {
		domain.MethodStandard: decimal.NewFromInt(20),
		domain.MethodExpress:  decimal.NewFromInt(30),
		domain.MethodPriority: decimal.NewFromInt(50),
	},
}

// PricingService computes shipping, tax, and totals from a cart and a
// shipping selection.
type PricingService struct {
	tracer       trace.Tracer
	logger       *slog.Logger
	quoteCounter metric.Int64Counter
}

// NewPricingService creates a new pricing service
func NewPricingService(tracer trace.Tracer, meter metric.Meter, logger *slog.Logger) *PricingService {
	quoteCounter, _ := meter.Int64Counter(
		"pricing.quotes.total",
		metric.WithDescription("Total number of pricing quotes computed"),
	)

	return &PricingService{
		tracer:       tracer,
		logger:       logger,
		quoteCounter: quoteCounter,
	}
}

// ComputeShipping returns the shipping cost for a merchandise total. Zero
// totals and totals at or above the free-shipping threshold cost nothing;
// otherwise the fixed rate table applies.
func (s *PricingService) ComputeShipping(merchandiseTotal decimal.Decimal, destination domain.Destination, method domain.ShippingMethod) (decimal.Decimal, error) {
	if merchandiseTotal.IsZero() || merchandiseTotal.GreaterThanOrEqual(freeShippingThreshold) {
		return decimal.Zero, nil
	}

	methods, ok := shippingRates[destination]
	if !ok {
		return decimal.Zero, domain.ErrUnknownShippingRate
	}
	rate, ok := methods[method]
	if !ok {
		return decimal.Zero, domain.ErrUnknownShippingRate
	}
	return rate, nil
}

// ComputeTax returns the tax on a merchandise total for a destination.
func (s *PricingService) ComputeTax(merchandiseTotal decimal.Decimal, destination domain.Destination) decimal.Decimal {
	if destination == domain.DestinationCA {
		return merchandiseTotal.Mul(caTaxRate)
	}
	return decimal.Zero
}

// ComputeTotals prices the given cart lines against a shipping selection.
func (s *PricingService) ComputeTotals(ctx context.Context, lines []domain.CartLine, selection domain.ShippingSelection) (domain.PricingResult, error) {
	ctx, span := s.tracer.Start(ctx, "PricingService.ComputeTotals")
	defer span.End()

	span.SetAttributes(
		attribute.String("shipping.destination", string(selection.Destination)),
		attribute.String("shipping.method", string(selection.Method)),
		attribute.Int("cart.lines", len(lines)),
	)

	merchandiseTotal := domain.MerchandiseTotal(lines)

	shippingCost, err := s.ComputeShipping(merchandiseTotal, selection.Destination, selection.Method)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unknown shipping rate")
		s.logger.WarnContext(ctx, "No shipping rate for selection",
			slog.String("destination", string(selection.Destination)),
			slog.String("method", string(selection.Method)),
		)
		return domain.PricingResult{}, err
	}

	tax := s.ComputeTax(merchandiseTotal, selection.Destination)

	result := domain.PricingResult{
		MerchandiseTotal: merchandiseTotal,
		ShippingCost:     shippingCost,
		Tax:              tax,
		GrandTotal:       merchandiseTotal.Add(shippingCost).Add(tax),
	}

	s.quoteCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("destination", string(selection.Destination))),
	)

	s.logger.InfoContext(ctx, "Pricing quote computed",
		slog.String("merchandise_total", merchandiseTotal.String()),
		slog.String("grand_total", result.GrandTotal.String()),
	)

	span.SetStatus(codes.Ok, "Totals computed")
	return result, nil
}
