package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrUnknownShippingRate = errors.New("no shipping rate for destination and method")

// Destination is a shipping destination zone.
type Destination string

const (
	DestinationCA   Destination = "CA"
	DestinationUS   Destination = "US"
	DestinationINTL Destination = "INTL"
)

// ParseDestination validates a raw destination string.
func ParseDestination(raw string) (Destination, error) {
	switch Destination(raw) {
	case DestinationCA, DestinationUS, DestinationINTL:
		return Destination(raw), nil
	default:
		return "", ErrUnknownDestination
	}
}

// ShippingMethod is a shipping speed tier.
type ShippingMethod string

const (
	MethodStandard ShippingMethod = "Standard"
	MethodExpress  ShippingMethod = "Express"
	MethodPriority ShippingMethod = "Priority"
)

// ParseShippingMethod validates a raw method string.
func ParseShippingMethod(raw string) (ShippingMethod, error) {
	switch ShippingMethod(raw) {
	case MethodStandard, MethodExpress, MethodPriority:
		return ShippingMethod(raw), nil
	default:
		return "", ErrUnknownMethod
	}
}

// ShippingSelection is the shopper's destination and method choice.
type ShippingSelection struct {
	Destination Destination    `json:"destination"`
	Method      ShippingMethod `json:"method"`
}

// Validate checks both fields of the selection.
func (s ShippingSelection) Validate() error {
	if _, err := ParseDestination(string(s.Destination)); err != nil {
		return err
	}
	if _, err := ParseShippingMethod(string(s.Method)); err != nil {
		return err
	}
	return nil
}

// PricingResult captures the monetary breakdown of pricing a cart.
// GrandTotal is always the sum of the other three fields.
type PricingResult struct {
	MerchandiseTotal decimal.Decimal `json:"merchandise_total"`
	ShippingCost     decimal.Decimal `json:"shipping_cost"`
	Tax              decimal.Decimal `json:"tax"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
}
