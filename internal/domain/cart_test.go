package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMerchandiseTotal(t *testing.T) {
	lines := []CartLine{
		{UnitPrice: decimal.RequireFromString("19.99"), Quantity: 2},
		{UnitPrice: decimal.NewFromInt(50), Quantity: 1},
	}

	total := MerchandiseTotal(lines)
	assert.True(t, total.Equal(decimal.RequireFromString("89.98")), "total = %s", total)
}

func TestMerchandiseTotal_EmptyCartIsZero(t *testing.T) {
	assert.True(t, MerchandiseTotal(nil).IsZero())
}

func TestTotalItemCount(t *testing.T) {
	lines := []CartLine{
		{Quantity: 2},
		{Quantity: 3},
	}
	assert.Equal(t, 5, TotalItemCount(lines))
	assert.Equal(t, 0, TotalItemCount(nil))
}

func TestProductValidate(t *testing.T) {
	p := Product{ID: "M1", Name: "Tee", Price: decimal.NewFromInt(20), Gender: GenderMens}
	assert.NoError(t, p.Validate())

	missingID := p
	missingID.ID = ""
	assert.ErrorIs(t, missingID.Validate(), ErrInvalidProductID)

	negative := p
	negative.Price = decimal.NewFromInt(-1)
	assert.ErrorIs(t, negative.Validate(), ErrInvalidProductPrice)

	badGender := p
	badGender.Gender = "kids"
	assert.ErrorIs(t, badGender.Validate(), ErrInvalidGender)
}

func TestShippingSelectionValidate(t *testing.T) {
	ok := ShippingSelection{Destination: DestinationUS, Method: MethodExpress}
	assert.NoError(t, ok.Validate())

	badDest := ShippingSelection{Destination: "MX", Method: MethodExpress}
	assert.ErrorIs(t, badDest.Validate(), ErrUnknownDestination)

	badMethod := ShippingSelection{Destination: DestinationCA, Method: "Drone"}
	assert.ErrorIs(t, badMethod.Validate(), ErrUnknownMethod)
}
