package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals(t *testing.T) {
	items := []InvoiceItem{
		{Description: "Consulting", Quantity: 2, UnitPrice: 5000},
	}
	charges := []AdditionalCharge{
		{Kind: ChargeKindVAT, Label: "VAT", Value: 7.5, IsPercentage: true},
	}

	totals, err := ComputeTotals(items, charges, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(10000), totals.Subtotal)
	require.Len(t, totals.Items, 1)
	assert.Equal(t, int64(10000), totals.Items[0].Total)
	require.Len(t, totals.Charges, 1)
	assert.Equal(t, int64(750), totals.Charges[0].Amount)
	assert.Equal(t, int64(10750), totals.GrandTotal)
}

func TestComputeTotalsFlatChargeAndOutstanding(t *testing.T) {
	items := []InvoiceItem{
		{Description: "Widget", Quantity: 3, UnitPrice: 1200},
		{Description: "Gadget", Quantity: 1, UnitPrice: 450},
	}
	charges := []AdditionalCharge{
		{Kind: ChargeKindShipping, Label: "Courier", Value: 900},
	}

	totals, err := ComputeTotals(items, charges, 2500)
	require.NoError(t, err)

	assert.Equal(t, int64(4050), totals.Subtotal)
	assert.Equal(t, int64(900), totals.Charges[0].Amount)
	assert.Equal(t, int64(4050+900+2500), totals.GrandTotal)
}

func TestComputeTotalsFractionalQuantityRounding(t *testing.T) {
	items := []InvoiceItem{
		{Description: "Hours", Quantity: 1.5, UnitPrice: 333},
	}

	totals, err := ComputeTotals(items, nil, 0)
	require.NoError(t, err)

	// 499.5 rounds half away from zero.
	assert.Equal(t, int64(500), totals.Items[0].Total)
	assert.Equal(t, int64(500), totals.Subtotal)
}

func TestComputeTotalsChargesDoNotCompound(t *testing.T) {
	items := []InvoiceItem{
		{Description: "Service", Quantity: 1, UnitPrice: 10000},
	}
	vat := AdditionalCharge{Kind: ChargeKindVAT, Label: "VAT", Value: 10, IsPercentage: true}
	tax := AdditionalCharge{Kind: ChargeKindTax, Label: "Levy", Value: 5, IsPercentage: true}

	forward, err := ComputeTotals(items, []AdditionalCharge{vat, tax}, 0)
	require.NoError(t, err)
	reversed, err := ComputeTotals(items, []AdditionalCharge{tax, vat}, 0)
	require.NoError(t, err)

	// Each percentage is taken against the item subtotal, so order is
	// irrelevant and neither charge sees the other.
	assert.Equal(t, int64(1000+500), forward.GrandTotal-forward.Subtotal)
	assert.Equal(t, forward.GrandTotal, reversed.GrandTotal)
}

func TestComputeTotalsDiscardsCallerDerivedFields(t *testing.T) {
	items := []InvoiceItem{
		{Description: "Widget", Quantity: 2, UnitPrice: 100, Total: 999999},
	}
	charges := []AdditionalCharge{
		{Kind: ChargeKindOther, Label: "Handling", Value: 50, Amount: 888888},
	}

	totals, err := ComputeTotals(items, charges, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(200), totals.Items[0].Total)
	assert.Equal(t, int64(50), totals.Charges[0].Amount)

	// Inputs are untouched.
	assert.Equal(t, int64(999999), items[0].Total)
	assert.Equal(t, int64(888888), charges[0].Amount)
}

func TestComputeTotalsValidation(t *testing.T) {
	valid := []InvoiceItem{{Description: "Widget", Quantity: 1, UnitPrice: 100}}

	_, err := ComputeTotals(nil, nil, 0)
	assert.ErrorIs(t, err, ErrEmptyItems)

	_, err = ComputeTotals([]InvoiceItem{{Quantity: -1, UnitPrice: 100}}, nil, 0)
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = ComputeTotals([]InvoiceItem{{Quantity: 1, UnitPrice: -100}}, nil, 0)
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = ComputeTotals(valid, nil, -1)
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = ComputeTotals(valid, []AdditionalCharge{
		{Kind: "surcharge", Value: 10},
	}, 0)
	assert.ErrorIs(t, err, ErrInvalidChargeKind)

	_, err = ComputeTotals(valid, []AdditionalCharge{
		{Kind: ChargeKindDiscount, Value: -10},
	}, 0)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestComputeTotalsZeroQuantityAndPriceAllowed(t *testing.T) {
	totals, err := ComputeTotals([]InvoiceItem{
		{Description: "Placeholder", Quantity: 0, UnitPrice: 0},
	}, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), totals.GrandTotal)
}
