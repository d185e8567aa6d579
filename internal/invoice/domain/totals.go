package domain

import "math"

// Totals is the result of a full recomputation from raw inputs.
type Totals struct {
	Items      []InvoiceItem
	Subtotal   int64
	Charges    []AdditionalCharge
	GrandTotal int64
}

// ComputeTotals derives item totals, subtotal, charge amounts and the grand
// total. It is pure: inputs are copied, never mutated, and any caller-supplied
// derived fields (item Total, charge Amount) are discarded and recomputed.
//
// Percentage charges are always evaluated against the item subtotal, never a
// running total, so the result is invariant under charge reordering and no
// charge compounds on another.
func ComputeTotals(items []InvoiceItem, charges []AdditionalCharge, outstandingBill int64) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, ErrEmptyItems
	}
	if outstandingBill < 0 {
		return Totals{}, ErrNegativeAmount
	}

	outItems := make([]InvoiceItem, len(items))
	var subtotal int64
	for i, item := range items {
		if item.Quantity < 0 || item.UnitPrice < 0 {
			return Totals{}, ErrNegativeAmount
		}
		item.Total = roundMinor(item.Quantity * float64(item.UnitPrice))
		item.Position = i
		outItems[i] = item
		subtotal += item.Total
	}

	outCharges := make([]AdditionalCharge, len(charges))
	var chargesTotal int64
	for i, charge := range charges {
		if !charge.Kind.Valid() {
			return Totals{}, ErrInvalidChargeKind
		}
		if charge.Value < 0 {
			return Totals{}, ErrNegativeAmount
		}
		if charge.IsPercentage {
			charge.Amount = roundMinor(float64(subtotal) * charge.Value / 100)
		} else {
			charge.Amount = roundMinor(charge.Value)
		}
		charge.Position = i
		outCharges[i] = charge
		chargesTotal += charge.Amount
	}

	return Totals{
		Items:      outItems,
		Subtotal:   subtotal,
		Charges:    outCharges,
		GrandTotal: subtotal + chargesTotal + outstandingBill,
	}, nil
}

// roundMinor rounds to the nearest minor unit, half away from zero.
func roundMinor(v float64) int64 {
	return int64(math.Round(v))
}
