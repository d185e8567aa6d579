package domain

import "time"

// EvaluateStatus applies the automatic status transition. It runs on every
// save, not on a schedule: a sent invoice only becomes overdue when a write
// touches it after the due date.
//
// Draft invoices are exempt from date and payment driven transitions. There is
// no regression from overdue back to sent; only a payment moves an overdue
// invoice forward, and cancellation is an explicit client-driven override.
//
// Terminal statuses are left alone: once paid or cancelled, no re-save may
// move the invoice elsewhere.
func EvaluateStatus(inv *Invoice, now time.Time) {
	if inv.Status.Terminal() {
		return
	}
	if inv.IsDraft {
		inv.Status = InvoiceStatusDraft
		return
	}

	switch {
	case inv.Balance <= 0 && inv.AmountPaid > 0:
		inv.Status = InvoiceStatusPaid
		inv.Balance = 0
	case inv.DueDate != nil && now.After(*inv.DueDate) && inv.Balance > 0:
		inv.Status = InvoiceStatusOverdue
	case inv.Status == InvoiceStatusDraft:
		inv.Status = InvoiceStatusSent
	}
}

// Finalize moves a draft into circulation. The automatic evaluation runs
// afterwards, so finalizing past the due date lands directly on overdue.
func Finalize(inv *Invoice, now time.Time) error {
	if !inv.IsDraft {
		return ErrNotDraft
	}
	inv.IsDraft = false
	inv.Status = InvoiceStatusSent
	EvaluateStatus(inv, now)
	return nil
}

// ApplyPayment records a cumulative payment and re-evaluates the status.
// The balance is floored at zero at the point the invoice becomes paid.
func ApplyPayment(inv *Invoice, amount int64, now time.Time) error {
	if amount <= 0 {
		return ErrInvalidPaymentAmount
	}
	inv.AmountPaid += amount
	inv.Balance = inv.GrandTotal - inv.AmountPaid
	if inv.Balance <= 0 {
		inv.Status = InvoiceStatusPaid
		inv.Balance = 0
		return nil
	}
	EvaluateStatus(inv, now)
	return nil
}

// FinancialsFrozen reports whether items and charges may no longer change.
func (inv *Invoice) FinancialsFrozen() bool {
	return inv.Status.Terminal()
}
