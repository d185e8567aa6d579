package domain

import "errors"

var (
	ErrInvalidOwner         = errors.New("invalid_owner")
	ErrInvalidID            = errors.New("invalid_id")
	ErrNotFound             = errors.New("invoice_not_found")
	ErrEmptyItems           = errors.New("empty_items")
	ErrNegativeAmount       = errors.New("negative_amount")
	ErrInvalidChargeKind    = errors.New("invalid_charge_kind")
	ErrInvalidInvoiceType   = errors.New("invalid_invoice_type")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidPaymentAmount = errors.New("invalid_payment_amount")

	// ErrInvoicePaid rejects deleting a paid invoice.
	ErrInvoicePaid = errors.New("invoice_paid")
	// ErrInvoiceFrozen rejects item/charge mutation once paid or cancelled.
	ErrInvoiceFrozen = errors.New("invoice_frozen")
	// ErrNotDraft rejects finalizing an already finalized invoice.
	ErrNotDraft = errors.New("invoice_not_draft")
	// ErrDuplicateNumber guards the unique index on invoice_number. The
	// allocator makes this unreachable in practice.
	ErrDuplicateNumber = errors.New("duplicate_invoice_number")
)
