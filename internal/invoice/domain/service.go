package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/invoq/invoq/pkg/db/pagination"
)

// InvoiceItemInput is the caller-supplied shape of a line item. The derived
// total is computed server-side.
type InvoiceItemInput struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   int64   `json:"unit_price"`
}

// AdditionalChargeInput is the caller-supplied shape of a charge.
type AdditionalChargeInput struct {
	Kind         ChargeKind `json:"kind"`
	Label        string     `json:"label"`
	Value        float64    `json:"value"`
	IsPercentage bool       `json:"is_percentage"`
}

type CreateInvoiceRequest struct {
	CompanyID          string
	CustomerID         string
	InvoiceType        InvoiceType
	InvoiceDate        *time.Time
	DueDate            *time.Time
	Items              []InvoiceItemInput
	AdditionalCharges  []AdditionalChargeInput
	OutstandingBill    int64
	Notes              string
	TermsAndConditions string
	// IsDraft defaults to true when nil.
	IsDraft *bool
}

// UpdateInvoiceRequest carries partial updates. Nil fields are left unchanged;
// a present-but-empty charge slice clears the charges.
type UpdateInvoiceRequest struct {
	ID                 string
	Items              []InvoiceItemInput
	AdditionalCharges  *[]AdditionalChargeInput
	OutstandingBill    *int64
	DueDate            *time.Time
	InvoiceDate        *time.Time
	Notes              *string
	TermsAndConditions *string
}

type ListInvoiceRequest struct {
	pagination.Pagination
	Status     *InvoiceStatus
	Type       *InvoiceType
	CompanyID  *snowflake.ID
	CustomerID *snowflake.ID
	Search     string
	StartDate  *time.Time
	EndDate    *time.Time
}

type ListInvoiceFilter struct {
	Status     *InvoiceStatus
	Type       *InvoiceType
	CompanyID  *snowflake.ID
	CustomerID *snowflake.ID
	Search     string
	StartDate  *time.Time
	EndDate    *time.Time
	DraftsOnly bool
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

// Statistics aggregates owner-scoped counts and sums.
type Statistics struct {
	TotalInvoices     int64 `json:"total_invoices"`
	TotalProformas    int64 `json:"total_proformas"`
	PaidInvoices      int64 `json:"paid_invoices"`
	UnpaidInvoices    int64 `json:"unpaid_invoices"`
	OverdueInvoices   int64 `json:"overdue_invoices"`
	TotalRevenue      int64 `json:"total_revenue"`
	OutstandingAmount int64 `json:"outstanding_amount"`
}

// Service orchestrates the invoice lifecycle. Every mutation recomputes
// totals, re-evaluates the state machine and persists atomically, in that
// order; there are no hidden save hooks.
type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (Invoice, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
	GetDrafts(ctx context.Context) ([]Invoice, error)
	GetByCustomer(ctx context.Context, customerID string) ([]Invoice, error)
	Update(ctx context.Context, req UpdateInvoiceRequest) (Invoice, error)
	Delete(ctx context.Context, id string) error
	MarkAsPaid(ctx context.Context, id string, amount int64) (Invoice, error)
	UpdateStatus(ctx context.Context, id string, status InvoiceStatus) (Invoice, error)
	FinalizeDraft(ctx context.Context, id string) (Invoice, error)
	GetStatistics(ctx context.Context, companyID string) (Statistics, error)
}
