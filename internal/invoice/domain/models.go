// Package domain contains the invoice models, the totals calculator and the
// status state machine. All monetary values are int64 minor units (cents).
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
)

// Valid reports whether the status is a known lifecycle state.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid,
		InvoiceStatusCancelled, InvoiceStatusOverdue:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status accepts no further status-affecting writes.
func (s InvoiceStatus) Terminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// InvoiceType distinguishes invoices from proformas.
type InvoiceType string

const (
	InvoiceTypeInvoice  InvoiceType = "invoice"
	InvoiceTypeProforma InvoiceType = "proforma"
)

func (t InvoiceType) Valid() bool {
	return t == InvoiceTypeInvoice || t == InvoiceTypeProforma
}

// ChargeKind is the closed set of additional charge categories. Adding a kind
// is a deliberate schema change, not free-form text.
type ChargeKind string

const (
	ChargeKindVAT            ChargeKind = "vat"
	ChargeKindTax            ChargeKind = "tax"
	ChargeKindShipping       ChargeKind = "shipping"
	ChargeKindTransportation ChargeKind = "transportation"
	ChargeKindFuel           ChargeKind = "fuel"
	ChargeKindFlight         ChargeKind = "flight"
	ChargeKindDiscount       ChargeKind = "discount"
	ChargeKindOther          ChargeKind = "other"
)

func (k ChargeKind) Valid() bool {
	switch k {
	case ChargeKindVAT, ChargeKindTax, ChargeKindShipping, ChargeKindTransportation,
		ChargeKindFuel, ChargeKindFlight, ChargeKindDiscount, ChargeKindOther:
		return true
	default:
		return false
	}
}

// Invoice is the central entity. Items and AdditionalCharges live in child
// tables and are loaded and replaced wholesale by the repository.
type Invoice struct {
	ID                 snowflake.ID       `gorm:"primaryKey" json:"id"`
	UserID             snowflake.ID       `gorm:"not null;index" json:"user_id"`
	CompanyID          snowflake.ID       `gorm:"not null;index" json:"company_id"`
	CustomerID         snowflake.ID       `gorm:"not null;index" json:"customer_id"`
	InvoiceNumber      string             `gorm:"type:text;not null;uniqueIndex" json:"invoice_number"`
	InvoiceType        InvoiceType        `gorm:"type:text;not null;default:'invoice'" json:"invoice_type"`
	InvoiceDate        time.Time          `gorm:"not null" json:"invoice_date"`
	DueDate            *time.Time         `json:"due_date,omitempty"`
	Status             InvoiceStatus      `gorm:"type:text;not null;default:'draft';index" json:"status"`
	Items              []InvoiceItem      `gorm:"-" json:"items"`
	Subtotal           int64              `gorm:"not null;default:0" json:"subtotal"`
	AdditionalCharges  []AdditionalCharge `gorm:"-" json:"additional_charges"`
	OutstandingBill    int64              `gorm:"not null;default:0" json:"outstanding_bill"`
	GrandTotal         int64              `gorm:"not null;default:0" json:"grand_total"`
	AmountPaid         int64              `gorm:"not null;default:0" json:"amount_paid"`
	Balance            int64              `gorm:"not null;default:0" json:"balance"`
	Notes              string             `gorm:"type:text" json:"notes,omitempty"`
	TermsAndConditions string             `gorm:"type:text" json:"terms_and_conditions,omitempty"`
	IsDraft            bool               `gorm:"not null;default:true;index" json:"is_draft"`
	CreatedAt          time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceItem is a line on an invoice. Total is derived and never trusted
// from the caller.
type InvoiceItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"-"`
	UserID      snowflake.ID `gorm:"not null;index" json:"-"`
	InvoiceID   snowflake.ID `gorm:"not null;index" json:"-"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Quantity    float64      `gorm:"not null" json:"quantity"`
	UnitPrice   int64        `gorm:"not null" json:"unit_price"`
	Total       int64        `gorm:"not null" json:"total"`
	Position    int          `gorm:"not null;default:0" json:"-"`
	CreatedAt   time.Time    `gorm:"not null" json:"-"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }

// AdditionalCharge is a flat or percentage charge applied on top of the
// subtotal. Amount is derived against the item subtotal, never a running total.
type AdditionalCharge struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"-"`
	UserID       snowflake.ID `gorm:"not null;index" json:"-"`
	InvoiceID    snowflake.ID `gorm:"not null;index" json:"-"`
	Kind         ChargeKind   `gorm:"type:text;not null" json:"kind"`
	Label        string       `gorm:"type:text;not null" json:"label"`
	Value        float64      `gorm:"not null" json:"value"`
	IsPercentage bool         `gorm:"not null;default:false" json:"is_percentage"`
	Amount       int64        `gorm:"not null" json:"amount"`
	Position     int          `gorm:"not null;default:0" json:"-"`
	CreatedAt    time.Time    `gorm:"not null" json:"-"`
}

// TableName sets the database table name.
func (AdditionalCharge) TableName() string { return "invoice_charges" }
