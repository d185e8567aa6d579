package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Company is an invoice issuer owned by a single user account.
type Company struct {
	ID      snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID  snowflake.ID `gorm:"not null;index" json:"user_id"`
	Name    string       `gorm:"type:text;not null" json:"name"`
	Logo    string       `gorm:"type:text" json:"logo,omitempty"`
	Email   string       `gorm:"type:text" json:"email,omitempty"`
	Phone   string       `gorm:"type:text" json:"phone,omitempty"`
	Address string       `gorm:"type:text" json:"address,omitempty"`
	City    string       `gorm:"type:text" json:"city,omitempty"`
	State   string       `gorm:"type:text" json:"state,omitempty"`
	Country string       `gorm:"type:text" json:"country,omitempty"`
	Website string       `gorm:"type:text" json:"website,omitempty"`
	// AccountDetails holds the bank accounts shown on rendered invoices.
	AccountDetails datatypes.JSON `gorm:"type:jsonb" json:"account_details,omitempty"`
	// IsDefault marks the issuer preselected for new invoices. At most one
	// per owner; setting it clears the previous default.
	IsDefault bool      `gorm:"not null;default:false" json:"is_default"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Company) TableName() string { return "companies" }

// AccountDetail is one bank account entry inside Company.AccountDetails.
type AccountDetail struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	IsPrimary     bool   `json:"is_primary,omitempty"`
}
