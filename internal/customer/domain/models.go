package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Customer is an invoice recipient owned by a single user account.
type Customer struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"not null;index" json:"user_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Email     string       `gorm:"type:text" json:"email,omitempty"`
	Phone     string       `gorm:"type:text" json:"phone,omitempty"`
	Address   string       `gorm:"type:text" json:"address,omitempty"`
	City      string       `gorm:"type:text" json:"city,omitempty"`
	State     string       `gorm:"type:text" json:"state,omitempty"`
	Country   string       `gorm:"type:text" json:"country,omitempty"`
	TaxID     string       `gorm:"type:text" json:"tax_id,omitempty"`
	Notes     string       `gorm:"type:text" json:"notes,omitempty"`
	IsActive  bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }
