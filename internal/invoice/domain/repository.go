package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/invoq/invoq/pkg/db/pagination"
	"gorm.io/gorm"
)

// Repository persists invoices together with their items and charges. Insert
// and Update write the invoice row and replace the child rows wholesale inside
// the caller's transaction.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, inv *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, userID snowflake.ID, filter ListInvoiceFilter, page pagination.Pagination) ([]*Invoice, error)
	Update(ctx context.Context, db *gorm.DB, inv *Invoice) error
	Delete(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) error
	Statistics(ctx context.Context, db *gorm.DB, userID, companyID snowflake.ID) (Statistics, error)
}
