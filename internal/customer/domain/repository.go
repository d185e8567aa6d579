package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/invoq/invoq/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, userID snowflake.ID, filter ListCustomerFilter, page pagination.Pagination) ([]*Customer, error)
	Update(ctx context.Context, db *gorm.DB, customer *Customer) error
	Delete(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) error
}
