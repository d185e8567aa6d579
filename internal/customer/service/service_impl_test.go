package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/invoq/invoq/internal/customer/domain"
	"github.com/invoq/invoq/internal/customer/repository"
	"github.com/invoq/invoq/internal/userctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T) (domain.Service, context.Context) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.Customer{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{DB: db, Log: zap.NewNop(), GenID: node, Repo: repository.Provide()})
	ctx := userctx.WithUserID(context.Background(), node.Generate())
	return svc, ctx
}

func TestCreateCustomer(t *testing.T) {
	svc, ctx := setup(t)

	customer, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:  " Jane Doe ",
		Email: "Jane@Example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", customer.Name)
	assert.Equal(t, "jane@example.com", customer.Email)
	assert.True(t, customer.IsActive)

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{Name: "Bob", Email: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestGetCustomerCrossOwner(t *testing.T) {
	svc, ctx := setup(t)

	customer, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: "Jane Doe"})
	require.NoError(t, err)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	otherCtx := userctx.WithUserID(context.Background(), node.Generate())

	_, err = svc.GetByID(otherCtx, customer.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListCustomersPagination(t *testing.T) {
	svc, ctx := setup(t)

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, domain.CreateCustomerRequest{
			Name: fmt.Sprintf("Customer %d", i),
		})
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, domain.ListCustomerRequest{PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, resp.Customers, 3)
	assert.True(t, resp.HasMore)
	assert.NotEmpty(t, resp.NextPageToken)

	all, err := svc.List(ctx, domain.ListCustomerRequest{PageSize: 50})
	require.NoError(t, err)
	assert.Len(t, all.Customers, 5)
	assert.False(t, all.HasMore)
}

func TestUpdateAndDeleteCustomer(t *testing.T) {
	svc, ctx := setup(t)

	customer, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: "Jane Doe"})
	require.NoError(t, err)

	taxID := "TAX-42"
	updated, err := svc.Update(ctx, domain.UpdateCustomerRequest{
		ID:    customer.ID.String(),
		TaxID: &taxID,
	})
	require.NoError(t, err)
	assert.Equal(t, taxID, updated.TaxID)
	assert.Equal(t, "Jane Doe", updated.Name)

	require.NoError(t, svc.Delete(ctx, customer.ID.String()))
	_, err = svc.GetByID(ctx, customer.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
