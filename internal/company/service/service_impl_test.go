package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/invoq/invoq/internal/company/domain"
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

	require.NoError(t, db.AutoMigrate(&domain.Company{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{DB: db, Log: zap.NewNop(), GenID: node})
	ctx := userctx.WithUserID(context.Background(), node.Generate())
	return svc, ctx
}

func TestCreateCompany(t *testing.T) {
	svc, ctx := setup(t)

	company, err := svc.Create(ctx, domain.CreateCompanyRequest{
		Name:  "  Acme Ltd  ",
		Email: "Billing@Acme.example",
		AccountDetails: []domain.AccountDetail{
			{BankName: "First Bank", AccountNumber: "0011223344", IsPrimary: true},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Ltd", company.Name)
	assert.Equal(t, "billing@acme.example", company.Email)
	assert.True(t, company.IsActive)
	assert.NotZero(t, company.ID)

	_, err = svc.Create(ctx, domain.CreateCompanyRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestVerifyOwnership(t *testing.T) {
	svc, ctx := setup(t)

	company, err := svc.Create(ctx, domain.CreateCompanyRequest{Name: "Acme Ltd"})
	require.NoError(t, err)

	require.NoError(t, svc.VerifyOwnership(ctx, company.ID.String()))

	assert.ErrorIs(t, svc.VerifyOwnership(ctx, "123456789"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.VerifyOwnership(ctx, "not-a-number"), domain.ErrInvalidID)

	// Another owner never sees the company, not even as forbidden.
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	otherCtx := userctx.WithUserID(context.Background(), node.Generate())
	assert.ErrorIs(t, svc.VerifyOwnership(otherCtx, company.ID.String()), domain.ErrNotFound)
}

func TestUpdateCompanyPartial(t *testing.T) {
	svc, ctx := setup(t)

	company, err := svc.Create(ctx, domain.CreateCompanyRequest{Name: "Acme Ltd", City: "Lagos"})
	require.NoError(t, err)

	phone := "+2348000000000"
	updated, err := svc.Update(ctx, domain.UpdateCompanyRequest{
		ID:    company.ID.String(),
		Phone: &phone,
	})
	require.NoError(t, err)

	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, "Acme Ltd", updated.Name)
	assert.Equal(t, "Lagos", updated.City)
}

func TestDefaultCompanyIsExclusive(t *testing.T) {
	svc, ctx := setup(t)

	first, err := svc.Create(ctx, domain.CreateCompanyRequest{Name: "Acme Ltd", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.Create(ctx, domain.CreateCompanyRequest{Name: "Acme GmbH", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	first, err = svc.GetByID(ctx, first.ID.String())
	require.NoError(t, err)
	assert.False(t, first.IsDefault)

	makeDefault := true
	first, err = svc.Update(ctx, domain.UpdateCompanyRequest{ID: first.ID.String(), IsDefault: &makeDefault})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err = svc.GetByID(ctx, second.ID.String())
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
}

func TestDeleteCompany(t *testing.T) {
	svc, ctx := setup(t)

	company, err := svc.Create(ctx, domain.CreateCompanyRequest{Name: "Acme Ltd"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, company.ID.String()))

	_, err = svc.GetByID(ctx, company.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
