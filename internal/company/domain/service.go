package domain

import (
	"context"
	"errors"
)

type CreateCompanyRequest struct {
	Name           string
	Logo           string
	Email          string
	Phone          string
	Address        string
	City           string
	State          string
	Country        string
	Website        string
	AccountDetails []AccountDetail
	IsDefault      bool
}

type UpdateCompanyRequest struct {
	ID             string
	Name           *string
	Logo           *string
	Email          *string
	Phone          *string
	Address        *string
	City           *string
	State          *string
	Country        *string
	Website        *string
	AccountDetails *[]AccountDetail
	IsDefault      *bool
}

type Service interface {
	Create(ctx context.Context, req CreateCompanyRequest) (Company, error)
	GetByID(ctx context.Context, id string) (Company, error)
	List(ctx context.Context) ([]Company, error)
	Update(ctx context.Context, req UpdateCompanyRequest) (Company, error)
	Delete(ctx context.Context, id string) error
	// VerifyOwnership fails with ErrNotFound when the company does not exist
	// under the calling owner. Cross-owner existence is never revealed.
	VerifyOwnership(ctx context.Context, id string) error
}

var (
	ErrInvalidOwner = errors.New("invalid_owner")
	ErrInvalidID    = errors.New("invalid_company_id")
	ErrInvalidName  = errors.New("invalid_company_name")
	ErrNotFound     = errors.New("company_not_found")
)
