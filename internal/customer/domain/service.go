package domain

import (
	"context"
	"errors"

	"github.com/invoq/invoq/pkg/db/pagination"
)

type ListCustomerRequest struct {
	PageToken string
	PageSize  int32
	Name      string
	Email     string
	Search    string
}

type ListCustomerFilter struct {
	Name   string
	Email  string
	Search string
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type CreateCustomerRequest struct {
	Name    string
	Email   string
	Phone   string
	Address string
	City    string
	State   string
	Country string
	TaxID   string
	Notes   string
}

type UpdateCustomerRequest struct {
	ID      string
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	City    *string
	State   *string
	Country *string
	TaxID   *string
	Notes   *string
}

type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (Customer, error)
	List(ctx context.Context, req ListCustomerRequest) (ListCustomerResponse, error)
	// GetByID fails with ErrNotFound when the customer is absent or owned by
	// another user; cross-owner existence is never revealed.
	GetByID(ctx context.Context, id string) (Customer, error)
	Update(ctx context.Context, req UpdateCustomerRequest) (Customer, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidOwner = errors.New("invalid_owner")
	ErrInvalidName  = errors.New("invalid_customer_name")
	ErrInvalidEmail = errors.New("invalid_customer_email")
	ErrInvalidID    = errors.New("invalid_customer_id")
	ErrNotFound     = errors.New("customer_not_found")
)
