package pdf

import (
	"context"
	"io"

	companydomain "github.com/invoq/invoq/internal/company/domain"
	customerdomain "github.com/invoq/invoq/internal/customer/domain"
	invoicedomain "github.com/invoq/invoq/internal/invoice/domain"
)

// InvoiceDocument bundles everything a rendered invoice needs.
type InvoiceDocument struct {
	Invoice  invoicedomain.Invoice
	Company  companydomain.Company
	Customer customerdomain.Customer
}

// Renderer turns an invoice into a downloadable document.
type Renderer interface {
	RenderInvoice(ctx context.Context, doc InvoiceDocument) (io.Reader, error)
}
