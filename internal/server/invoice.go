package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	invoicedomain "github.com/invoq/invoq/internal/invoice/domain"
	"github.com/invoq/invoq/internal/providers/pdf"
	"github.com/invoq/invoq/pkg/db/pagination"
)

type createInvoiceRequest struct {
	CompanyID          string                                `json:"company_id" binding:"required"`
	CustomerID         string                                `json:"customer_id" binding:"required"`
	InvoiceType        string                                `json:"invoice_type"`
	InvoiceDate        *time.Time                            `json:"invoice_date"`
	DueDate            *time.Time                            `json:"due_date"`
	Items              []invoicedomain.InvoiceItemInput      `json:"items" binding:"required"`
	AdditionalCharges  []invoicedomain.AdditionalChargeInput `json:"additional_charges"`
	OutstandingBill    int64                                 `json:"outstanding_bill"`
	Notes              string                                `json:"notes"`
	TermsAndConditions string                                `json:"terms_and_conditions"`
	IsDraft            *bool                                 `json:"is_draft"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	inv, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		CompanyID:          req.CompanyID,
		CustomerID:         req.CustomerID,
		InvoiceType:        invoicedomain.InvoiceType(req.InvoiceType),
		InvoiceDate:        req.InvoiceDate,
		DueDate:            req.DueDate,
		Items:              req.Items,
		AdditionalCharges:  req.AdditionalCharges,
		OutstandingBill:    req.OutstandingBill,
		Notes:              req.Notes,
		TermsAndConditions: req.TermsAndConditions,
		IsDraft:            req.IsDraft,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, "invoice created", inv)
}

type listInvoicesQuery struct {
	pagination.Pagination
	Status     string `form:"status"`
	Type       string `form:"type"`
	CompanyID  string `form:"company_id"`
	CustomerID string `form:"customer_id"`
	Search     string `form:"search"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query listInvoicesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	req := invoicedomain.ListInvoiceRequest{
		Pagination: query.Pagination,
		Search:     query.Search,
	}
	if query.Status != "" {
		status := invoicedomain.InvoiceStatus(query.Status)
		if !status.Valid() {
			AbortWithError(c, invoicedomain.ErrInvalidStatus)
			return
		}
		req.Status = &status
	}
	if query.Type != "" {
		invoiceType := invoicedomain.InvoiceType(query.Type)
		if !invoiceType.Valid() {
			AbortWithError(c, invoicedomain.ErrInvalidInvoiceType)
			return
		}
		req.Type = &invoiceType
	}
	if query.CompanyID != "" {
		id, err := snowflake.ParseString(query.CompanyID)
		if err != nil {
			AbortWithError(c, invoicedomain.ErrInvalidID)
			return
		}
		req.CompanyID = &id
	}
	if query.CustomerID != "" {
		id, err := snowflake.ParseString(query.CustomerID)
		if err != nil {
			AbortWithError(c, invoicedomain.ErrInvalidID)
			return
		}
		req.CustomerID = &id
	}
	if query.StartDate != "" {
		start, err := time.Parse(time.RFC3339, query.StartDate)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		req.StartDate = &start
	}
	if query.EndDate != "" {
		end, err := time.Parse(time.RFC3339, query.EndDate)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		req.EndDate = &end
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "invoices listed", resp)
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	inv, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "invoice fetched", inv)
}

type updateInvoiceRequest struct {
	Items              []invoicedomain.InvoiceItemInput       `json:"items"`
	AdditionalCharges  *[]invoicedomain.AdditionalChargeInput `json:"additional_charges"`
	OutstandingBill    *int64                                 `json:"outstanding_bill"`
	InvoiceDate        *time.Time                             `json:"invoice_date"`
	DueDate            *time.Time                             `json:"due_date"`
	Notes              *string                                `json:"notes"`
	TermsAndConditions *string                                `json:"terms_and_conditions"`
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	inv, err := s.invoiceSvc.Update(c.Request.Context(), invoicedomain.UpdateInvoiceRequest{
		ID:                 c.Param("id"),
		Items:              req.Items,
		AdditionalCharges:  req.AdditionalCharges,
		OutstandingBill:    req.OutstandingBill,
		InvoiceDate:        req.InvoiceDate,
		DueDate:            req.DueDate,
		Notes:              req.Notes,
		TermsAndConditions: req.TermsAndConditions,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "invoice updated", inv)
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	if err := s.invoiceSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "invoice deleted", nil)
}

type markAsPaidRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

func (s *Server) MarkInvoiceAsPaid(c *gin.Context) {
	var req markAsPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	inv, err := s.invoiceSvc.MarkAsPaid(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "payment recorded", inv)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) UpdateInvoiceStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	inv, err := s.invoiceSvc.UpdateStatus(c.Request.Context(), c.Param("id"),
		invoicedomain.InvoiceStatus(req.Status))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "status updated", inv)
}

func (s *Server) FinalizeInvoiceDraft(c *gin.Context) {
	inv, err := s.invoiceSvc.FinalizeDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "invoice finalized", inv)
}

func (s *Server) ListDraftInvoices(c *gin.Context) {
	drafts, err := s.invoiceSvc.GetDrafts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "drafts listed", drafts)
}

func (s *Server) ListInvoicesByCustomer(c *gin.Context) {
	invoices, err := s.invoiceSvc.GetByCustomer(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "invoices listed", invoices)
}

func (s *Server) GetInvoiceStatistics(c *gin.Context) {
	stats, err := s.invoiceSvc.GetStatistics(c.Request.Context(), c.Query("company_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "statistics fetched", stats)
}

func (s *Server) DownloadInvoicePDF(c *gin.Context) {
	ctx := c.Request.Context()

	inv, err := s.invoiceSvc.GetByID(ctx, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	company, err := s.companySvc.GetByID(ctx, inv.CompanyID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	customer, err := s.customerSvc.GetByID(ctx, inv.CustomerID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.pdfRenderer.RenderInvoice(ctx, pdf.InvoiceDocument{
		Invoice:  inv,
		Company:  company,
		Customer: customer,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("%s-%s.pdf",
		strings.ToLower(string(inv.InvoiceType)), inv.InvoiceNumber)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}
