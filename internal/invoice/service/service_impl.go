package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/invoq/invoq/internal/audit/domain"
	companydomain "github.com/invoq/invoq/internal/company/domain"
	customerdomain "github.com/invoq/invoq/internal/customer/domain"
	invoicedomain "github.com/invoq/invoq/internal/invoice/domain"
	obsmetrics "github.com/invoq/invoq/internal/observability/metrics"
	"github.com/invoq/invoq/internal/sequence"
	"github.com/invoq/invoq/internal/userctx"
	"github.com/invoq/invoq/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        invoicedomain.Repository
	Allocator   sequence.Allocator
	CompanySvc  companydomain.Service
	CustomerSvc customerdomain.Service
	AuditSvc    auditdomain.Service        `optional:"true"`
	Metrics     *obsmetrics.InvoiceMetrics `optional:"true"`
}

// Service is the invoice lifecycle orchestrator. Every mutation runs the same
// explicit pipeline: recompute totals, re-evaluate the state machine, persist
// in one transaction.
type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        invoicedomain.Repository
	allocator   sequence.Allocator
	companySvc  companydomain.Service
	customerSvc customerdomain.Service
	auditSvc    auditdomain.Service
	metrics     *obsmetrics.InvoiceMetrics
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("invoice.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		allocator:   p.Allocator,
		companySvc:  p.CompanySvc,
		customerSvc: p.CustomerSvc,
		auditSvc:    p.AuditSvc,
		metrics:     p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.Invoice, error) {
	userID, ok := userctx.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidOwner
	}

	invoiceType := req.InvoiceType
	if invoiceType == "" {
		invoiceType = invoicedomain.InvoiceTypeInvoice
	}
	if !invoiceType.Valid() {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidInvoiceType
	}

	// Foreign references are validated by the owning collaborators before
	// anything is written.
	if err := s.companySvc.VerifyOwnership(ctx, req.CompanyID); err != nil {
		return invoicedomain.Invoice{}, err
	}
	customer, err := s.customerSvc.GetByID(ctx, req.CustomerID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	companyID, err := parseID(req.CompanyID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	totals, err := invoicedomain.ComputeTotals(
		itemsFromInputs(req.Items),
		chargesFromInputs(req.AdditionalCharges),
		req.OutstandingBill,
	)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	now := time.Now().UTC()
	invoiceDate := now
	if req.InvoiceDate != nil {
		invoiceDate = req.InvoiceDate.UTC()
	}
	isDraft := true
	if req.IsDraft != nil {
		isDraft = *req.IsDraft
	}

	inv := invoicedomain.Invoice{
		ID:                 s.genID.Generate(),
		UserID:             userID,
		CompanyID:          companyID,
		CustomerID:         customer.ID,
		InvoiceType:        invoiceType,
		InvoiceDate:        invoiceDate,
		DueDate:            req.DueDate,
		Status:             invoicedomain.InvoiceStatusDraft,
		Items:              totals.Items,
		Subtotal:           totals.Subtotal,
		AdditionalCharges:  totals.Charges,
		OutstandingBill:    req.OutstandingBill,
		GrandTotal:         totals.GrandTotal,
		AmountPaid:         0,
		Balance:            totals.GrandTotal,
		Notes:              strings.TrimSpace(req.Notes),
		TermsAndConditions: strings.TrimSpace(req.TermsAndConditions),
		IsDraft:            isDraft,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	invoicedomain.EvaluateStatus(&inv, now)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.allocator.WithTx(tx).NextInvoiceNumber(ctx)
		if err != nil {
			return err
		}
		inv.InvoiceNumber = number
		s.stampChildren(&inv, now)
		return s.repo.Insert(ctx, tx, &inv)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return invoicedomain.Invoice{}, invoicedomain.ErrDuplicateNumber
		}
		return invoicedomain.Invoice{}, err
	}

	s.metrics.RecordCreated(string(inv.InvoiceType))
	s.emitAudit(ctx, "invoice.created", &inv, nil)
	return inv, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	inv, err := s.load(ctx, s.db, id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	return *inv, nil
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	userID, ok := userctx.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return invoicedomain.ListInvoiceResponse{}, invoicedomain.ErrInvalidOwner
	}

	filter := invoicedomain.ListInvoiceFilter{
		Status:     req.Status,
		Type:       req.Type,
		CompanyID:  req.CompanyID,
		CustomerID: req.CustomerID,
		Search:     strings.TrimSpace(req.Search),
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	items, err := s.repo.List(ctx, s.db, userID, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, int32(pageSize), func(inv *invoicedomain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        inv.ID.String(),
			CreatedAt: inv.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	invoices := make([]invoicedomain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}

	resp := invoicedomain.ListInvoiceResponse{Invoices: invoices}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) GetDrafts(ctx context.Context) ([]invoicedomain.Invoice, error) {
	userID, ok := userctx.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return nil, invoicedomain.ErrInvalidOwner
	}

	items, err := s.repo.List(ctx, s.db, userID,
		invoicedomain.ListInvoiceFilter{DraftsOnly: true},
		pagination.Pagination{PageSize: 250},
	)
	if err != nil {
		return nil, err
	}
	return dereference(items), nil
}

func (s *Service) GetByCustomer(ctx context.Context, customerID string) ([]invoicedomain.Invoice, error) {
	userID, ok := userctx.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return nil, invoicedomain.ErrInvalidOwner
	}

	// Ownership check doubles as existence check.
	customer, err := s.customerSvc.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, s.db, userID,
		invoicedomain.ListInvoiceFilter{CustomerID: &customer.ID},
		pagination.Pagination{PageSize: 250},
	)
	if err != nil {
		return nil, err
	}
	return dereference(items), nil
}

func (s *Service) Update(ctx context.Context, req invoicedomain.UpdateInvoiceRequest) (invoicedomain.Invoice, error) {
	inv, err := s.load(ctx, s.db, req.ID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	touchesFinancials := req.Items != nil || req.AdditionalCharges != nil || req.OutstandingBill != nil
	if inv.FinancialsFrozen() && touchesFinancials {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvoiceFrozen
	}

	now := time.Now().UTC()
	if touchesFinancials {
		items := inv.Items
		if req.Items != nil {
			items = itemsFromInputs(req.Items)
		}
		charges := inv.AdditionalCharges
		if req.AdditionalCharges != nil {
			charges = chargesFromInputs(*req.AdditionalCharges)
		}
		outstanding := inv.OutstandingBill
		if req.OutstandingBill != nil {
			outstanding = *req.OutstandingBill
		}

		totals, err := invoicedomain.ComputeTotals(items, charges, outstanding)
		if err != nil {
			return invoicedomain.Invoice{}, err
		}
		inv.Items = totals.Items
		inv.Subtotal = totals.Subtotal
		inv.AdditionalCharges = totals.Charges
		inv.OutstandingBill = outstanding
		inv.GrandTotal = totals.GrandTotal
		inv.Balance = inv.GrandTotal - inv.AmountPaid
	}

	if req.DueDate != nil {
		due := req.DueDate.UTC()
		inv.DueDate = &due
	}
	if req.InvoiceDate != nil {
		inv.InvoiceDate = req.InvoiceDate.UTC()
	}
	if req.Notes != nil {
		inv.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.TermsAndConditions != nil {
		inv.TermsAndConditions = strings.TrimSpace(*req.TermsAndConditions)
	}

	invoicedomain.EvaluateStatus(inv, now)
	inv.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s.stampChildren(inv, now)
		return s.repo.Update(ctx, tx, inv)
	})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	s.emitAudit(ctx, "invoice.updated", inv, nil)
	return *inv, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	inv, err := s.load(ctx, s.db, id)
	if err != nil {
		return err
	}
	if inv.Status == invoicedomain.InvoiceStatusPaid {
		return invoicedomain.ErrInvoicePaid
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Delete(ctx, tx, inv.UserID, inv.ID)
	})
	if err != nil {
		return err
	}

	s.emitAudit(ctx, "invoice.deleted", inv, nil)
	return nil
}

func (s *Service) MarkAsPaid(ctx context.Context, id string, amount int64) (invoicedomain.Invoice, error) {
	inv, err := s.load(ctx, s.db, id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	now := time.Now().UTC()
	if err := invoicedomain.ApplyPayment(inv, amount, now); err != nil {
		return invoicedomain.Invoice{}, err
	}
	inv.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Update(ctx, tx, inv)
	})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	s.metrics.RecordPayment()
	if inv.Status == invoicedomain.InvoiceStatusPaid {
		s.metrics.RecordStatusChange(string(inv.Status))
	}
	s.emitAudit(ctx, "invoice.paid", inv, map[string]any{
		"amount":  amount,
		"balance": inv.Balance,
	})
	return *inv, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status invoicedomain.InvoiceStatus) (invoicedomain.Invoice, error) {
	if !status.Valid() {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidStatus
	}

	inv, err := s.load(ctx, s.db, id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	previous := inv.Status
	// Explicit override: the automatic evaluation is deliberately not re-run
	// here, so a cancellation is never clawed back into overdue.
	inv.Status = status
	inv.UpdatedAt = time.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Update(ctx, tx, inv)
	})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	s.metrics.RecordStatusChange(string(status))
	s.emitAudit(ctx, "invoice.status_updated", inv, map[string]any{
		"previous_status": string(previous),
	})
	return *inv, nil
}

func (s *Service) FinalizeDraft(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	inv, err := s.load(ctx, s.db, id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	now := time.Now().UTC()
	if err := invoicedomain.Finalize(inv, now); err != nil {
		return invoicedomain.Invoice{}, err
	}
	inv.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Update(ctx, tx, inv)
	})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	s.metrics.RecordFinalized()
	s.emitAudit(ctx, "invoice.finalized", inv, nil)
	return *inv, nil
}

func (s *Service) GetStatistics(ctx context.Context, companyID string) (invoicedomain.Statistics, error) {
	userID, ok := userctx.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return invoicedomain.Statistics{}, invoicedomain.ErrInvalidOwner
	}

	var scopedCompany snowflake.ID
	if strings.TrimSpace(companyID) != "" {
		if err := s.companySvc.VerifyOwnership(ctx, companyID); err != nil {
			return invoicedomain.Statistics{}, err
		}
		parsed, err := parseID(companyID)
		if err != nil {
			return invoicedomain.Statistics{}, err
		}
		scopedCompany = parsed
	}

	return s.repo.Statistics(ctx, s.db, userID, scopedCompany)
}

func (s *Service) load(ctx context.Context, db *gorm.DB, id string) (*invoicedomain.Invoice, error) {
	userID, ok := userctx.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return nil, invoicedomain.ErrInvalidOwner
	}

	invoiceID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	inv, err := s.repo.FindByID(ctx, db, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, invoicedomain.ErrNotFound
	}
	return inv, nil
}

// stampChildren assigns fresh identities to the invoice's child rows before
// they are (re)inserted.
func (s *Service) stampChildren(inv *invoicedomain.Invoice, now time.Time) {
	for i := range inv.Items {
		inv.Items[i].ID = s.genID.Generate()
		inv.Items[i].UserID = inv.UserID
		inv.Items[i].InvoiceID = inv.ID
		inv.Items[i].CreatedAt = now
	}
	for i := range inv.AdditionalCharges {
		inv.AdditionalCharges[i].ID = s.genID.Generate()
		inv.AdditionalCharges[i].UserID = inv.UserID
		inv.AdditionalCharges[i].InvoiceID = inv.ID
		inv.AdditionalCharges[i].CreatedAt = now
	}
}

func (s *Service) emitAudit(ctx context.Context, action string, inv *invoicedomain.Invoice, extra map[string]any) {
	if s.auditSvc == nil || inv == nil {
		return
	}
	metadata := map[string]any{
		"invoice_number": inv.InvoiceNumber,
		"invoice_type":   string(inv.InvoiceType),
		"status":         string(inv.Status),
		"grand_total":    inv.GrandTotal,
		"customer_id":    inv.CustomerID.String(),
		"company_id":     inv.CompanyID.String(),
	}
	for key, value := range extra {
		if key == "" {
			continue
		}
		metadata[key] = value
	}
	if err := s.auditSvc.Record(ctx, action, "invoice", inv.ID.String(), metadata); err != nil {
		s.log.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}

func itemsFromInputs(inputs []invoicedomain.InvoiceItemInput) []invoicedomain.InvoiceItem {
	items := make([]invoicedomain.InvoiceItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, invoicedomain.InvoiceItem{
			Description: strings.TrimSpace(in.Description),
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
		})
	}
	return items
}

func chargesFromInputs(inputs []invoicedomain.AdditionalChargeInput) []invoicedomain.AdditionalCharge {
	charges := make([]invoicedomain.AdditionalCharge, 0, len(inputs))
	for _, in := range inputs {
		charges = append(charges, invoicedomain.AdditionalCharge{
			Kind:         in.Kind,
			Label:        strings.TrimSpace(in.Label),
			Value:        in.Value,
			IsPercentage: in.IsPercentage,
		})
	}
	return charges
}

func dereference(items []*invoicedomain.Invoice) []invoicedomain.Invoice {
	invoices := make([]invoicedomain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}
	return invoices
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, invoicedomain.ErrInvalidID
	}
	return id, nil
}
