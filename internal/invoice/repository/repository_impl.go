package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/invoq/invoq/internal/invoice/domain"
	"github.com/invoq/invoq/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, inv *domain.Invoice) error {
	err := db.WithContext(ctx).Exec(
		`INSERT INTO invoices (
			id, user_id, company_id, customer_id, invoice_number, invoice_type,
			invoice_date, due_date, status, subtotal, outstanding_bill, grand_total,
			amount_paid, balance, notes, terms_and_conditions, is_draft,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID,
		inv.UserID,
		inv.CompanyID,
		inv.CustomerID,
		inv.InvoiceNumber,
		inv.InvoiceType,
		inv.InvoiceDate,
		inv.DueDate,
		inv.Status,
		inv.Subtotal,
		inv.OutstandingBill,
		inv.GrandTotal,
		inv.AmountPaid,
		inv.Balance,
		inv.Notes,
		inv.TermsAndConditions,
		inv.IsDraft,
		inv.CreatedAt,
		inv.UpdatedAt,
	).Error
	if err != nil {
		return err
	}
	return r.insertChildren(ctx, db, inv)
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM invoices WHERE user_id = ? AND id = ?`,
		userID,
		id,
	).Scan(&inv).Error
	if err != nil {
		return nil, err
	}
	if inv.ID == 0 {
		return nil, nil
	}
	if err := r.loadChildren(ctx, db, []*domain.Invoice{&inv}); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, userID snowflake.ID, filter domain.ListInvoiceFilter, page pagination.Pagination) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	stmt := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("user_id = ?", userID)

	if filter.Status != nil {
		stmt = stmt.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		stmt = stmt.Where("invoice_type = ?", *filter.Type)
	}
	if filter.CompanyID != nil {
		stmt = stmt.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.CustomerID != nil {
		stmt = stmt.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.DraftsOnly {
		stmt = stmt.Where("is_draft = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("invoice_number LIKE ? OR notes LIKE ?", like, like)
	}
	if filter.StartDate != nil {
		stmt = stmt.Where("invoice_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		stmt = stmt.Where("invoice_date <= ?", *filter.EndDate)
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		if cursor.CreatedAt != "" {
			stmt = stmt.Where("created_at < ?", cursor.CreatedAt)
		}
	}

	limit := page.PageSize
	if limit <= 0 {
		limit = 10
	}
	err := stmt.
		Order("created_at desc, id desc").
		Limit(limit + 1).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, db, invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, inv *domain.Invoice) error {
	err := db.WithContext(ctx).Exec(
		`UPDATE invoices
		 SET invoice_type = ?, invoice_date = ?, due_date = ?, status = ?,
		     subtotal = ?, outstanding_bill = ?, grand_total = ?, amount_paid = ?,
		     balance = ?, notes = ?, terms_and_conditions = ?, is_draft = ?, updated_at = ?
		 WHERE user_id = ? AND id = ?`,
		inv.InvoiceType,
		inv.InvoiceDate,
		inv.DueDate,
		inv.Status,
		inv.Subtotal,
		inv.OutstandingBill,
		inv.GrandTotal,
		inv.AmountPaid,
		inv.Balance,
		inv.Notes,
		inv.TermsAndConditions,
		inv.IsDraft,
		inv.UpdatedAt,
		inv.UserID,
		inv.ID,
	).Error
	if err != nil {
		return err
	}
	if err := r.deleteChildren(ctx, db, inv.ID); err != nil {
		return err
	}
	return r.insertChildren(ctx, db, inv)
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) error {
	if err := r.deleteChildren(ctx, db, id); err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(
		`DELETE FROM invoices WHERE user_id = ? AND id = ?`,
		userID,
		id,
	).Error
}

type statisticsRow struct {
	TotalInvoices     int64
	TotalProformas    int64
	PaidInvoices      int64
	UnpaidInvoices    int64
	OverdueInvoices   int64
	TotalRevenue      int64
	OutstandingAmount int64
}

func (r *repo) Statistics(ctx context.Context, db *gorm.DB, userID, companyID snowflake.ID) (domain.Statistics, error) {
	var row statisticsRow
	stmt := `SELECT
		COALESCE(SUM(CASE WHEN invoice_type = 'invoice' THEN 1 ELSE 0 END), 0) AS total_invoices,
		COALESCE(SUM(CASE WHEN invoice_type = 'proforma' THEN 1 ELSE 0 END), 0) AS total_proformas,
		COALESCE(SUM(CASE WHEN status = 'paid' THEN 1 ELSE 0 END), 0) AS paid_invoices,
		COALESCE(SUM(CASE WHEN status IN ('sent', 'draft') THEN 1 ELSE 0 END), 0) AS unpaid_invoices,
		COALESCE(SUM(CASE WHEN status = 'overdue' THEN 1 ELSE 0 END), 0) AS overdue_invoices,
		COALESCE(SUM(CASE WHEN status = 'paid' THEN grand_total ELSE 0 END), 0) AS total_revenue,
		COALESCE(SUM(CASE WHEN status IN ('sent', 'overdue') THEN balance ELSE 0 END), 0) AS outstanding_amount
	 FROM invoices WHERE user_id = ?`
	args := []any{userID}
	if companyID != 0 {
		stmt += ` AND company_id = ?`
		args = append(args, companyID)
	}

	if err := db.WithContext(ctx).Raw(stmt, args...).Scan(&row).Error; err != nil {
		return domain.Statistics{}, err
	}

	return domain.Statistics{
		TotalInvoices:     row.TotalInvoices,
		TotalProformas:    row.TotalProformas,
		PaidInvoices:      row.PaidInvoices,
		UnpaidInvoices:    row.UnpaidInvoices,
		OverdueInvoices:   row.OverdueInvoices,
		TotalRevenue:      row.TotalRevenue,
		OutstandingAmount: row.OutstandingAmount,
	}, nil
}

func (r *repo) insertChildren(ctx context.Context, db *gorm.DB, inv *domain.Invoice) error {
	for _, item := range inv.Items {
		if err := db.WithContext(ctx).Exec(
			`INSERT INTO invoice_items (id, user_id, invoice_id, description, quantity, unit_price, total, position, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID,
			item.UserID,
			item.InvoiceID,
			item.Description,
			item.Quantity,
			item.UnitPrice,
			item.Total,
			item.Position,
			item.CreatedAt,
		).Error; err != nil {
			return err
		}
	}
	for _, charge := range inv.AdditionalCharges {
		if err := db.WithContext(ctx).Exec(
			`INSERT INTO invoice_charges (id, user_id, invoice_id, kind, label, value, is_percentage, amount, position, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			charge.ID,
			charge.UserID,
			charge.InvoiceID,
			charge.Kind,
			charge.Label,
			charge.Value,
			charge.IsPercentage,
			charge.Amount,
			charge.Position,
			charge.CreatedAt,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) deleteChildren(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) error {
	if err := db.WithContext(ctx).Exec(
		`DELETE FROM invoice_items WHERE invoice_id = ?`, invoiceID,
	).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(
		`DELETE FROM invoice_charges WHERE invoice_id = ?`, invoiceID,
	).Error
}

func (r *repo) loadChildren(ctx context.Context, db *gorm.DB, invoices []*domain.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	ids := make([]snowflake.ID, 0, len(invoices))
	byID := make(map[snowflake.ID]*domain.Invoice, len(invoices))
	for _, inv := range invoices {
		if inv == nil {
			continue
		}
		inv.Items = []domain.InvoiceItem{}
		inv.AdditionalCharges = []domain.AdditionalCharge{}
		ids = append(ids, inv.ID)
		byID[inv.ID] = inv
	}

	var items []domain.InvoiceItem
	if err := db.WithContext(ctx).
		Model(&domain.InvoiceItem{}).
		Where("invoice_id IN ?", ids).
		Order("invoice_id, position").
		Find(&items).Error; err != nil {
		return err
	}
	for _, item := range items {
		if inv, ok := byID[item.InvoiceID]; ok {
			inv.Items = append(inv.Items, item)
		}
	}

	var charges []domain.AdditionalCharge
	if err := db.WithContext(ctx).
		Model(&domain.AdditionalCharge{}).
		Where("invoice_id IN ?", ids).
		Order("invoice_id, position").
		Find(&charges).Error; err != nil {
		return err
	}
	for _, charge := range charges {
		if inv, ok := byID[charge.InvoiceID]; ok {
			inv.AdditionalCharges = append(inv.AdditionalCharges, charge)
		}
	}

	return nil
}
