package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	companydomain "github.com/invoq/invoq/internal/company/domain"
	companyservice "github.com/invoq/invoq/internal/company/service"
	customerdomain "github.com/invoq/invoq/internal/customer/domain"
	customerrepository "github.com/invoq/invoq/internal/customer/repository"
	customerservice "github.com/invoq/invoq/internal/customer/service"
	"github.com/invoq/invoq/internal/config"
	invoicedomain "github.com/invoq/invoq/internal/invoice/domain"
	invoicerepository "github.com/invoq/invoq/internal/invoice/repository"
	invoiceservice "github.com/invoq/invoq/internal/invoice/service"
	"github.com/invoq/invoq/internal/providers/pdf"
	"github.com/invoq/invoq/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type serverFixture struct {
	srv    *Server
	userID string
}

func setupServer(t *testing.T) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&companydomain.Company{},
		&customerdomain.Customer{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&invoicedomain.AdditionalCharge{},
		&sequence.Counter{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	companySvc := companyservice.New(companyservice.Params{DB: db, Log: log, GenID: node})
	customerSvc := customerservice.New(customerservice.Params{
		DB: db, Log: log, GenID: node, Repo: customerrepository.Provide(),
	})
	invoiceSvc := invoiceservice.NewService(invoiceservice.ServiceParam{
		DB:          db,
		Log:         log,
		GenID:       node,
		Repo:        invoicerepository.Provide(),
		Allocator:   sequence.New(sequence.Params{DB: db, Log: log}),
		CompanySvc:  companySvc,
		CustomerSvc: customerSvc,
	})

	engine := NewEngine(log, nil)
	srv := NewServer(ServerParams{
		Gin:         engine,
		Cfg:         config.Config{AppName: "invoq-test"},
		Log:         log,
		InvoiceSvc:  invoiceSvc,
		CompanySvc:  companySvc,
		CustomerSvc: customerSvc,
		PDFRenderer: pdf.New(),
	})

	return &serverFixture{srv: srv, userID: node.Generate().String()}
}

func (f *serverFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderUserID, f.userID)

	rec := httptest.NewRecorder()
	f.srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (f *serverFixture) createInvoice(t *testing.T) map[string]any {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/api/v1/companies", gin.H{"name": "Acme Ltd"})
	require.Equal(t, http.StatusCreated, rec.Code)
	companyID := decodeBody(t, rec)["data"].(map[string]any)["id"].(string)

	rec = f.do(t, http.MethodPost, "/api/v1/customers", gin.H{"name": "Jane Doe"})
	require.Equal(t, http.StatusCreated, rec.Code)
	customerID := decodeBody(t, rec)["data"].(map[string]any)["id"].(string)

	rec = f.do(t, http.MethodPost, "/api/v1/invoices", gin.H{
		"company_id":  companyID,
		"customer_id": customerID,
		"items": []gin.H{
			{"description": "Consulting", "quantity": 2, "unit_price": 5000},
		},
		"additional_charges": []gin.H{
			{"kind": "vat", "label": "VAT", "value": 7.5, "is_percentage": true},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	return body["data"].(map[string]any)
}

func TestIdentityRequired(t *testing.T) {
	f := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	rec := httptest.NewRecorder()
	f.srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestHealth(t *testing.T) {
	f := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	f.srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateInvoiceOverHTTP(t *testing.T) {
	f := setupServer(t)

	data := f.createInvoice(t)
	assert.Equal(t, "000001", data["invoice_number"])
	assert.Equal(t, "draft", data["status"])
	assert.Equal(t, float64(10750), data["grand_total"])
}

func TestCreateInvoiceValidation(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodPost, "/api/v1/companies", gin.H{"name": "Acme Ltd"})
	require.Equal(t, http.StatusCreated, rec.Code)
	companyID := decodeBody(t, rec)["data"].(map[string]any)["id"].(string)

	rec = f.do(t, http.MethodPost, "/api/v1/customers", gin.H{"name": "Jane Doe"})
	require.Equal(t, http.StatusCreated, rec.Code)
	customerID := decodeBody(t, rec)["data"].(map[string]any)["id"].(string)

	// Missing items fails request binding.
	rec = f.do(t, http.MethodPost, "/api/v1/invoices", gin.H{
		"company_id":  companyID,
		"customer_id": customerID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown charge kind fails domain validation.
	rec = f.do(t, http.MethodPost, "/api/v1/invoices", gin.H{
		"company_id":  companyID,
		"customer_id": customerID,
		"items": []gin.H{
			{"description": "Consulting", "quantity": 1, "unit_price": 100},
		},
		"additional_charges": []gin.H{
			{"kind": "surcharge", "value": 10},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	errPayload := body["error"].(map[string]any)
	assert.Equal(t, "validation_error", errPayload["type"])
}

func TestInvoiceLifecycleOverHTTP(t *testing.T) {
	f := setupServer(t)

	data := f.createInvoice(t)
	id := data["id"].(string)

	rec := f.do(t, http.MethodPost, "/api/v1/invoices/"+id+"/finalize", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sent", decodeBody(t, rec)["data"].(map[string]any)["status"])

	rec = f.do(t, http.MethodPost, "/api/v1/invoices/"+id+"/pay", gin.H{"amount": 10750})
	require.Equal(t, http.StatusOK, rec.Code)
	paid := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, "paid", paid["status"])
	assert.Equal(t, float64(0), paid["balance"])

	// Deleting a paid invoice is an invalid state transition.
	rec = f.do(t, http.MethodDelete, "/api/v1/invoices/"+id, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "invalid_state", body["error"].(map[string]any)["type"])
}

func TestGetInvoiceNotFound(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodGet, "/api/v1/invoices/123456789", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "not_found", body["error"].(map[string]any)["type"])
}

func TestDownloadInvoicePDF(t *testing.T) {
	f := setupServer(t)

	data := f.createInvoice(t)
	id := data["id"].(string)

	rec := f.do(t, http.MethodGet, "/api/v1/invoices/"+id+"/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())
}

func TestStatisticsOverHTTP(t *testing.T) {
	f := setupServer(t)

	f.createInvoice(t)

	rec := f.do(t, http.MethodGet, "/api/v1/invoices/statistics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, float64(1), stats["total_invoices"])
}
