package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoq/invoq/internal/audit"
	"github.com/invoq/invoq/internal/company"
	companydomain "github.com/invoq/invoq/internal/company/domain"
	"github.com/invoq/invoq/internal/config"
	"github.com/invoq/invoq/internal/customer"
	customerdomain "github.com/invoq/invoq/internal/customer/domain"
	"github.com/invoq/invoq/internal/invoice"
	invoicedomain "github.com/invoq/invoq/internal/invoice/domain"
	obsmetrics "github.com/invoq/invoq/internal/observability/metrics"
	"github.com/invoq/invoq/internal/providers/pdf"
	"github.com/invoq/invoq/internal/sequence"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	obsmetrics.Module,
	fx.Provide(registerGin),
	audit.Module,
	company.Module,
	customer.Module,
	sequence.Module,
	invoice.Module,
	pdf.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	invoiceSvc  invoicedomain.Service
	companySvc  companydomain.Service
	customerSvc customerdomain.Service
	pdfRenderer pdf.Renderer
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	InvoiceSvc  invoicedomain.Service
	CompanySvc  companydomain.Service
	CustomerSvc customerdomain.Service
	PDFRenderer pdf.Renderer
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		invoiceSvc:  p.InvoiceSvc,
		companySvc:  p.CompanySvc,
		customerSvc: p.CustomerSvc,
		pdfRenderer: p.PDFRenderer,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")
	api.Use(IdentityRequired())

	// -------- Companies --------
	api.GET("/companies", s.ListCompanies)
	api.POST("/companies", s.CreateCompany)
	api.GET("/companies/:id", s.GetCompanyByID)
	api.PATCH("/companies/:id", s.UpdateCompany)
	api.DELETE("/companies/:id", s.DeleteCompany)

	// -------- Customers --------
	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.PATCH("/customers/:id", s.UpdateCustomer)
	api.DELETE("/customers/:id", s.DeleteCustomer)

	// -------- Invoices --------
	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices/drafts", s.ListDraftInvoices)
	api.GET("/invoices/statistics", s.GetInvoiceStatistics)
	api.GET("/invoices/customer/:customerId", s.ListInvoicesByCustomer)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.PATCH("/invoices/:id", s.UpdateInvoice)
	api.DELETE("/invoices/:id", s.DeleteInvoice)
	api.POST("/invoices/:id/pay", s.MarkInvoiceAsPaid)
	api.POST("/invoices/:id/status", s.UpdateInvoiceStatus)
	api.POST("/invoices/:id/finalize", s.FinalizeInvoiceDraft)
	api.GET("/invoices/:id/pdf", s.DownloadInvoicePDF)
}
