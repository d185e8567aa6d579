package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics instruments the gin request path.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP instruments against the given registerer.
func NewHTTPMetrics(registerer prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "invoq_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "invoq_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	registerer.MustRegister(m.requests, m.duration)
	return m
}

// GinMiddleware records request counts and latency.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}

// InvoiceMetrics counts invoice lifecycle events.
type InvoiceMetrics struct {
	created       *prometheus.CounterVec
	payments      prometheus.Counter
	finalized     prometheus.Counter
	statusChanges *prometheus.CounterVec
}

// NewInvoiceMetrics registers the lifecycle instruments against the given
// registerer.
func NewInvoiceMetrics(registerer prometheus.Registerer) *InvoiceMetrics {
	m := &InvoiceMetrics{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "invoq_invoices_created_total",
			Help: "Invoices created by type.",
		}, []string{"type"}),
		payments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "invoq_invoice_payments_total",
			Help: "Payments recorded against invoices.",
		}),
		finalized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "invoq_invoices_finalized_total",
			Help: "Drafts finalized into circulation.",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "invoq_invoice_status_changes_total",
			Help: "Invoice status transitions by resulting status.",
		}, []string{"status"}),
	}
	registerer.MustRegister(m.created, m.payments, m.finalized, m.statusChanges)
	return m
}

func (m *InvoiceMetrics) RecordCreated(invoiceType string) {
	if m == nil {
		return
	}
	m.created.WithLabelValues(invoiceType).Inc()
}

func (m *InvoiceMetrics) RecordPayment() {
	if m == nil {
		return
	}
	m.payments.Inc()
}

func (m *InvoiceMetrics) RecordFinalized() {
	if m == nil {
		return
	}
	m.finalized.Inc()
}

func (m *InvoiceMetrics) RecordStatusChange(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}
