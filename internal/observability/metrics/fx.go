package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

func provideHTTPMetrics() *HTTPMetrics {
	return NewHTTPMetrics(prometheus.DefaultRegisterer)
}

func provideInvoiceMetrics() *InvoiceMetrics {
	return NewInvoiceMetrics(prometheus.DefaultRegisterer)
}

// Module wires prometheus instruments for the application.
var Module = fx.Module("observability.metrics",
	fx.Provide(provideHTTPMetrics),
	fx.Provide(provideInvoiceMetrics),
)
