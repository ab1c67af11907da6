package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string
	Port        int
}

// InitMetrics initializes the Prometheus metrics exporter.
// Returns the MeterProvider and an HTTP handler for the /metrics endpoint.
func InitMetrics(_ MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	exporter, err := promexporter.New()
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	handler := promhttp.Handler()

	return provider, handler, nil
}

// Core counters for the deal finance service.
var (
	PaymentsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dealfinance_payments_processed_total",
		Help: "Payments successfully allocated against financial terms.",
	})
	DealsFullyPaid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dealfinance_deals_fully_paid_total",
		Help: "Deals whose balance remaining crossed to zero.",
	})
	CommissionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dealfinance_commissions_created_total",
		Help: "Commission records created by the completion resolver.",
	})
	BonusesGranted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dealfinance_bonuses_granted_total",
		Help: "One-time onboarding bonuses granted to dealers.",
	})
)
