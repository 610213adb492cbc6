package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the engine's Prometheus instruments on a private
// registry so tests can build as many collectors as they like.
type Collector struct {
	registry       *prometheus.Registry
	swapsTotal     *prometheus.CounterVec
	swapDuration   *prometheus.HistogramVec
	quotesTotal    prometheus.Counter
	ledgerCalls    *prometheus.CounterVec
	ledgerDuration *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	issuedSupply   *prometheus.GaugeVec
}

// NewCollector builds a collector with all instruments registered.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		swapsTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "swap_attempts_total",
			Help: "Swap attempts by type and terminal status",
		}, []string{"swap_type", "status"}),
		swapDuration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "swap_duration_seconds",
			Help:    "End to end swap execution time",
			Buckets: prometheus.DefBuckets,
		}, []string{"swap_type"}),
		quotesTotal: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "swap_quotes_total",
			Help: "Quotes priced without execution",
		}),
		ledgerCalls: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_calls_total",
			Help: "Ledger RPC calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		ledgerDuration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_call_duration_seconds",
			Help:    "Ledger RPC round trip time",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		httpRequests: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "path", "status"}),
		httpDuration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request handling time",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		issuedSupply: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "issued_token_supply",
			Help: "Outstanding issued token supply as last reported",
		}, []string{"currency"}),
	}
}

// RecordSwap counts one finished swap attempt.
func (c *Collector) RecordSwap(swapType, status string, duration time.Duration) {
	c.swapsTotal.WithLabelValues(swapType, status).Inc()
	c.swapDuration.WithLabelValues(swapType).Observe(duration.Seconds())
}

// RecordQuote counts one standalone quote.
func (c *Collector) RecordQuote() {
	c.quotesTotal.Inc()
}

// RecordLedgerCall counts one ledger RPC round trip.
func (c *Collector) RecordLedgerCall(operation string, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.ledgerCalls.WithLabelValues(operation, outcome).Inc()
	c.ledgerDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordHTTPRequest counts one handled HTTP request.
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetIssuedSupply publishes the latest outstanding supply figure.
func (c *Collector) SetIssuedSupply(currency string, supply float64) {
	c.issuedSupply.WithLabelValues(currency).Set(supply)
}

// GetHandler exposes the registry for a /metrics route.
func (c *Collector) GetHandler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
