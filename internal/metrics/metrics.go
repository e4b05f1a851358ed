// Package metrics provides Prometheus instrumentation for the pricing engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RecalculationsTotal counts recalculation runs by kind (simulate, commit) and outcome.
	RecalculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_recalculations_total",
		Help: "Total number of recalculation runs",
	}, []string{"kind", "rounding_mode", "outcome"})

	// RecalculationDuration tracks how long a run takes end to end.
	RecalculationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_recalculation_duration_seconds",
		Help:    "Recalculation duration in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"kind"})

	// RecalculationItemsTotal counts per-item outcomes of committed recalculations.
	RecalculationItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_recalculation_items_total",
		Help: "Items processed by committed recalculations, by status",
	}, []string{"status"})

	// LedgerAppendsTotal counts ledger entries appended, by reason source.
	LedgerAppendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_ledger_appends_total",
		Help: "Total price ledger entries appended",
	}, []string{"source"})

	// RateLookupsTotal counts effective-rate lookups by result (hit, miss, not_found).
	RateLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_rate_lookups_total",
		Help: "Exchange rate lookups",
	}, []string{"result"})

	// RoundingConfigVersion exposes the version of the rounding config in effect.
	RoundingConfigVersion = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pricing_rounding_config_version",
		Help: "Version of the rounding configuration currently loaded",
	})

	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns a Gin middleware that records request metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// The route pattern keeps label cardinality bounded.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
