// AngelaMos | 2026
// metrics.go

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services and middleware depend on.
type Recorder interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	RecordVendorFailure(vendor, operation string)
	RecordMediaCleanupFailure(reason string)
	RecordCartAdd(quantity int)
	RecordRateLimited(bucket string)
}

type Collector struct {
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	vendorFailures *prometheus.CounterVec
	mediaCleanup   *prometheus.CounterVec
	cartUnits      prometheus.Counter
	rateLimited    *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		vendorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vendor_failures_total",
			Help:      "Failed calls to the identity provider and media store.",
		}, []string{"vendor", "operation"}),
		mediaCleanup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_cleanup_failures_total",
			Help:      "Best-effort image deletions that failed.",
		}, []string{"reason"}),
		cartUnits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_units_added_total",
			Help:      "Units added to carts.",
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected with 429 by limiter bucket.",
		}, []string{"bucket"}),
	}

	reg.MustRegister(
		c.requests,
		c.latency,
		c.vendorFailures,
		c.mediaCleanup,
		c.cartUnits,
		c.rateLimited,
	)

	return c
}

// RegisterRuntime adds the Go runtime and process collectors.
func RegisterRuntime(reg prometheus.Registerer) {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func (c *Collector) RecordHTTPRequest(
	method, route string,
	status int,
	duration time.Duration,
) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordVendorFailure(vendor, operation string) {
	c.vendorFailures.WithLabelValues(vendor, operation).Inc()
}

func (c *Collector) RecordMediaCleanupFailure(reason string) {
	c.mediaCleanup.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordCartAdd(quantity int) {
	c.cartUnits.Add(float64(quantity))
}

func (c *Collector) RecordRateLimited(bucket string) {
	c.rateLimited.WithLabelValues(bucket).Inc()
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Used when metrics are disabled and in tests.
type Nop struct{}

func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
func (Nop) RecordVendorFailure(string, string)                   {}
func (Nop) RecordMediaCleanupFailure(string)                     {}
func (Nop) RecordCartAdd(int)                                    {}
func (Nop) RecordRateLimited(string)                             {}
