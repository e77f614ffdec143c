package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ecocompare/backend/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns the aggregation metrics and implements domain.MetricsRecorder
type Registry struct {
	reg              *prometheus.Registry
	PlatformFetches  *prometheus.CounterVec
	PlatformFetchSec *prometheus.HistogramVec
	Products         *prometheus.CounterVec
	AggregationSec   prometheus.Histogram
	CacheHits        prometheus.Counter
	HTTPRequests     *prometheus.CounterVec
}

// NewRegistry creates the metrics on a private prometheus registry
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ecocompare_platform_fetch_total",
		Help: "Marketplace searches by platform and outcome.",
	}, []string{"platform", "status"})
	fetchSec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ecocompare_platform_fetch_duration_seconds",
		Help:    "Marketplace search latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"platform"})
	products := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ecocompare_products_total",
		Help: "Products returned by kind.",
	}, []string{"kind"})
	aggregationSec := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ecocompare_aggregation_duration_seconds",
		Help:    "End-to-end aggregation latency.",
		Buckets: prometheus.DefBuckets,
	})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ecocompare_cache_hits_total",
		Help: "Aggregations served from cache.",
	})
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ecocompare_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})

	r.MustRegister(fetches, fetchSec, products, aggregationSec, cacheHits, httpRequests)
	return &Registry{
		reg:              r,
		PlatformFetches:  fetches,
		PlatformFetchSec: fetchSec,
		Products:         products,
		AggregationSec:   aggregationSec,
		CacheHits:        cacheHits,
		HTTPRequests:     httpRequests,
	}
}

// ObservePlatformFetch records one marketplace search
func (r *Registry) ObservePlatformFetch(platform string, succeeded bool, elapsed time.Duration) {
	status := domain.FetchFailed
	if succeeded {
		status = domain.FetchSucceeded
	}
	r.PlatformFetches.WithLabelValues(platform, status).Inc()
	r.PlatformFetchSec.WithLabelValues(platform).Observe(elapsed.Seconds())
}

// ObserveAggregation records one completed aggregation
func (r *Registry) ObserveAggregation(stats domain.Stats, elapsed time.Duration, cacheHit bool) {
	r.Products.WithLabelValues("common").Add(float64(stats.Common))
	r.Products.WithLabelValues("amazon_only").Add(float64(stats.AmazonOnly))
	r.Products.WithLabelValues("flipkart_only").Add(float64(stats.FlipkartOnly))
	r.AggregationSec.Observe(elapsed.Seconds())
	if cacheHit {
		r.CacheHits.Inc()
	}
}

// ObserveHTTPRequest counts one served request
func (r *Registry) ObserveHTTPRequest(route string, code int) {
	r.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Handler serves the registry in the prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
