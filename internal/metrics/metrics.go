package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the service's Prometheus collectors. All methods are safe to
// call on a nil *Registry, which records nothing.
type Registry struct {
	reg               *prometheus.Registry
	Generated         prometheus.Counter
	Failed            *prometheus.CounterVec
	CategorySource    *prometheus.CounterVec
	SearchFailures    *prometheus.CounterVec
	ComposeLatencySec prometheus.Histogram
}

// NewRegistry registers all collectors on a private registry.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	generated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "itinerary_generated_total",
		Help: "Itineraries composed successfully.",
	})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "itinerary_failed_total",
		Help: "Itinerary requests rejected or failed, by reason.",
	}, []string{"reason"})
	source := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "itinerary_category_source_total",
		Help: "Data source chosen per itinerary category.",
	}, []string{"category", "source"})
	searchFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "places_search_failures_total",
		Help: "Places searches that failed, by category.",
	}, []string{"category"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "itinerary_compose_seconds",
		Help:    "Time spent composing an itinerary.",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(generated, failed, source, searchFailures, latency)
	return &Registry{
		reg:               r,
		Generated:         generated,
		Failed:            failed,
		CategorySource:    source,
		SearchFailures:    searchFailures,
		ComposeLatencySec: latency,
	}
}

// ObserveGenerated records a successful composition and how long it took.
func (r *Registry) ObserveGenerated(seconds float64) {
	if r == nil {
		return
	}
	r.Generated.Inc()
	r.ComposeLatencySec.Observe(seconds)
}

// ObserveFailed records a rejected or failed request.
func (r *Registry) ObserveFailed(reason string) {
	if r == nil {
		return
	}
	r.Failed.WithLabelValues(reason).Inc()
}

// ObserveSource records which data source filled a category.
func (r *Registry) ObserveSource(category, source string) {
	if r == nil {
		return
	}
	r.CategorySource.WithLabelValues(category, source).Inc()
}

// ObserveSearchFailure records a places search that yielded nothing usable.
func (r *Registry) ObserveSearchFailure(category string) {
	if r == nil {
		return
	}
	r.SearchFailures.WithLabelValues(category).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
