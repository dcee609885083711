// Package metrics exposes the console's Prometheus instruments.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "tryonadmin"

// Metrics groups the console's instruments on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	// PollsTotal counts poll runs by outcome.
	PollsTotal *prometheus.CounterVec

	// PollDuration is the platform round trip in seconds.
	PollDuration prometheus.Histogram

	// CollectionSize is the record count before filtering.
	CollectionSize prometheus.Gauge

	// StaleResponses counts replaces discarded for an old sequence number.
	StaleResponses prometheus.Counter

	// ViewRecomputations counts derived-view rebuilds.
	ViewRecomputations prometheus.Counter

	// StreamAppends counts synthetic records appended.
	StreamAppends prometheus.Counter

	// HTTPRequests counts console API requests.
	HTTPRequests *prometheus.CounterVec
}

// New creates the instruments on a fresh registry, along with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PollsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "polls_total",
				Help:      "Log polls by outcome",
			},
			[]string{"outcome"},
		),
		PollDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "poll_duration_seconds",
				Help:      "Duration of getAllLogs round trips",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		CollectionSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "log_collection_size",
				Help:      "Number of log records held before filtering",
			},
		),
		StaleResponses: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "stale_poll_responses_total",
				Help:      "Poll responses discarded because a newer one was applied",
			},
		),
		ViewRecomputations: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "view_recomputations_total",
				Help:      "Times the filtered and sorted view was rebuilt",
			},
		),
		StreamAppends: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "stream_appends_total",
				Help:      "Synthetic log records appended in streaming mode",
			},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "Console API requests by method and status",
			},
			[]string{"method", "status"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObservePoll records one poll outcome ("success", "error" or "discarded")
// and its duration.
func (m *Metrics) ObservePoll(outcome string, d time.Duration) {
	m.PollsTotal.WithLabelValues(outcome).Inc()
	m.PollDuration.Observe(d.Seconds())
}

// ObserveRequest counts one console API request.
func (m *Metrics) ObserveRequest(method string, status int) {
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// ObserveStreamAppend counts one synthetic record.
func (m *Metrics) ObserveStreamAppend() {
	m.StreamAppends.Inc()
}

// SetCollectionSize updates the collection gauge.
func (m *Metrics) SetCollectionSize(n int) {
	m.CollectionSize.Set(float64(n))
}

// TableObserver adapts m to the log table's observer hooks.
func (m *Metrics) TableObserver() *TableObserver {
	return &TableObserver{m: m}
}

// TableObserver forwards controller events to the metrics.
type TableObserver struct {
	m *Metrics
}

func (o *TableObserver) CollectionSize(n int) {
	o.m.SetCollectionSize(n)
}

func (o *TableObserver) ViewRecomputed() {
	o.m.ViewRecomputations.Inc()
}

func (o *TableObserver) StaleReplaceDiscarded() {
	o.m.StaleResponses.Inc()
}
