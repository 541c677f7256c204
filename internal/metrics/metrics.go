// Package metrics provides Prometheus metrics for the paddock engine.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/example/paddock/internal/ports/secondary"
)

const defaultNamespace = "paddock"

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithRegistry registers the metrics on registry instead of a private one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *Recorder) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// WithHistogramBuckets sets custom buckets for latency histograms, in seconds.
func WithHistogramBuckets(buckets []float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.buckets = buckets
		}
	}
}

// Recorder implements secondary.MetricsRecorder on Prometheus collectors.
type Recorder struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	attributionGaps     *prometheus.CounterVec
	aggregations        *prometheus.CounterVec
	aggregationDuration *prometheus.HistogramVec
	penaltyWrites       *prometheus.CounterVec
	storeErrors         *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

// New creates a Recorder. Without WithRegistry it registers on a fresh
// registry, so several recorders can coexist in tests.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: defaultNamespace,
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}

	auto := promauto.With(r.registry)

	r.attributionGaps = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "attribution_gaps_total",
		Help:      "Penalty links left out of the grouped view, by reason",
	}, []string{"reason"})

	r.aggregations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "aggregations_total",
		Help:      "Derived view computations by view and outcome",
	}, []string{"view", "outcome"})

	r.aggregationDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "aggregation_duration_seconds",
		Help:      "Time to compute a derived view",
		Buckets:   r.buckets,
	}, []string{"view"})

	r.penaltyWrites = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "penalty_writes_total",
		Help:      "Penalty write operations by operation and outcome",
	}, []string{"operation", "outcome"})

	r.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "store_errors_total",
		Help:      "Failed relation store calls by kind",
	}, []string{"kind"})

	r.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	r.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   r.buckets,
	}, []string{"route", "method"})

	return r
}

// Registry returns the registry the collectors live on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// AttributionGap counts one unattributed penalty link.
func (r *Recorder) AttributionGap(reason string) {
	r.attributionGaps.WithLabelValues(reason).Inc()
}

// Aggregation records one derived view computation.
func (r *Recorder) Aggregation(view string, duration time.Duration, err error) {
	r.aggregations.WithLabelValues(view, outcome(err)).Inc()
	r.aggregationDuration.WithLabelValues(view).Observe(duration.Seconds())
}

// PenaltyWrite records one penalty write.
func (r *Recorder) PenaltyWrite(operation string, err error) {
	r.penaltyWrites.WithLabelValues(operation, outcome(err)).Inc()
}

// StoreError counts one failed store call.
func (r *Recorder) StoreError(kind string) {
	r.storeErrors.WithLabelValues(kind).Inc()
}

// HTTPRequest records one served request.
func (r *Recorder) HTTPRequest(route, method string, status int, duration time.Duration) {
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var _ secondary.MetricsRecorder = (*Recorder)(nil)
