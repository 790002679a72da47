// Package metrics exposes submission and HTTP metrics through Prometheus.
// Each Recorder owns a private registry so tests and multiple hosts never
// collide on the default one.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/submit"
)

const namespace = "formflow"

// Recorder collects metrics. It implements submit.Observer.
type Recorder struct {
	registry *prometheus.Registry

	submissions        *prometheus.CounterVec
	inflight           *prometheus.GaugeVec
	duration           *prometheus.HistogramVec
	validationFailures *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var _ submit.Observer = (*Recorder)(nil)

// New builds a Recorder with its collectors registered. Process and Go
// runtime collectors are included when withRuntime is set.
func New(withRuntime bool) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Finished submissions by form and outcome.",
		}, []string{"form", "outcome"}),
		inflight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "submissions_inflight",
			Help:      "Submissions currently awaiting their operation.",
		}, []string{"form"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time spent in the submission operation.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		}, []string{"form"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Submissions blocked by validation.",
		}, []string{"form"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "route"}),
	}
	r.registry.MustRegister(
		r.submissions,
		r.inflight,
		r.duration,
		r.validationFailures,
		r.httpRequests,
		r.httpDuration,
	)
	if withRuntime {
		r.registry.MustRegister(
			prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
			prometheus.NewGoCollector(),
		)
	}
	return r
}

// Registry returns the private registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) SubmissionStarted(formID string) {
	r.inflight.WithLabelValues(formID).Inc()
}

func (r *Recorder) SubmissionFinished(formID string, status form.Status, elapsed time.Duration) {
	r.inflight.WithLabelValues(formID).Dec()
	r.submissions.WithLabelValues(formID, string(status)).Inc()
	r.duration.WithLabelValues(formID).Observe(elapsed.Seconds())
}

func (r *Recorder) ValidationFailed(formID string) {
	r.validationFailures.WithLabelValues(formID).Inc()
}

// Instrument wraps next with request metrics. route names the handler so
// path parameters do not explode label cardinality.
func (r *Recorder) Instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, req)
		method := strings.ToUpper(req.Method)
		r.httpRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		r.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
