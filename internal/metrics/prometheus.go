package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rewear"

// Prometheus implements Recorder on a private registry and instruments HTTP traffic.
type Prometheus struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	signUps      *prometheus.CounterVec
	logIns       *prometheus.CounterVec
	listings     *prometheus.CounterVec
	deleteDenied *prometheus.CounterVec
	imageOps     *prometheus.CounterVec
}

// NewPrometheus registers the application collectors plus Go and process collectors.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),

		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "route"}),
		signUps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "accounts",
			Name:      "sign_ups_total",
			Help:      "Sign-up attempts by outcome.",
		}, []string{"status"}),
		logIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "accounts",
			Name:      "log_ins_total",
			Help:      "Log-in attempts by outcome.",
		}, []string{"status"}),
		listings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "listings",
			Name:      "changes_total",
			Help:      "Listings created and deleted.",
		}, []string{"action"}),
		deleteDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "listings",
			Name:      "delete_denied_total",
			Help:      "Refused delete requests by reason.",
		}, []string{"reason"}),
		imageOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "image_operations_total",
			Help:      "Object storage calls by operation and outcome.",
		}, []string{"op", "status"}),
	}

	p.registry.MustRegister(
		p.httpInFlight,
		p.httpRequests,
		p.httpDuration,
		p.signUps,
		p.logIns,
		p.listings,
		p.deleteDenied,
		p.imageOps,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return p
}

// Registry exposes the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Instrument records request counts and latency labelled by chi route pattern.
func (p *Prometheus) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		p.httpInFlight.Inc()
		defer p.httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := routePattern(r)
		p.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		p.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (p *Prometheus) IncSignUp(status string) { p.signUps.WithLabelValues(status).Inc() }
func (p *Prometheus) IncLogIn(status string) { p.logIns.WithLabelValues(status).Inc() }
func (p *Prometheus) IncListingCreated() { p.listings.WithLabelValues("created").Inc() }
func (p *Prometheus) IncListingDeleted() { p.listings.WithLabelValues("deleted").Inc() }

func (p *Prometheus) IncListingDeleteDenied(reason string) {
	p.deleteDenied.WithLabelValues(reason).Inc()
}

func (p *Prometheus) IncImageOperation(op, status string) {
	p.imageOps.WithLabelValues(op, status).Inc()
}

// routePattern keeps label cardinality bounded by using the matched chi
// pattern instead of the raw path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
