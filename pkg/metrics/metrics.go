// Package metrics holds the Prometheus collectors of the gateway and the
// handler that exposes them.
//
// Collectors live on a private registry owned by *Metrics rather than the
// global default, so tests and multiple gateways in one process never clash.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "oauthgate"

// Metrics records flow outcomes, provider latency and HTTP traffic.
type Metrics struct {
	registry *prometheus.Registry

	loginsStarted    *prometheus.CounterVec
	callbacks        *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInflight prometheus.Gauge
}

// New creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		loginsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_started_total",
			Help:      "Login redirects issued to the identity provider.",
		}, []string{"provider"}),
		callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "callbacks_total",
			Help:      "Completed callbacks by outcome; outcome is success or a failure reason.",
		}, []string{"provider", "outcome"}),
		providerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Latency of outbound calls to the identity provider.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider", "operation", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_inflight_requests",
			Help:      "HTTP requests currently being served.",
		}),
	}

	var errs []error
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.loginsStarted,
		m.callbacks,
		m.providerDuration,
		m.httpRequests,
		m.httpDuration,
		m.httpInflight,
	} {
		if err := registerCollector(m.registry, c); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

func registerCollector(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) LoginStarted(provider string) {
	m.loginsStarted.WithLabelValues(provider).Inc()
}

// CallbackCompleted counts a finished callback. outcome is "success" or the
// failure reason.
func (m *Metrics) CallbackCompleted(provider, outcome string) {
	m.callbacks.WithLabelValues(provider, outcome).Inc()
}

// ProviderRequest observes one outbound provider call.
func (m *Metrics) ProviderRequest(provider, operation string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.providerDuration.WithLabelValues(provider, operation, result).Observe(d.Seconds())
}

// RouteFunc resolves the matched route pattern after the handler ran.
type RouteFunc func(r *http.Request) string

// Middleware records request counts, latency and in-flight requests. The
// route label comes from route so raw paths never explode label cardinality.
func (m *Metrics) Middleware(route RouteFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.httpInflight.Inc()
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			defer func() {
				m.httpInflight.Dec()
				pattern := ""
				if route != nil {
					pattern = route(r)
				}
				if pattern == "" {
					pattern = "unmatched"
				}
				status := rec.status
				if status == 0 {
					status = http.StatusOK
				}
				m.httpDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
				m.httpRequests.WithLabelValues(r.Method, pattern, strconv.Itoa(status)).Inc()
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }
