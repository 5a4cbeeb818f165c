package obs

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	storeMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_mutations_total",
			Help: "Store mutations by collection and operation.",
		},
		[]string{"collection", "op"},
	)

	persistFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_persist_failures_total",
			Help: "Failed durable writes by storage key.",
		},
		[]string{"key"},
	)

	signIns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_sign_in_total",
			Help: "Sign-in attempts by result.",
		},
		[]string{"result"},
	)

	ready = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "darew_ready",
		Help: "1 when durable storage answered the last readiness check.",
	})

	initOnce sync.Once
)

// Init registers the metrics in the default registry. Safe to call repeatedly.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			httpInFlight, httpRequestsTotal, httpRequestDuration,
			storeMutations, persistFailures, signIns, ready,
		)
	})
}

// Handler serves the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StoreMutation counts one applied mutation.
func StoreMutation(collection, op string) {
	storeMutations.WithLabelValues(collection, op).Inc()
}

// PersistFailure counts a durable write that did not reach storage.
func PersistFailure(key string) {
	persistFailures.WithLabelValues(key).Inc()
}

// SignIn counts a sign-in attempt.
func SignIn(ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	signIns.WithLabelValues(result).Inc()
}

// SetReady publishes the latest readiness result.
func SetReady(ok bool) {
	if ok {
		ready.Set(1)
		return
	}
	ready.Set(0)
}

// Instrument records in-flight, count and latency per canonical path.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := CanonicalPath(r.URL.Path)
		method := r.Method

		httpInFlight.Inc()
		defer httpInFlight.Dec()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		status := strconv.Itoa(sw.code)
		httpRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	})
}

var idCollections = map[string]struct{}{
	"services":  {},
	"projects":  {},
	"inquiries": {},
	"users":     {},
}

// CanonicalPath folds record identifiers out of admin paths so metric label
// cardinality stays bounded.
func CanonicalPath(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	if raw == "" {
		return "/"
	}
	parts := strings.Split(raw, "/")
	// "", "v1", "admin", collection, id, ...
	if len(parts) >= 5 && parts[1] == "v1" && parts[2] == "admin" {
		if _, ok := idCollections[parts[3]]; ok && parts[4] != "" {
			parts[4] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
