package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the HTTP surface.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all HTTP metrics registered.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "alvo_engine_http_requests_total",
			Help: "Total number of HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "alvo_engine_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method and path",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "path"}),
	}
}

// Instrument returns middleware that records a counter and duration sample
// per request. Only the first path segment is used as the label so ids in the
// URL do not blow up cardinality.
func (m *Metrics) Instrument() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			path := routeLabel(r.URL.Path)
			m.RequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			m.RequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// routeLabel collapses a request path to its first segment ("/buscar-detalhes",
// "/documento", ...) so path parameters never become label values.
func routeLabel(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	rest := path[1:]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return "/" + rest
}
