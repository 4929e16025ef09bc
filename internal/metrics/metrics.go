// Package metrics registers the Prometheus metrics exported on the metrics
// listener's /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lifecycle operation names used as the "operation" label.
const (
	OpRegister = "register"
	OpSearch   = "search"
	OpRelease  = "release"
)

var (
	HoldsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carina_holds_registered_total",
		Help: "Held items registered.",
	})

	ConsignmentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carina_consignments_created_total",
		Help: "Consignments created by a first hold registration.",
	})

	ItemsReleased = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carina_items_released_total",
		Help: "Held items released.",
	})

	OperationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carina_operation_errors_total",
		Help: "Lifecycle operations that failed in the store.",
	}, []string{"operation"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carina_http_requests_total",
		Help: "HTTP requests served.",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "carina_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Middleware records request counts and durations per normalised path.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := NormalizePath(r.URL.EscapedPath())

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
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

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// paramParents are path segments followed by a free-form parameter:
// consignment codes, item and user ids.
var paramParents = map[string]string{
	"consignments": "{code}",
	"items":        "{id}",
	"users":        "{id}",
}

// NormalizePath replaces parameter segments with placeholders so label
// cardinality stays bounded. Static assets collapse to one path. It expects
// the escaped path, in which a code containing "/" is still one segment.
func NormalizePath(path string) string {
	if strings.HasPrefix(path, "/static/") {
		return "/static/*"
	}

	segs := strings.Split(strings.Trim(path, "/"), "/")
	for i := 1; i < len(segs); i++ {
		placeholder, ok := paramParents[segs[i-1]]
		if !ok || segs[i] == "" {
			continue
		}
		segs[i] = placeholder
	}
	return "/" + strings.Join(segs, "/")
}
