package client

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shapeshift_client",
			Name:      "requests_total",
			Help:      "Requests sent to the ShapeShift API by endpoint, method and outcome.",
		},
		[]string{"endpoint", "method", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shapeshift_client",
			Name:      "request_duration_seconds",
			Help:      "Round-trip latency of ShapeShift API requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)
)

// metricsTransport counts and times every round trip.
type metricsTransport struct {
	base     http.RoundTripper
	basePath string
}

func (mt *metricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	endpoint := endpointLabel(mt.basePath, req.URL.EscapedPath())
	start := time.Now()
	resp, err := mt.base.RoundTrip(req)
	requestDuration.WithLabelValues(endpoint, req.Method).Observe(time.Since(start).Seconds())
	requestsTotal.WithLabelValues(endpoint, req.Method, outcome(resp, err)).Inc()
	return resp, err
}

// endpointLabel keeps only the literal first segment below the base path so
// addresses and keys never become label values.
func endpointLabel(basePath, path string) string {
	rel := strings.TrimPrefix(path, strings.TrimRight(basePath, "/"))
	rel = strings.TrimLeft(rel, "/")
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		rel = rel[:i]
	}
	if rel == "" {
		return "root"
	}
	return rel
}

func outcome(resp *http.Response, err error) string {
	if err != nil {
		return "transport_error"
	}
	return strconv.Itoa(resp.StatusCode/100) + "xx"
}
