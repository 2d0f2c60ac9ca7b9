// Package metrics defines the Prometheus metrics for backend round trips
// made by the API client.
//
// A Recorder satisfies client.Observer. Metrics are only exported when a
// listen address is configured; otherwise they stay in-process.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mediconnect"

// Recorder holds the client request metrics.
type Recorder struct {
	// RequestsTotal counts completed round trips.
	// Labels:
	//   - method: HTTP method
	//   - resource: first path segment, e.g. "doctors" or "auth"
	//   - code: HTTP status, or "error" when no response arrived
	RequestsTotal *prometheus.CounterVec

	// RequestDuration measures round-trip latency.
	RequestDuration *prometheus.HistogramVec
}

// New registers the metrics with reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "client",
				Name:      "requests_total",
				Help:      "Total number of backend requests, by method, resource and status code.",
			},
			[]string{"method", "resource", "code"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "client",
				Name:      "request_duration_seconds",
				Help:      "Duration of backend requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "resource"},
		),
	}
}

// ObserveRequest records one round trip. Status 0 means the request never
// got a response.
func (r *Recorder) ObserveRequest(method, resource string, status int, elapsed time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	r.RequestsTotal.WithLabelValues(method, resource, code).Inc()
	r.RequestDuration.WithLabelValues(method, resource).Observe(elapsed.Seconds())
}

// Serve exposes g on addr under /metrics until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
