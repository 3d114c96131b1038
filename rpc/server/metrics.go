package server

import (
	"net/http"

	"github.com/VictoriaMetrics/metrics"
)

// NewMetricsHandler returns a handler that exposes all uKV metrics in the
// Prometheus text format, including go runtime and process metrics.
func NewMetricsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})
}
