// Package exporters exposes collected metrics over HTTP.
package exporters

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smazurov/colornode/internal/metrics"
)

// HTTPHandler returns the Prometheus text exposition handler for m.
func HTTPHandler(m *metrics.Metrics) http.Handler {
	return promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{
		Registry: m.Registry(),
	})
}
