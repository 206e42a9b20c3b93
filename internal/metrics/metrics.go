// Package metrics holds the Prometheus collectors for requests and color changes.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/smazurov/colornode/internal/colors"
)

const namespace = "colornode"

// Metrics owns a private registry so instances never collide on the global
// default registry.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	colorsApplied *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	channel       *prometheus.GaugeVec
}

// New creates the collectors alongside the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Requests handled by the content dispatcher",
		}, []string{"method", "status"}),
		colorsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "colors_applied_total",
			Help:      "Colors written to the LED array",
		}, []string{"source"}),
		rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "color_rejections_total",
			Help:      "Submitted colors that were not applied",
		}, []string{"reason"}),
		channel: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "color_channel",
			Help:      "Current channel intensity of the LED array (0-255)",
		}, []string{"channel"}),
	}
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// knownMethods bounds the method label; anything else is counted as "other".
var knownMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
	http.MethodConnect: true,
	http.MethodTrace:   true,
}

func methodLabel(method string) string {
	if knownMethods[method] {
		return method
	}
	return "other"
}

// RecordRequest counts a dispatched request.
func (m *Metrics) RecordRequest(method string, status int) {
	m.requests.WithLabelValues(methodLabel(method), strconv.Itoa(status)).Inc()
}

// RecordApplied counts an applied color and updates the channel gauges.
func (m *Metrics) RecordApplied(c colors.Color, source string) {
	m.colorsApplied.WithLabelValues(source).Inc()
	m.channel.WithLabelValues("red").Set(float64(c.R))
	m.channel.WithLabelValues("green").Set(float64(c.G))
	m.channel.WithLabelValues("blue").Set(float64(c.B))
}

// RecordRejected counts a rejected color.
func (m *Metrics) RecordRejected(reason string) {
	m.rejections.WithLabelValues(reason).Inc()
}
