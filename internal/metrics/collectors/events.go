// Package collectors feeds metrics from the event bus.
package collectors

import (
	"github.com/smazurov/colornode/internal/events"
	"github.com/smazurov/colornode/internal/logging"
	"github.com/smazurov/colornode/internal/metrics"
)

// EventCollector records bus events into Metrics.
type EventCollector struct {
	metrics *metrics.Metrics
	bus     *events.Bus
	logger  logging.Logger
	unsubs  []func()
}

// NewEventCollector creates a collector. Call Start to subscribe.
func NewEventCollector(m *metrics.Metrics, bus *events.Bus) *EventCollector {
	return &EventCollector{
		metrics: m,
		bus:     bus,
		logger:  logging.GetLogger("metrics"),
	}
}

// Start subscribes to request and color events.
func (c *EventCollector) Start() {
	c.unsubs = append(c.unsubs,
		events.On(c.bus, func(e events.RequestServedEvent) {
			c.metrics.RecordRequest(e.Method, e.Status)
		}),
		events.On(c.bus, func(e events.ColorAppliedEvent) {
			c.metrics.RecordApplied(e.Color, e.Source)
		}),
		events.On(c.bus, func(e events.ColorRejectedEvent) {
			c.metrics.RecordRejected(e.Reason)
		}),
	)
	c.logger.Debug("Metrics event collector started")
}

// Stop unsubscribes from the bus.
func (c *EventCollector) Stop() {
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
	c.logger.Debug("Metrics event collector stopped")
}
