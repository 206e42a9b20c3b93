package api

import (
	"net/http"

	"github.com/smazurov/colornode/internal/dispatch"
	"github.com/smazurov/colornode/internal/events"
	"github.com/smazurov/colornode/internal/led"
)

// Options wires the API server to the rest of the node.
type Options struct {
	Dispatcher     *dispatch.Dispatcher // catch-all handler and color sink
	EventBus       *events.Bus
	LEDController  led.Controller // optional board LED access
	MetricsHandler http.Handler   // optional Prometheus handler
}
