package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/colornode/internal/events"
)

// sseBuffer bounds how far a slow client may fall behind before events
// are dropped for it.
const sseBuffer = 16

// registerSSERoutes mounts /api/events. A client first receives the
// current color as color-applied, then every applied or rejected color.
func (s *Server) registerSSERoutes() {
	if s.eventBus == nil || s.options.Dispatcher == nil {
		return
	}

	sse.Register(s.api, huma.Operation{
		OperationID: "color-events",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Color Events",
		Description: "Server-Sent Events for applied and rejected colors",
		Tags:        []string{"events"},
	}, map[string]any{
		"color-applied":  events.ColorAppliedEvent{},
		"color-rejected": events.ColorRejectedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		ch := make(chan any, sseBuffer)
		defer events.Forward[events.ColorAppliedEvent](s.eventBus, ch)()
		defer events.Forward[events.ColorRejectedEvent](s.eventBus, ch)()

		id := 1
		if err := send(sse.Message{ID: id, Data: s.snapshot()}); err != nil {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-ch:
				id++
				if err := send(sse.Message{ID: id, Data: ev}); err != nil {
					s.logger.Debug("SSE client gone", "error", err)
					return
				}
			}
		}
	})
}

// snapshot describes the current strip state as a ColorAppliedEvent.
func (s *Server) snapshot() events.ColorAppliedEvent {
	array := s.options.Dispatcher.Array()
	c := array.Current()
	return events.ColorAppliedEvent{
		Color:     c,
		Hex:       c.String(),
		Positions: array.Len(),
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
