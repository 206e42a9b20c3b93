package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/smazurov/colornode/internal/colors"
	"github.com/smazurov/colornode/internal/events"
)

const wsWriteTimeout = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsCommand is the only message a client sends.
type wsCommand struct {
	Color string `json:"color"`
}

// registerWebSocketRoutes mounts /api/ws. On connect the client receives the
// current color, then every ColorAppliedEvent. Text frames of the form
// {"color":"#RRGGBB"} set the color.
func (s *Server) registerWebSocketRoutes() {
	if s.eventBus == nil || s.options.Dispatcher == nil {
		return
	}
	s.mux.HandleFunc("GET /api/ws", s.handleWebSocket)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	eventCh := make(chan any, 16)
	unsubscribe := events.Forward[events.ColorAppliedEvent](s.eventBus, eventCh)
	defer unsubscribe()

	if err := writeJSON(conn, s.snapshot()); err != nil {
		return
	}

	closed := make(chan struct{})
	go s.readCommands(conn, closed)

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case ev := <-eventCh:
			if err := writeJSON(conn, ev); err != nil {
				s.logger.Debug("WebSocket write failed", "error", err)
				return
			}
		}
	}
}

func (s *Server) readCommands(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd wsCommand
		if err := json.Unmarshal(data, &cmd); err != nil || cmd.Color == "" {
			continue
		}
		c, err := colors.Parse(cmd.Color)
		if err != nil {
			s.options.Dispatcher.Reject(cmd.Color, err, events.SourceAPI)
			continue
		}
		if err := s.options.Dispatcher.Apply(c, events.SourceAPI); err != nil {
			s.logger.Warn("Failed to apply color from WebSocket", "error", err)
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(v)
}
