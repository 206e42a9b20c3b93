package logging

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// bufferHandler turns records into LogEntry values for the ring buffer.
type bufferHandler struct {
	scope
	buffer *RingBuffer
}

func newBufferHandler(level slog.Leveler, buffer *RingBuffer) *bufferHandler {
	return &bufferHandler{scope: scope{level: level}, buffer: buffer}
}

func (h *bufferHandler) Enabled(_ context.Context, l slog.Level) bool {
	return h.enabled(l)
}

func (h *bufferHandler) Handle(_ context.Context, r slog.Record) error {
	entry := LogEntry{
		Timestamp:  r.Time,
		Level:      levelName(r.Level),
		Module:     "app",
		Message:    r.Message,
		Attributes: map[string]any{},
	}
	h.each(r, func(path []string, v slog.Value) {
		if len(path) == 1 && path[0] == "module" {
			entry.Module = v.String()
			return
		}
		entry.Attributes[strings.Join(path, ".")] = plain(v)
	})
	h.buffer.Write(entry)
	return nil
}

func (h *bufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &bufferHandler{scope: h.withAttrs(attrs), buffer: h.buffer}
}

func (h *bufferHandler) WithGroup(name string) slog.Handler {
	return &bufferHandler{scope: h.withGroup(name), buffer: h.buffer}
}

// plain converts v into a JSON-friendly value.
func plain(v slog.Value) any {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
	}
	return v.Any()
}
