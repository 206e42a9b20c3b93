package logging

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/coreos/go-systemd/v22/journal"
)

// Identifier is the SYSLOG_IDENTIFIER attached to journal entries.
const Identifier = "colornode"

var journalAvailable = journal.Enabled

// journalHandler writes records to journald with upper-cased fields,
// e.g. MODULE=dispatch or REQUEST_ID=... .
type journalHandler struct {
	scope
}

func newJournalHandler(level slog.Leveler) *journalHandler {
	return &journalHandler{scope: scope{level: level}}
}

func (h *journalHandler) Enabled(_ context.Context, l slog.Level) bool {
	return h.enabled(l)
}

func (h *journalHandler) Handle(_ context.Context, r slog.Record) error {
	return journal.Send(r.Message, journalPriority(r.Level), h.fields(r))
}

func (h *journalHandler) fields(r slog.Record) map[string]string {
	fields := map[string]string{"SYSLOG_IDENTIFIER": Identifier}
	h.each(r, func(path []string, v slog.Value) {
		fields[strings.ToUpper(strings.Join(path, "_"))] = journalValue(v)
	})
	return fields
}

func (h *journalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &journalHandler{scope: h.withAttrs(attrs)}
}

func (h *journalHandler) WithGroup(name string) slog.Handler {
	return &journalHandler{scope: h.withGroup(name)}
}

func journalValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	}
	return v.String()
}
