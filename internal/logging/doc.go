// Package logging hands out per-module slog loggers whose levels can be
// changed at runtime.
//
// Each record goes to stdout (text or JSON), to journald when it is
// reachable, and to a RingBuffer read by GET /api/logs:
//
//	logging.Initialize(logging.Config{
//		Level:   "info",
//		Modules: map[string]string{"dispatch": "debug"},
//	})
//	logging.GetLogger("dispatch").Debug("Resolved resource", "path", "/index.html")
//
// Journal fields are upper-cased attribute keys plus
// SYSLOG_IDENTIFIER=colornode, so one module can be followed with
//
//	journalctl -t colornode MODULE=led
package logging
