package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// DiagnosticsSize is the number of records kept for /api/logs.
const DiagnosticsSize = 500

// Logger is satisfied by *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds the global level, output format and per-module overrides.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
}

func (c Config) levelFor(module string) slog.Level {
	global := levelOr(c.Level, slog.LevelInfo)
	return levelOr(c.Modules[module], global)
}

type moduleLogger struct {
	level  *slog.LevelVar
	logger *slog.Logger
}

// registry owns every module logger so levels can change after they are
// handed out.
type registry struct {
	mu      sync.RWMutex
	cfg     Config
	ready   bool
	global  slog.LevelVar
	modules map[string]*moduleLogger
	buffer  *RingBuffer
	stdout  io.Writer
}

var std = newRegistry()

func newRegistry() *registry {
	return &registry{
		modules: make(map[string]*moduleLogger),
		stdout:  os.Stdout,
	}
}

// Initialize configures outputs and levels. Loggers obtained earlier keep
// their old outputs but still follow level changes; call GetLogger again to
// pick up the new sinks.
func Initialize(cfg Config) {
	std.initialize(cfg)
}

// SetLevels changes global and module levels without touching outputs.
func SetLevels(cfg Config) {
	std.setLevels(cfg)
}

// GetLogger returns the logger for module, creating it on first use.
func GetLogger(module string) *slog.Logger {
	return std.get(module)
}

// GetBuffer returns the diagnostics buffer, or nil before Initialize.
func GetBuffer() *RingBuffer {
	std.mu.RLock()
	defer std.mu.RUnlock()
	return std.buffer
}

func (r *registry) initialize(cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cfg = cfg
	r.ready = true
	if r.buffer == nil {
		r.buffer = NewRingBuffer(DiagnosticsSize)
	}

	r.global.Set(cfg.levelFor(""))
	for name, m := range r.modules {
		m.level.Set(cfg.levelFor(name))
		m.logger = r.newLogger(name, m.level)
	}
	slog.SetDefault(slog.New(r.handler(&r.global)))
}

func (r *registry) setLevels(cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cfg.Level = cfg.Level
	r.cfg.Modules = cfg.Modules
	r.global.Set(cfg.levelFor(""))
	for name, m := range r.modules {
		m.level.Set(cfg.levelFor(name))
	}
}

func (r *registry) get(module string) *slog.Logger {
	r.mu.RLock()
	m, ok := r.modules[module]
	r.mu.RUnlock()
	if ok {
		return m.logger
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.modules[module]; ok {
		return m.logger
	}

	level := &slog.LevelVar{}
	if r.ready {
		level.Set(r.cfg.levelFor(module))
	}
	m = &moduleLogger{level: level, logger: r.newLogger(module, level)}
	r.modules[module] = m
	return m.logger
}

// newLogger must be called with mu held.
func (r *registry) newLogger(module string, level slog.Leveler) *slog.Logger {
	return slog.New(r.handler(level)).With("module", module)
}

// handler builds stdout, journal and buffer sinks. Before Initialize only
// stdout text output is used.
func (r *registry) handler(level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	var sinks []slog.Handler
	if writable(r.stdout) {
		if r.cfg.Format == "json" {
			sinks = append(sinks, slog.NewJSONHandler(r.stdout, opts))
		} else {
			sinks = append(sinks, slog.NewTextHandler(r.stdout, opts))
		}
	}
	if r.ready && journalAvailable() {
		sinks = append(sinks, newJournalHandler(level))
	}
	if r.buffer != nil {
		sinks = append(sinks, newBufferHandler(level, r.buffer))
	}

	if len(sinks) == 1 {
		return sinks[0]
	}
	return fanout(sinks)
}

// writable reports whether w is an *os.File that is usable as an output:
// a terminal, pipe, socket or regular file. Other writers are assumed usable.
func writable(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return w != nil
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	mode := fi.Mode()
	return mode&(os.ModeCharDevice|os.ModeNamedPipe|os.ModeSocket) != 0 || mode.IsRegular()
}
