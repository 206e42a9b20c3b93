// Package dispatch serves static resources and applies colors submitted with them.
package dispatch

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"slices"
	"time"

	"github.com/smazurov/colornode/internal/colors"
	"github.com/smazurov/colornode/internal/content"
	"github.com/smazurov/colornode/internal/events"
	"github.com/smazurov/colornode/internal/led"
)

// Form argument names.
const (
	ArgColor = "Color"
	ArgPlain = "plain"
)

// NotFoundBody is the body of the 404 sent for unresolved paths.
const NotFoundBody = "404: Not Found"

const maxFormMemory = 1 << 20

// Options holds the dispatcher collaborators.
type Options struct {
	Store    content.Store
	Resolver *content.Resolver
	Array    *led.Array
	EventBus *events.Bus
	Logger   *slog.Logger
}

// Dispatcher is the catch-all handler: it delivers the requested resource
// and, for POST requests, applies any submitted color to the LED array.
type Dispatcher struct {
	store    content.Store
	resolver *content.Resolver
	array    *led.Array
	eventBus *events.Bus
	logger   *slog.Logger
}

// New creates a dispatcher. A nil Resolver resolves against Store with the
// default index name.
func New(opts Options) *Dispatcher {
	resolver := opts.Resolver
	if resolver == nil {
		resolver = content.NewResolver(opts.Store, content.DefaultIndex)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		store:    opts.Store,
		resolver: resolver,
		array:    opts.Array,
		eventBus: opts.EventBus,
		logger:   logger,
	}
}

type formArg struct {
	name   string
	values []string
}

// ServeHTTP implements http.Handler.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The body has to be consumed before the response is written.
	var args []formArg
	if r.Method == http.MethodPost {
		args = d.readForm(r)
	}

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	d.serveResource(rec, r)

	for _, arg := range args {
		d.handleArg(arg)
	}

	events.Publish(d.eventBus, events.RequestServedEvent{
		Method:    r.Method,
		Path:      r.URL.Path,
		Status:    rec.status,
		Timestamp: now(),
	})
}

func (d *Dispatcher) readForm(r *http.Request) []formArg {
	err := r.ParseMultipartForm(maxFormMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		d.logger.Warn("Failed to parse form", "path", r.URL.Path, "error", err)
	}

	names := make([]string, 0, len(r.Form))
	for name := range r.Form {
		names = append(names, name)
	}
	slices.Sort(names)

	args := make([]formArg, 0, len(names))
	for _, name := range names {
		args = append(args, formArg{name: name, values: r.Form[name]})
	}
	return args
}

func (d *Dispatcher) serveResource(w http.ResponseWriter, r *http.Request) {
	name, err := d.resolver.Resolve(r.URL.Path)
	if err != nil {
		d.logger.Debug("Resource not found", "path", r.URL.Path, "error", err)
		writePlain(w, http.StatusNotFound, NotFoundBody)
		return
	}

	f, err := d.store.Open(name)
	if err != nil {
		d.logger.Error("Failed to open resource", "path", name, "error", err)
		writePlain(w, http.StatusNotFound, fmt.Sprintf("404: %v", err))
		return
	}
	defer f.Close()

	var modTime time.Time
	if info, statErr := f.Stat(); statErr == nil {
		modTime = info.ModTime()
	}

	w.Header().Set("Content-Type", content.TypeOf(name))
	http.ServeContent(w, r, path.Base(name), modTime, f)
}

func (d *Dispatcher) handleArg(arg formArg) {
	switch arg.name {
	case ArgColor:
		for _, value := range arg.values {
			c, err := colors.Decode(value)
			if err != nil {
				d.Reject(value, err, events.SourceForm)
				continue
			}
			if err := d.Apply(c, events.SourceForm); err != nil {
				d.logger.Error("Failed to apply color", "color", value, "error", err)
			}
		}
	case ArgPlain:
	default:
		d.logger.Debug("Unknown argument", "name", arg.name, "values", arg.values)
	}
}

// Apply writes c to every LED position and announces the outcome.
func (d *Dispatcher) Apply(c colors.Color, source string) error {
	if err := d.array.Apply(c); err != nil {
		events.Publish(d.eventBus, events.ColorRejectedEvent{
			Input:     c.String(),
			Reason:    events.ReasonDevice,
			Error:     err.Error(),
			Source:    source,
			Timestamp: now(),
		})
		return err
	}

	d.logger.Info("Color applied", "color", c.String(), "positions", d.array.Len(), "source", source)
	events.Publish(d.eventBus, events.ColorAppliedEvent{
		Color:     c,
		Hex:       c.String(),
		Positions: d.array.Len(),
		Source:    source,
		Timestamp: now(),
	})
	return nil
}

// Reject logs an input that could not be decoded and announces it.
func (d *Dispatcher) Reject(input string, err error, source string) {
	d.logger.Warn("Rejected color", "input", input, "source", source, "error", err)
	events.Publish(d.eventBus, events.ColorRejectedEvent{
		Input:     input,
		Reason:    events.RejectReason(err),
		Error:     err.Error(),
		Source:    source,
		Timestamp: now(),
	})
}

// Array returns the LED array colors are applied to.
func (d *Dispatcher) Array() *led.Array {
	return d.array
}

func writePlain(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", content.DefaultType)
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func now() string {
	return time.Now().Format(time.RFC3339)
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
