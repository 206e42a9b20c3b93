package logging

import (
	"context"
	"errors"
	"log/slog"
	"slices"
)

// fanout sends each record to every sink whose level admits it.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	return slices.ContainsFunc(f, func(h slog.Handler) bool { return h.Enabled(ctx, l) })
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// scope is the attribute and group context shared by the custom sinks.
type scope struct {
	level  slog.Leveler
	attrs  []attrBatch
	groups []string
}

// attrBatch keeps the groups that were open when the attributes were added.
type attrBatch struct {
	groups []string
	attrs  []slog.Attr
}

func (s scope) enabled(l slog.Level) bool {
	return l >= s.level.Level()
}

func (s scope) withAttrs(attrs []slog.Attr) scope {
	if len(attrs) == 0 {
		return s
	}
	s.attrs = append(slices.Clip(s.attrs), attrBatch{groups: s.groups, attrs: slices.Clone(attrs)})
	return s
}

func (s scope) withGroup(name string) scope {
	if name != "" {
		s.groups = append(slices.Clip(s.groups), name)
	}
	return s
}

// each visits the scope attributes then the record attributes, with groups
// expanded into a key path.
func (s scope) each(r slog.Record, fn func(path []string, v slog.Value)) {
	for _, b := range s.attrs {
		for _, a := range b.attrs {
			walk(b.groups, a, fn)
		}
	}
	r.Attrs(func(a slog.Attr) bool {
		walk(s.groups, a, fn)
		return true
	})
}

func walk(groups []string, a slog.Attr, fn func(path []string, v slog.Value)) {
	if a.Equal(slog.Attr{}) {
		return
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup && a.Key == "" {
		for _, ga := range v.Group() {
			walk(groups, ga, fn)
		}
		return
	}
	path := append(slices.Clip(groups), a.Key)
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			walk(path, ga, fn)
		}
		return
	}
	fn(path, v)
}
