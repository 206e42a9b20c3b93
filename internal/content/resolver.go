package content

import (
	"fmt"
	"strings"
)

// DefaultIndex is served for requests naming a directory.
const DefaultIndex = "index.html"

// Resolver maps request paths to stored resources.
type Resolver struct {
	store Store
	index string
}

// NewResolver creates a resolver over store. An empty index falls back to DefaultIndex.
func NewResolver(store Store, index string) *Resolver {
	if index == "" {
		index = DefaultIndex
	}
	return &Resolver{store: store, index: index}
}

// Resolve returns the resource path that satisfies requested, or ErrNotFound.
// A path ending in "/" is rewritten to the index resource of that directory.
// Relative paths and paths with ".." segments never resolve.
func (r *Resolver) Resolve(requested string) (string, error) {
	if !strings.HasPrefix(requested, "/") || hasDotDot(requested) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, requested)
	}

	p := requested
	if strings.HasSuffix(p, "/") {
		p += r.index
	}

	if !r.store.Exists(p) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return p, nil
}

func hasDotDot(p string) bool {
	if !strings.Contains(p, "..") {
		return false
	}
	for _, seg := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}
