package search

import (
	"fmt"

	"NewsClipper/internal/ports"
)

// Registry keeps a mapping from source names to their implementations.
type Registry struct {
	sources map[string]ports.SearchSource
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]ports.SearchSource{}}
}

// Register adds or replaces a search source implementation.
func (r *Registry) Register(source ports.SearchSource) {
	if r.sources == nil {
		r.sources = map[string]ports.SearchSource{}
	}
	r.sources[source.Name()] = source
}

// Resolve returns a source by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.SearchSource, error) {
	if source, ok := r.sources[name]; ok {
		return source, nil
	}
	return nil, fmt.Errorf("search source %s is not registered", name)
}
