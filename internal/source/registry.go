package source

import (
	"fmt"
	"sort"

	"SentimentExporter/internal/ports"
)

// Adapter kinds accepted in configuration.
const (
	KindHTMLTable = "html-table"
	KindJSONAPI   = "json-api"
)

// Registry keeps a mapping from configured source names to their adapters.
type Registry struct {
	adapters map[string]ports.SourceAdapter
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: map[string]ports.SourceAdapter{}}
}

// Register adds or replaces an adapter under its Name.
func (r *Registry) Register(adapter ports.SourceAdapter) {
	if r.adapters == nil {
		r.adapters = map[string]ports.SourceAdapter{}
	}
	r.adapters[adapter.Name()] = adapter
}

// Resolve returns an adapter by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.SourceAdapter, error) {
	if adapter, ok := r.adapters[name]; ok {
		return adapter, nil
	}
	return nil, fmt.Errorf("source %s is not registered", name)
}

// Names lists registered sources alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
