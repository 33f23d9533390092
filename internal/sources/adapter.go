// Package sources defines the job board adapters. An adapter retrieves raw
// postings from a single external board and reports them in a common shape;
// all side effects (deduplication, normalization, embedding, persistence)
// belong to the ingestion orchestrator, never to the adapters themselves.
package sources

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RawPosting is one job listing exactly as a board reported it, before any
// normalization or persistence.
type RawPosting struct {
	Title          string
	Company        string
	URL            string
	RawDescription string
	Location       string
	Tags           []string
	IsRemote       bool
	PostedAt       *time.Time
}

// Valid reports whether the posting carries the fields every record must
// have before it can enter the pipeline.
func (p *RawPosting) Valid() bool {
	return strings.TrimSpace(p.Title) != "" &&
		strings.TrimSpace(p.Company) != "" &&
		strings.TrimSpace(p.URL) != "" &&
		strings.TrimSpace(p.RawDescription) != ""
}

// Adapter retrieves raw postings from one job board.
type Adapter interface {
	// Name returns the stable identifier for this source.
	Name() string
	// Fetch retrieves the board's current listings.
	Fetch(ctx context.Context) ([]RawPosting, error)
}

// UnavailableError indicates the board could not be reached.
type UnavailableError struct {
	Source string
	Cause  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Cause)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// FormatChangedError indicates the board responded but its payload no longer
// matches the structure the adapter expects.
type FormatChangedError struct {
	Source string
	Reason string
}

func (e *FormatChangedError) Error() string {
	return fmt.Sprintf("source %s format changed: %s", e.Source, e.Reason)
}

// Registry holds the configured adapters keyed by source name.
type Registry struct {
	adapters map[string]Adapter
	order    []string
}

// NewRegistry builds a registry from the given adapters. Duplicate names are
// skipped; registration order is preserved.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	for _, a := range adapters {
		name := a.Name()
		if _, exists := r.adapters[name]; exists {
			continue
		}
		r.adapters[name] = a
		r.order = append(r.order, name)
	}
	return r
}

// Get returns the adapter registered under name.
func (r *Registry) Get(name string) (Adapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}

// All returns every registered adapter in registration order.
func (r *Registry) All() []Adapter {
	out := make([]Adapter, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.adapters[name])
	}
	return out
}

// Names returns the registered source names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
