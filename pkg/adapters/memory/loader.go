package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/planlaunch/pkg/launch"
	"github.com/aretw0/planlaunch/pkg/ports"
)

// ErrSourceNotFound is returned when no description is registered at a location
// and there is no fallback loader.
var ErrSourceNotFound = errors.New("launch source not found")

// Loader implements ports.SourceLoader using an in-memory map of locations to
// descriptions. Locations it does not know are delegated to the fallback.
type Loader struct {
	mu       sync.RWMutex
	sources  map[string]func() *launch.Description
	fallback ports.SourceLoader
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithFallback delegates unknown locations to another loader (e.g. the YAML file loader).
func WithFallback(next ports.SourceLoader) LoaderOption {
	return func(l *Loader) {
		l.fallback = next
	}
}

// NewLoader creates an empty loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{sources: make(map[string]func() *launch.Description)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Register stores a description under location. Each Load returns a fresh
// description built by calling the generator.
func (l *Loader) Register(location string, generate func() *launch.Description) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sources[location] = generate
}

// Load returns the description registered at location.
func (l *Loader) Load(ctx context.Context, location string) (*launch.Description, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	generate, ok := l.sources[location]
	l.mu.RUnlock()

	if ok {
		return generate(), nil
	}
	if l.fallback != nil {
		return l.fallback.Load(ctx, location)
	}
	return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, location)
}

// Locations returns the registered locations in lexical order.
func (l *Loader) Locations() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	keys := make([]string, 0, len(l.sources))
	for k := range l.sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
