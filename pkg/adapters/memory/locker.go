package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/planlaunch/pkg/domain"
	"github.com/aretw0/planlaunch/pkg/ports"
)

// Locker implements ports.NamespaceLocker within a single process.
// Leases never expire; ttl is ignored.
type Locker struct {
	mu    sync.Mutex
	held  map[string]uint64
	epoch uint64
}

// NewLocker creates an in-process locker.
func NewLocker() *Locker {
	return &Locker{held: make(map[string]uint64)}
}

// Lock acquires the lease for key or fails immediately with domain.ErrNamespaceBusy.
func (l *Locker) Lock(ctx context.Context, key string, _ time.Duration) (ports.UnlockFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[key]; busy {
		return nil, fmt.Errorf("%w: %s", domain.ErrNamespaceBusy, key)
	}
	l.epoch++
	token := l.epoch
	l.held[key] = token

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		// Only release the lease this call acquired.
		if l.held[key] == token {
			delete(l.held, key)
		}
		return nil
	}, nil
}
