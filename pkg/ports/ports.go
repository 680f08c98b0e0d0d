package ports

import (
	"context"
	"time"

	"github.com/aretw0/planlaunch/pkg/domain"
	"github.com/aretw0/planlaunch/pkg/launch"
)

// SourceLoader loads the launch description stored at a location
// (a file path for file-backed loaders, any key for in-memory ones).
type SourceLoader interface {
	Load(ctx context.Context, location string) (*launch.Description, error)
}

// RunStore persists launch runs so they can be listed after the launcher exits.
type RunStore interface {
	// Save inserts or replaces the run keyed by run.ID.
	Save(ctx context.Context, run *domain.Run) error

	// Load retrieves a run by ID.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, id string) (*domain.Run, error)

	// List returns the stored runs, most recently started first.
	List(ctx context.Context) ([]domain.Run, error)
}

// UnlockFunc releases a lease acquired from a NamespaceLocker.
type UnlockFunc func(ctx context.Context) error

// NamespaceLocker grants exclusive leases on namespaces, so two launches of
// the same stack never share one.
type NamespaceLocker interface {
	// Lock acquires the lease for key or fails with domain.ErrNamespaceBusy.
	// Implementations with expiring leases keep them alive until UnlockFunc is called.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
