package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/planlaunch/pkg/domain"
	"github.com/aretw0/planlaunch/pkg/ports"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

const (
	// unlockScript deletes the key only if we still own it.
	unlockScript = `
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`
	// refreshScript extends the lease only if we still own it.
	refreshScript = `
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("pexpire", KEYS[1], ARGV[2])
		else
			return 0
		end
	`
)

// minRefreshInterval bounds the keep-alive ticker for very short leases.
const minRefreshInterval = time.Millisecond

// Locker implements ports.NamespaceLocker using Redis.
type Locker struct {
	client *backend.Client
	prefix string
}

// NewLocker creates a new Redis locker.
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{
		client: client,
		prefix: prefix,
	}
}

func (l *Locker) key(namespace string) string {
	return l.prefix + "lock:" + namespace
}

// Lock acquires the lease for a namespace using Redis SET NX PX.
// It does not wait: a held lease fails with domain.ErrNamespaceBusy.
// With ttl > 0 the lease is refreshed every ttl/3 until the UnlockFunc runs,
// so a crashed launcher frees its namespace after at most ttl.
func (l *Locker) Lock(ctx context.Context, namespace string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.key(namespace)
	val := uuid.NewString()

	ok, err := l.client.SetNX(ctx, lockKey, val, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error acquiring lease: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNamespaceBusy, namespace)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	if ttl > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.keepAlive(lockKey, val, ttl, stop)
		}()
	}

	var once sync.Once
	return func(ctx context.Context) error {
		var err error
		once.Do(func() {
			close(stop)
			wg.Wait()
			err = l.client.Eval(ctx, unlockScript, []string{lockKey}, val).Err()
		})
		return err
	}, nil
}

func (l *Locker) keepAlive(lockKey, val string, ttl time.Duration, stop <-chan struct{}) {
	interval := max(ttl/3, minRefreshInterval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			// Errors are tolerated: the next tick retries, and the lease
			// simply expires if Redis stays unreachable.
			_ = l.client.Eval(ctx, refreshScript, []string{lockKey}, val, ttl.Milliseconds()).Err()
			cancel()
		}
	}
}
