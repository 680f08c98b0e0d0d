package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/planlaunch/pkg/adapters/memory"
	"github.com/aretw0/planlaunch/pkg/domain"
	"github.com/aretw0/planlaunch/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	run := &domain.Run{
		ID:        "r1",
		Arguments: map[string]string{"namespace": "a"},
		StartedAt: time.Now(),
		Processes: []domain.ProcessRecord{{Name: "n"}},
	}
	require.NoError(t, store.Save(ctx, run))

	run.Arguments["namespace"] = "mutated"
	run.Processes[0].Name = "mutated"

	loaded, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "a", loaded.Arguments["namespace"])
	assert.Equal(t, "n", loaded.Processes[0].Name)
}

func TestMemoryLocker_Contract(t *testing.T) {
	ports.NamespaceLockerContract(t, memory.NewLocker())
}

func TestMemoryLocker_StaleUnlock(t *testing.T) {
	ctx := context.Background()
	locker := memory.NewLocker()

	first, err := locker.Lock(ctx, "/ns", 0)
	require.NoError(t, err)
	require.NoError(t, first(ctx))

	second, err := locker.Lock(ctx, "/ns", 0)
	require.NoError(t, err)

	// Releasing the first lease twice must not free the second holder.
	require.NoError(t, first(ctx))
	_, err = locker.Lock(ctx, "/ns", 0)
	assert.ErrorIs(t, err, domain.ErrNamespaceBusy)

	require.NoError(t, second(ctx))
}
