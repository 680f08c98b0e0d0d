package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/planlaunch/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("20060102150405.000000000")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Save and Load", func(t *testing.T) {
		run := &domain.Run{
			ID:        prefix + "-a",
			Namespace: "robot1",
			Arguments: map[string]string{"namespace": "robot1"},
			Status:    domain.RunRunning,
			StartedAt: base,
			Processes: []domain.ProcessRecord{
				{Name: "move_agent_action_node", FQN: "/robot1/move_agent_action_node", State: domain.ProcessRunning, PID: 42},
			},
		}
		require.NoError(t, store.Save(ctx, run), "Save should not return error")

		loaded, err := store.Load(ctx, run.ID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, run.ID, loaded.ID)
		assert.Equal(t, "robot1", loaded.Namespace)
		assert.Equal(t, domain.RunRunning, loaded.Status)
		assert.Equal(t, "robot1", loaded.Arguments["namespace"])
		assert.True(t, base.Equal(loaded.StartedAt))
		require.Len(t, loaded.Processes, 1)
		assert.Equal(t, 42, loaded.Processes[0].PID)
		assert.Nil(t, loaded.EndedAt)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		run, err := store.Load(ctx, prefix+"-a")
		require.NoError(t, err)

		run.Processes[0].State = domain.ProcessExited
		run.Finish(base.Add(time.Minute), false)
		require.NoError(t, store.Save(ctx, run))

		loaded, err := store.Load(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RunSucceeded, loaded.Status)
		require.NotNil(t, loaded.EndedAt)
		assert.True(t, base.Add(time.Minute).Equal(*loaded.EndedAt))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, prefix+"-missing")
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("List Newest First", func(t *testing.T) {
		later := &domain.Run{
			ID:        prefix + "-b",
			Status:    domain.RunRunning,
			StartedAt: base.Add(time.Hour),
		}
		require.NoError(t, store.Save(ctx, later))

		runs, err := store.List(ctx)
		require.NoError(t, err)

		var ids []string
		for _, r := range runs {
			if r.ID == prefix+"-a" || r.ID == prefix+"-b" {
				ids = append(ids, r.ID)
			}
		}
		assert.Equal(t, []string{prefix + "-b", prefix + "-a"}, ids)
	})
}

// NamespaceLockerContract verifies exclusive lease semantics.
func NamespaceLockerContract(t *testing.T, locker NamespaceLocker) {
	ctx := context.Background()

	t.Run("Exclusive", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, "/robot1", time.Second)
		require.NoError(t, err)

		_, err = locker.Lock(ctx, "/robot1", time.Second)
		assert.ErrorIs(t, err, domain.ErrNamespaceBusy)

		other, err := locker.Lock(ctx, "/robot2", time.Second)
		require.NoError(t, err, "different namespaces do not contend")
		require.NoError(t, other(ctx))

		require.NoError(t, unlock(ctx))

		again, err := locker.Lock(ctx, "/robot1", time.Second)
		require.NoError(t, err, "lease is available after unlock")
		require.NoError(t, again(ctx))
	})
}
