package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/planlaunch/pkg/adapters/sqlite"
	"github.com/aretw0/planlaunch/pkg/domain"
	"github.com/aretw0/planlaunch/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_Contract(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "runs.db"))
	ports.RunStoreContract(t, store)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	first, err := sqlite.Open(path)
	require.NoError(t, err)
	run := &domain.Run{ID: "persisted", Namespace: "robot1", Status: domain.RunRunning, StartedAt: time.Now()}
	require.NoError(t, first.Save(ctx, run))
	require.NoError(t, first.Close())

	second := openStore(t, path)
	loaded, err := second.Load(ctx, "persisted")
	require.NoError(t, err)
	assert.Equal(t, "robot1", loaded.Namespace)
}

func TestSQLiteStore_Validation(t *testing.T) {
	_, err := sqlite.Open("  ")
	assert.Error(t, err)

	store := openStore(t, filepath.Join(t.TempDir(), "runs.db"))
	err = store.Save(context.Background(), &domain.Run{})
	assert.Error(t, err)

	var nilStore *sqlite.Store
	assert.NoError(t, nilStore.Close())
}
