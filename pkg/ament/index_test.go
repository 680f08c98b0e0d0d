package ament_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/planlaunch/pkg/ament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixIndex_ShareDirectory(t *testing.T) {
	underlay := t.TempDir()
	overlay := t.TempDir()
	require.NoError(t, ament.Register(underlay, "temporal_planning"))
	require.NoError(t, ament.Register(underlay, "plansys2_bringup"))
	require.NoError(t, ament.Register(overlay, "temporal_planning"))

	idx := ament.NewPrefixIndex(overlay, "", underlay)

	t.Run("First Prefix Wins", func(t *testing.T) {
		dir, err := idx.ShareDirectory("temporal_planning")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(overlay, "share", "temporal_planning"), dir)
	})

	t.Run("Falls Through To Underlay", func(t *testing.T) {
		dir, err := idx.ShareDirectory("plansys2_bringup")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(underlay, "share", "plansys2_bringup"), dir)
	})

	t.Run("Missing Package", func(t *testing.T) {
		_, err := idx.ShareDirectory("nav2_bringup")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ament.ErrPackageNotFound))

		var notFound *ament.PackageNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "nav2_bringup", notFound.Name)
		assert.Len(t, notFound.Prefixes, 2)
	})
}

func TestPrefixIndex_Executable(t *testing.T) {
	prefix := t.TempDir()
	require.NoError(t, ament.Register(prefix, "temporal_planning"))

	exe := filepath.Join(prefix, "lib", "temporal_planning", "move_agent_action_node")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))

	plain := filepath.Join(prefix, "lib", "temporal_planning", "README")
	require.NoError(t, os.WriteFile(plain, []byte("docs"), 0o644))

	idx := ament.NewPrefixIndex(prefix)

	path, err := idx.Executable("temporal_planning", "move_agent_action_node")
	require.NoError(t, err)
	assert.Equal(t, exe, path)

	_, err = idx.Executable("temporal_planning", "README")
	assert.ErrorIs(t, err, ament.ErrExecutableNotFound)

	_, err = idx.Executable("temporal_planning", "missing_node")
	assert.ErrorIs(t, err, ament.ErrExecutableNotFound)

	_, err = idx.Executable("other_pkg", "missing_node")
	assert.ErrorIs(t, err, ament.ErrPackageNotFound)
}

func TestFromPathList(t *testing.T) {
	list := "/opt/ros/humble" + string(os.PathListSeparator) + "/ws/install/temporal_planning"
	idx := ament.FromPathList(list)
	assert.Equal(t, []string{"/opt/ros/humble", "/ws/install/temporal_planning"}, idx.Prefixes())

	empty := ament.FromPathList("")
	_, err := empty.Prefix("temporal_planning")
	assert.ErrorIs(t, err, ament.ErrPackageNotFound)
	assert.Contains(t, err.Error(), "no prefixes configured")
}

func TestMemoryIndex(t *testing.T) {
	idx := ament.NewMemoryIndex().
		Add("/opt/ros", "plansys2_bringup").
		Add("/ws/install", "temporal_planning", "move_agent_action_node")

	assert.Equal(t, []string{"plansys2_bringup", "temporal_planning"}, idx.Packages())

	dir, err := idx.ShareDirectory("temporal_planning")
	require.NoError(t, err)
	assert.Equal(t, "/ws/install/share/temporal_planning", dir)

	exe, err := idx.Executable("temporal_planning", "move_agent_action_node")
	require.NoError(t, err)
	assert.Equal(t, "/ws/install/lib/temporal_planning/move_agent_action_node", exe)

	_, err = idx.Executable("temporal_planning", "unload_empty_box_from_carrier_action_node")
	assert.ErrorIs(t, err, ament.ErrExecutableNotFound)

	_, err = idx.ShareDirectory("nope")
	assert.ErrorIs(t, err, ament.ErrPackageNotFound)
}
