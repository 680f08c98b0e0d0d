package testutils

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/aretw0/planlaunch/pkg/ament"
	"github.com/stretchr/testify/require"
)

var (
	buildOnce sync.Once
	buildDir  string
	buildErr  error
	buildOut  []byte
)

// ProjectRoot walks up from the working directory until it finds go.mod.
func ProjectRoot(t *testing.T) string {
	t.Helper()

	root, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return root
		}
		parent := filepath.Dir(root)
		if parent == root {
			t.Fatal("could not find project root (go.mod)")
		}
		root = parent
	}
}

// ActionNodeBinary compiles the fake action node fixture once per test binary
// and returns the path to the executable.
func ActionNodeBinary(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("action node fixture relies on POSIX signals")
	}

	root := ProjectRoot(t)
	buildOnce.Do(func() {
		buildDir, buildErr = os.MkdirTemp("", "planlaunch-fixture-")
		if buildErr != nil {
			return
		}
		cmd := exec.Command("go", "build", "-o", filepath.Join(buildDir, "actionnode"), "./tests/fixtures/actionnode")
		cmd.Dir = root
		buildOut, buildErr = cmd.CombinedOutput()
	})
	require.NoError(t, buildErr, "failed to build action node fixture: %s", string(buildOut))
	return filepath.Join(buildDir, "actionnode")
}

// Workspace creates an install prefix in a temp dir with pkg registered and
// the fake action node installed under each executable name.
// It returns the prefix path.
func Workspace(t *testing.T, pkg string, executables ...string) string {
	t.Helper()

	prefix := t.TempDir()
	InstallPackage(t, prefix, pkg, executables...)
	return prefix
}

// InstallPackage registers pkg under an existing prefix and installs the
// fake action node as each executable.
func InstallPackage(t *testing.T, prefix, pkg string, executables ...string) {
	t.Helper()

	require.NoError(t, ament.Register(prefix, pkg))
	if len(executables) == 0 {
		return
	}

	bin, err := os.ReadFile(ActionNodeBinary(t))
	require.NoError(t, err)
	for _, exe := range executables {
		path := filepath.Join(prefix, "lib", pkg, exe)
		require.NoError(t, os.WriteFile(path, bin, 0o755))
	}
}
