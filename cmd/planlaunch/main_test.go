package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/planlaunch/pkg/adapters/sqlite"
	"github.com/aretw0/planlaunch/pkg/ament"
	"github.com/aretw0/planlaunch/pkg/domain"
	"github.com/aretw0/planlaunch/pkg/launch"
	"github.com/aretw0/planlaunch/pkg/planning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// workspace registers both packages under a temp prefix and points the
// environment at it.
func workspace(t *testing.T) string {
	t.Helper()
	prefix := t.TempDir()
	require.NoError(t, ament.Register(prefix, planning.Package))
	require.NoError(t, ament.Register(prefix, planning.BringupPackage))
	t.Setenv("AMENT_PREFIX_PATH", prefix)
	t.Setenv("PLANLAUNCH_STORE", "memory")
	return prefix
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDescribe_YAML(t *testing.T) {
	prefix := workspace(t)

	out, err := execute(t, "describe", "--format", "yaml", "namespace:=robot1")
	require.NoError(t, err)

	var plan launch.Plan
	require.NoError(t, yaml.Unmarshal([]byte(out), &plan))
	require.Len(t, plan.Processes, 6)
	assert.Equal(t, "plansys2", plan.Processes[0].Name)
	for _, p := range plan.Processes {
		assert.Equal(t, "robot1", p.Namespace)
	}
	model, ok := plan.Includes[0].Argument("model_file")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(prefix, "share", "temporal_planning")+"/pddl/domain_durative_actions.pddl", model)
}

func TestDescribe_JSONWithArgFlag(t *testing.T) {
	workspace(t)

	out, err := execute(t, "describe", "-f", "json", "--arg", "namespace:=fleet")
	require.NoError(t, err)

	var plan launch.Plan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, "/fleet/unload_empty_box_from_carrier_action_node", plan.Processes[5].FullyQualifiedName())
}

func TestDescribe_Markdown(t *testing.T) {
	workspace(t)

	out, err := execute(t, "describe", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "# Launch plan")
	assert.Contains(t, out, "| 2 | /move_agent_action_node | temporal_planning | move_agent_action_node | screen |")
}

func TestDescribe_Errors(t *testing.T) {
	workspace(t)

	_, err := execute(t, "describe", "namespace")
	assert.Error(t, err, "arguments need name:=value")

	_, err = execute(t, "describe", "--format", "toml")
	assert.Error(t, err)

	_, err = execute(t, "--prefix-path", t.TempDir(), "describe")
	assert.ErrorIs(t, err, ament.ErrPackageNotFound)
}

func TestArgs(t *testing.T) {
	workspace(t)

	out, err := execute(t, "args", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "- **namespace**: Namespace")
	assert.Contains(t, out, "default: `''`")
}

func TestGraph(t *testing.T) {
	workspace(t)

	out, err := execute(t, "graph", "namespace:=robot1")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "node_robot1_fill_box_and_load_it_on_carrier_action_node")
}

func TestRuns_SQLite(t *testing.T) {
	workspace(t)
	path := filepath.Join(t.TempDir(), "runs.db")
	t.Setenv("PLANLAUNCH_STORE", "sqlite")
	t.Setenv("PLANLAUNCH_SQLITE_PATH", path)

	store, err := sqlite.Open(path)
	require.NoError(t, err)
	ended := time.Now()
	require.NoError(t, store.Save(context.Background(), &domain.Run{
		ID:        "3f1c",
		Namespace: "robot1",
		Status:    domain.RunStopped,
		StartedAt: ended.Add(-time.Minute),
		EndedAt:   &ended,
		Processes: []domain.ProcessRecord{
			{Name: "a", State: domain.ProcessExited},
			{Name: "b", State: domain.ProcessExited},
			{Name: "c", State: domain.ProcessFailed},
		},
	}))
	require.NoError(t, store.Close())

	out, err := execute(t, "runs")
	require.NoError(t, err)
	assert.Contains(t, out, "3f1c")
	assert.Contains(t, out, "stopped")
	assert.Contains(t, out, "2 exited, 1 failed")

	out, err = execute(t, "runs", "--format", "json")
	require.NoError(t, err)
	var runs []domain.Run
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "robot1", runs[0].Namespace)
}

func TestRuns_Empty(t *testing.T) {
	workspace(t)

	out, err := execute(t, "runs")
	require.NoError(t, err)
	assert.Contains(t, out, "no runs recorded")
}

func TestVersion(t *testing.T) {
	t.Setenv("PLANLAUNCH_STORE", "bogus") // configuration is not loaded

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Regexp(t, `^planlaunch version \d+\.\d+\.\d+\n$`, out)
}

func TestBadConfiguration(t *testing.T) {
	workspace(t)
	t.Setenv("PLANLAUNCH_STORE", "etcd")

	_, err := execute(t, "args")
	assert.Error(t, err)

	_, err = execute(t, "--log-level", "loud", "runs")
	assert.Error(t, err)
}

func TestParseLaunchArgs(t *testing.T) {
	got, err := parseLaunchArgs([]string{"namespace:=robot1", "empty:=", "url:=a:=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"namespace": "robot1", "empty": "", "url": "a:=b"}, got)

	_, err = parseLaunchArgs([]string{":=x"})
	assert.Error(t, err)
}
