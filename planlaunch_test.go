package planlaunch_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/planlaunch"
	"github.com/aretw0/planlaunch/internal/testutils"
	"github.com/aretw0/planlaunch/pkg/adapters/memory"
	"github.com/aretw0/planlaunch/pkg/ament"
	"github.com/aretw0/planlaunch/pkg/domain"
	"github.com/aretw0/planlaunch/pkg/launch"
	"github.com/aretw0/planlaunch/pkg/planning"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// workspace installs both packages with the fake action node as every executable.
func workspace(t *testing.T) ament.Index {
	t.Helper()
	prefix := testutils.Workspace(t, planning.Package, planning.ActionNodes...)
	testutils.InstallPackage(t, prefix, planning.BringupPackage, "plansys2_node")
	return ament.NewPrefixIndex(prefix)
}

func TestLauncher_ArgumentsAndPlan(t *testing.T) {
	idx := ament.NewMemoryIndex().
		Add("/opt/ros/humble", planning.BringupPackage).
		Add("/ws/install", planning.Package)
	loader := memory.NewLoader()
	loader.Register("/opt/ros/humble/share/plansys2_bringup/"+planning.BringupLaunchFile, planning.Bringup)

	l, err := planlaunch.New(planlaunch.WithIndex(idx), planlaunch.WithLoader(loader))
	require.NoError(t, err)

	args, err := l.Arguments()
	require.NoError(t, err)
	require.Len(t, args, 1)
	assert.Equal(t, "namespace", args[0].Name)

	plan, err := l.Plan(context.Background(), map[string]string{"namespace": "robot1"})
	require.NoError(t, err)
	require.Len(t, plan.Processes, 6)
	assert.Equal(t, "/robot1/plansys2", plan.Processes[0].FullyQualifiedName())
	assert.Equal(t, "/robot1/unload_empty_box_from_carrier_action_node", plan.Processes[5].FullyQualifiedName())

	_, err = l.Plan(context.Background(), map[string]string{"namespace": "bad namespace"})
	assert.ErrorIs(t, err, launch.ErrInvalidName)
}

func TestLauncher_MissingPackage(t *testing.T) {
	l, err := planlaunch.New(planlaunch.WithIndex(ament.NewMemoryIndex()))
	require.NoError(t, err, "the built-in bringup is optional")

	_, err = l.Describe()
	assert.ErrorIs(t, err, ament.ErrPackageNotFound)
	_, err = l.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ament.ErrPackageNotFound)

	runs, err := l.Runs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs, "nothing is recorded when the plan cannot be built")
}

func TestLauncher_RunUntilCancelled(t *testing.T) {
	console := &syncBuffer{}
	store := memory.NewStore()
	var started sync.WaitGroup
	started.Add(6)
	hooks := domain.LifecycleHooks{
		OnProcessStart: func(context.Context, *domain.ProcessEvent) { started.Done() },
	}

	l, err := planlaunch.New(
		planlaunch.WithIndex(workspace(t)),
		planlaunch.WithRunStore(store),
		planlaunch.WithConsole(console),
		planlaunch.WithLogDir(t.TempDir()),
		planlaunch.WithShutdownTimeout(5*time.Second),
		planlaunch.WithLifecycleHooks(hooks),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	type result struct {
		run *domain.Run
		err error
	}
	done := make(chan result, 1)
	go func() {
		run, err := l.Run(ctx, map[string]string{"namespace": "robot1"})
		done <- result{run, err}
	}()

	started.Wait()
	require.Eventually(t, func() bool {
		return strings.Count(console.String(), "started in /robot1") == 6
	}, 10*time.Second, 20*time.Millisecond)

	procs := l.Processes()
	require.Len(t, procs, 6)
	for _, p := range procs {
		assert.Equal(t, domain.ProcessRunning, p.State)
		assert.Positive(t, p.PID)
	}
	assert.NotNil(t, l.CurrentPlan())

	runs, err := l.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.RunRunning, runs[0].Status, "the run is recorded as soon as it starts")

	cancel()
	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, domain.RunStopped, res.run.Status)
	assert.Equal(t, "robot1", res.run.Namespace)
	assert.Equal(t, map[string]string{"namespace": "robot1"}, res.run.Arguments)
	require.NotNil(t, res.run.EndedAt)

	stored, err := store.Load(context.Background(), res.run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStopped, stored.Status)
	require.Len(t, stored.Processes, 6)
	for _, p := range stored.Processes {
		assert.Equal(t, domain.ProcessExited, p.State)
		assert.Equal(t, 0, p.ExitCode, "%s handles SIGINT", p.Name)
	}

	assert.Contains(t, console.String(), "[move_agent_action_node-2] node move_agent_action_node received interrupt")
	count, err := testutil.GatherAndCount(l.Metrics().Registry(), "planlaunch_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLauncher_NamespaceIsExclusive(t *testing.T) {
	locker := memory.NewLocker()
	unlock, err := locker.Lock(context.Background(), "/robot1", time.Minute)
	require.NoError(t, err)

	l, err := planlaunch.New(
		planlaunch.WithIndex(workspace(t)),
		planlaunch.WithNamespaceLocker(locker),
		planlaunch.WithConsole(&syncBuffer{}),
	)
	require.NoError(t, err)

	_, err = l.Run(context.Background(), map[string]string{"namespace": "robot1"})
	assert.ErrorIs(t, err, domain.ErrNamespaceBusy, "namespaces are compared normalized")

	require.NoError(t, unlock(context.Background()))
}

func TestLauncher_StartFailuresFailTheRun(t *testing.T) {
	// Only two of the five action nodes are installed.
	prefix := testutils.Workspace(t, planning.Package, planning.ActionNodes[0], planning.ActionNodes[1])
	testutils.InstallPackage(t, prefix, planning.BringupPackage, "plansys2_node")

	l, err := planlaunch.New(
		planlaunch.WithIndex(ament.NewPrefixIndex(prefix)),
		planlaunch.WithConsole(&syncBuffer{}),
		planlaunch.WithLogDir(t.TempDir()),
		planlaunch.WithEnvironment("ACTION_NODE_EXIT=0"),
	)
	require.NoError(t, err)

	run, err := l.Run(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ament.ErrExecutableNotFound)
	require.NotNil(t, run)
	assert.Equal(t, domain.RunFailed, run.Status)

	states := map[domain.ProcessState]int{}
	for _, p := range run.Processes {
		states[p.State]++
	}
	assert.Equal(t, 3, states[domain.ProcessExited])
	assert.Equal(t, 3, states[domain.ProcessFailed])

	// The lease is released once the run is over.
	_, err = l.Run(context.Background(), nil)
	assert.NotErrorIs(t, err, domain.ErrNamespaceBusy)
}
