package planning_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/planlaunch/pkg/adapters/memory"
	"github.com/aretw0/planlaunch/pkg/ament"
	"github.com/aretw0/planlaunch/pkg/launch"
	"github.com/aretw0/planlaunch/pkg/planning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	share        = "/ws/install/share/temporal_planning"
	bringupShare = "/opt/ros/humble/share/plansys2_bringup"
)

func index() *ament.MemoryIndex {
	return ament.NewMemoryIndex().
		Add("/opt/ros/humble", planning.BringupPackage, "plansys2_node").
		Add("/ws/install", planning.Package, planning.ActionNodes...)
}

func resolve(t *testing.T, namespace *string) *launch.Plan {
	t.Helper()

	idx := index()
	desc, err := planning.Generate(idx)
	require.NoError(t, err)

	loader := memory.NewLoader()
	loader.Register(bringupShare+"/"+planning.BringupLaunchFile, planning.Bringup)

	var opts []launch.ContextOption
	if namespace != nil {
		opts = append(opts, launch.WithConfigurations(map[string]string{"namespace": *namespace}))
	}
	plan, err := launch.Resolve(context.Background(), desc, launch.NewContext(idx, opts...), loader)
	require.NoError(t, err)
	return plan
}

func TestGenerate_DefaultInvocation(t *testing.T) {
	desc, err := planning.Generate(index())
	require.NoError(t, err)

	actions := desc.Actions()
	require.Len(t, actions, 7)

	arg, ok := actions[0].(launch.DeclareArgument)
	require.True(t, ok, "first action declares the namespace argument")
	assert.Equal(t, "namespace", arg.Name)
	assert.Equal(t, launch.Text(""), arg.Default)
	assert.Equal(t, "Namespace", arg.Description)

	inc, ok := actions[1].(launch.IncludeDescription)
	require.True(t, ok, "second action includes the bringup")
	assert.Equal(t, "$(find-pkg-share plansys2_bringup)/launch/plansys2_bringup_launch_monolithic.yaml", inc.Source.String())
	require.Len(t, inc.Arguments, 2)
	assert.Equal(t, "model_file", inc.Arguments[0].Name)
	assert.Equal(t, launch.Text(share+"/pddl/domain_durative_actions.pddl"), inc.Arguments[0].Value)
	assert.Equal(t, "namespace", inc.Arguments[1].Name)
	assert.Equal(t, launch.LaunchConfiguration{Name: "namespace"}, inc.Arguments[1].Value)

	wantOrder := []string{
		"move_agent_action_node",
		"move_agent_and_carrier_action_node",
		"fill_box_and_load_it_on_carrier_action_node",
		"unload_box_deliver_its_content_and_reload_it_on_carrier_action_node",
		"unload_empty_box_from_carrier_action_node",
	}
	for i, want := range wantOrder {
		node, ok := actions[2+i].(launch.Node)
		require.True(t, ok, "action %d is a node", 2+i)
		assert.Equal(t, launch.Text(want), node.Executable)
	}
}

func TestGenerate_NamespacePropagates(t *testing.T) {
	for _, ns := range []string{"", "robot1", "/fleet/robot2"} {
		t.Run("ns="+ns, func(t *testing.T) {
			plan := resolve(t, &ns)

			require.Len(t, plan.Includes, 1)
			forwarded, ok := plan.Includes[0].Argument("namespace")
			require.True(t, ok)
			assert.Equal(t, ns, forwarded)

			require.Len(t, plan.Processes, 6, "bringup node plus five action nodes")
			for _, p := range plan.Processes {
				assert.Equal(t, ns, p.Namespace, "process %s", p.Name)
			}
		})
	}
}

func TestGenerate_DefaultNamespaceIsEmpty(t *testing.T) {
	plan := resolve(t, nil)

	arg, ok := plan.Argument("namespace")
	require.True(t, ok)
	assert.True(t, arg.Defaulted)
	assert.Equal(t, "", arg.Value)
	for _, p := range plan.Processes {
		assert.Equal(t, "", p.Namespace)
		assert.Equal(t, "/"+p.Name, p.FullyQualifiedName())
	}
}

func TestGenerate_ModelFileIndependentOfNamespace(t *testing.T) {
	want := share + "/pddl/domain_durative_actions.pddl"
	for _, ns := range []string{"", "robot1", "warehouse"} {
		plan := resolve(t, &ns)

		forwarded, ok := plan.Includes[0].Argument("model_file")
		require.True(t, ok)
		assert.Equal(t, want, forwarded)

		bringup := plan.Processes[0]
		assert.Equal(t, "plansys2", bringup.Name)
		assert.Equal(t, []launch.NamedValue{{Name: "model_file", Value: want}}, bringup.Parameters)
	}
}

func TestGenerate_NodeIdentity(t *testing.T) {
	desc, err := planning.Generate(index())
	require.NoError(t, err)

	for _, a := range desc.Actions()[2:] {
		node := a.(launch.Node)
		assert.Equal(t, launch.Text("temporal_planning"), node.Package)
		assert.Equal(t, node.Executable, node.Name)
		assert.Equal(t, launch.OutputScreen, node.Output)
		assert.Empty(t, node.Parameters)
		assert.Equal(t, launch.LaunchConfiguration{Name: "namespace"}, node.Namespace)
	}

	ns := "robot1"
	plan := resolve(t, &ns)
	for i, p := range plan.Processes[1:] {
		assert.Equal(t, planning.ActionNodes[i], p.Name)
		assert.Equal(t, p.Executable, p.Name)
		assert.Equal(t, "temporal_planning", p.Package)
		assert.Equal(t, launch.OutputScreen, p.Output)
		assert.Empty(t, p.Parameters)
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	idx := index()
	first, err := planning.Generate(idx)
	require.NoError(t, err)
	second, err := planning.Generate(idx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)
}

func TestGenerate_MissingOwningPackage(t *testing.T) {
	idx := ament.NewMemoryIndex().Add("/opt/ros/humble", planning.BringupPackage)

	desc, err := planning.Generate(idx)
	assert.Nil(t, desc, "no description is produced")
	require.Error(t, err)
	assert.ErrorIs(t, err, ament.ErrPackageNotFound)

	var notFound *ament.PackageNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "temporal_planning", notFound.Name)
}

func TestGenerate_BringupResolvedLazily(t *testing.T) {
	// The bringup package is only needed once the include is resolved.
	idx := ament.NewMemoryIndex().Add("/ws/install", planning.Package)
	desc, err := planning.Generate(idx)
	require.NoError(t, err)

	_, err = launch.Resolve(context.Background(), desc, launch.NewContext(idx), memory.NewLoader())
	assert.ErrorIs(t, err, ament.ErrPackageNotFound)
}

func TestRegisterBringup(t *testing.T) {
	prefix := t.TempDir()
	require.NoError(t, ament.Register(prefix, planning.BringupPackage))
	idx := ament.NewPrefixIndex(prefix)
	location := filepath.Join(prefix, "share", planning.BringupPackage, "launch", "plansys2_bringup_launch_monolithic.yaml")

	loader := memory.NewLoader()
	registered, err := planning.RegisterBringup(loader, idx)
	require.NoError(t, err)
	assert.True(t, registered)
	assert.Equal(t, []string{location}, loader.Locations())

	require.NoError(t, os.MkdirAll(filepath.Dir(location), 0o755))
	require.NoError(t, os.WriteFile(location, []byte("launch: []\n"), 0o644))
	registered, err = planning.RegisterBringup(memory.NewLoader(), idx)
	require.NoError(t, err)
	assert.False(t, registered, "an installed launch file takes precedence")

	_, err = planning.RegisterBringup(memory.NewLoader(), ament.NewMemoryIndex())
	assert.ErrorIs(t, err, ament.ErrPackageNotFound)
}
