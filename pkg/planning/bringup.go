package planning

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/planlaunch/pkg/adapters/memory"
	"github.com/aretw0/planlaunch/pkg/ament"
	"github.com/aretw0/planlaunch/pkg/launch"
)

// Bringup describes the monolithic plansys2 bringup: one plansys2_node
// hosting the domain expert, problem expert, planner and executor, loaded
// with model_file.
func Bringup() *launch.Description {
	namespace := launch.LaunchConfiguration{Name: NamespaceArgument}
	return launch.NewDescription(
		launch.DeclareArgument{
			Name:        ModelFileArgument,
			Description: "PDDL Model file",
		},
		launch.DeclareArgument{
			Name:        NamespaceArgument,
			Default:     launch.Text(""),
			Description: "Namespace",
		},
		launch.Node{
			Package:    launch.Text(BringupPackage),
			Executable: launch.Text("plansys2_node"),
			Name:       launch.Text("plansys2"),
			Namespace:  namespace,
			Output:     launch.OutputScreen,
			Parameters: []launch.Parameter{
				{Name: ModelFileArgument, Value: launch.LaunchConfiguration{Name: ModelFileArgument}},
			},
		},
	)
}

// RegisterBringup makes Bringup available at the location Generate includes,
// unless the bringup package installs its own YAML launch file there.
// It reports whether the built-in description was registered.
func RegisterBringup(loader *memory.Loader, index ament.Index) (bool, error) {
	share, err := index.ShareDirectory(BringupPackage)
	if err != nil {
		return false, err
	}
	location := share + "/" + BringupLaunchFile
	if _, err := os.Stat(filepath.FromSlash(location)); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to check bringup launch file: %w", err)
	}
	loader.Register(location, Bringup)
	return true, nil
}
