package planning

import (
	"github.com/aretw0/planlaunch/pkg/ament"
	"github.com/aretw0/planlaunch/pkg/launch"
)

const (
	// Package owns the action nodes and the PDDL domain.
	Package = "temporal_planning"
	// BringupPackage provides the planning system bringup.
	BringupPackage = "plansys2_bringup"
	// BringupLaunchFile is the bringup source, relative to the bringup share directory.
	BringupLaunchFile = "launch/plansys2_bringup_launch_monolithic.yaml"
	// DomainFile is the PDDL domain, relative to the owning package share directory.
	DomainFile = "pddl/domain_durative_actions.pddl"

	// NamespaceArgument scopes every node and the bringup.
	NamespaceArgument = "namespace"
	// ModelFileArgument carries the PDDL domain path to the bringup.
	ModelFileArgument = "model_file"
)

// ActionNodes are the executables started by the composer, in launch order.
// Each one implements one durative action of the PDDL domain.
var ActionNodes = []string{
	"move_agent_action_node",
	"move_agent_and_carrier_action_node",
	"fill_box_and_load_it_on_carrier_action_node",
	"unload_box_deliver_its_content_and_reload_it_on_carrier_action_node",
	"unload_empty_box_from_carrier_action_node",
}

// Generate builds the launch description for the temporal planning stack:
// the namespace argument, the plansys2 bringup with the durative-actions
// domain, and one node per action executor.
//
// Only the owning package is resolved here; its lookup error is returned
// as-is before any action is built. Everything else stays deferred until the
// description is resolved.
func Generate(index ament.Index) (*launch.Description, error) {
	share, err := index.ShareDirectory(Package)
	if err != nil {
		return nil, err
	}

	namespace := launch.LaunchConfiguration{Name: NamespaceArgument}

	desc := launch.NewDescription(
		launch.DeclareArgument{
			Name:        NamespaceArgument,
			Default:     launch.Text(""),
			Description: "Namespace",
		},
		launch.IncludeDescription{
			Source: launch.Concat{
				launch.FindPackageShare{Package: launch.Text(BringupPackage)},
				launch.Text("/" + BringupLaunchFile),
			},
			Arguments: []launch.Argument{
				{Name: ModelFileArgument, Value: launch.Text(share + "/" + DomainFile)},
				{Name: NamespaceArgument, Value: namespace},
			},
		},
	)

	for _, exe := range ActionNodes {
		desc.Add(launch.Node{
			Package:    launch.Text(Package),
			Executable: launch.Text(exe),
			Name:       launch.Text(exe),
			Namespace:  namespace,
			Output:     launch.OutputScreen,
			Parameters: []launch.Parameter{},
		})
	}

	return desc, nil
}
