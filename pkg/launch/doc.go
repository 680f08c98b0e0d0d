/*
Package launch models launch descriptions and resolves them into plans.

A Description is built once from Actions whose string fields are
Substitutions. Nothing is evaluated at build time: a LaunchConfiguration
such as the namespace argument stays a placeholder until Resolve performs it
against a Context. Resolution walks the actions in emission order, expands
includes in place and yields a Plan of ProcessSpecs ready to be started.

	desc := launch.NewDescription(
		launch.DeclareArgument{Name: "namespace", Default: launch.Text(""), Description: "Namespace"},
		launch.Node{
			Package:    launch.Text("temporal_planning"),
			Executable: launch.Text("move_agent_action_node"),
			Namespace:  launch.LaunchConfiguration{Name: "namespace"},
			Output:     launch.OutputScreen,
		},
	)

	lc := launch.NewContext(index, launch.WithConfigurations(map[string]string{"namespace": "robot1"}))
	plan, err := launch.Resolve(ctx, desc, lc, loader)
*/
package launch
