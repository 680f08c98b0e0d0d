package main

import (
	"fmt"

	"github.com/aretw0/planlaunch/internal/presentation/graph"
	"github.com/spf13/cobra"
)

func newGraphCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [name:=value ...]",
		Short: "Export the launch graph visualization",
		Long:  `Resolves the launch description and outputs a Mermaid diagram (graph TD) of sources and processes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := launchArgs(cmd, args)
			if err != nil {
				return err
			}

			l, closeStore, err := a.launcher(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			plan, err := l.Plan(cmd.Context(), values)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(plan, nil))
			return err
		},
	}
	addArgFlag(cmd)
	return cmd
}
