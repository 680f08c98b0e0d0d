package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/planlaunch/internal/presentation/tui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newDescribeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe [name:=value ...]",
		Short: "Print the resolved launch plan",
		Long: `Resolves the launch description with the given arguments and prints the
resulting plan: argument values, included sources and the processes that
"run" would start.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := launchArgs(cmd, args)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			plain, _ := cmd.Flags().GetBool("plain")

			l, closeStore, err := a.launcher(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			plan, err := l.Plan(cmd.Context(), values)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(plan); err != nil {
					return err
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(plan)
			case "markdown":
				rendered, err := tui.NewRenderer(plain)(tui.PlanMarkdown(plan))
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(out, rendered)
				return err
			}
			return fmt.Errorf("unknown format %q (want markdown, yaml or json)", format)
		},
	}
	addArgFlag(cmd)
	cmd.Flags().StringP("format", "f", "markdown", "Output format: markdown, yaml or json")
	cmd.Flags().Bool("plain", false, "Print markdown without terminal rendering")
	return cmd
}

func newArgsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "args",
		Short: "Show the launch arguments",
		RunE: func(cmd *cobra.Command, args []string) error {
			plain, _ := cmd.Flags().GetBool("plain")

			l, closeStore, err := a.launcher(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			declared, err := l.Arguments()
			if err != nil {
				return err
			}
			rendered, err := tui.NewRenderer(plain)(tui.ArgumentsMarkdown(declared))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
			return err
		},
	}
	cmd.Flags().Bool("plain", false, "Print markdown without terminal rendering")
	return cmd
}
