package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/planlaunch"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of planlaunch",
		// Skip configuration loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "planlaunch version %s\n", strings.TrimSpace(planlaunch.Version))
		},
	}
}
