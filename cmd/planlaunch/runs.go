package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/planlaunch/pkg/domain"
	"github.com/spf13/cobra"
)

func newRunsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded launch runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			limit, _ := cmd.Flags().GetInt("limit")

			store, _, closeStore, err := a.storage()
			if err != nil {
				return err
			}
			defer closeStore()

			runs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if limit > 0 && len(runs) > limit {
				runs = runs[:limit]
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				if runs == nil {
					runs = []domain.Run{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			case "table":
				if len(runs) == 0 {
					fmt.Fprintln(out, "no runs recorded")
					return nil
				}
				fmt.Fprintf(out, "%-36s  %-10s  %-12s  %-20s  %s\n", "ID", "STATUS", "NAMESPACE", "STARTED", "PROCESSES")
				for _, r := range runs {
					ns := r.Namespace
					if ns == "" {
						ns = "/"
					}
					fmt.Fprintf(out, "%-36s  %-10s  %-12s  %-20s  %s\n",
						r.ID, r.Status, ns, r.StartedAt.Local().Format(time.DateTime), summarize(r.Processes))
				}
				return nil
			}
			return fmt.Errorf("unknown format %q (want table or json)", format)
		},
	}
	cmd.Flags().StringP("format", "f", "table", "Output format: table or json")
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}

// summarize counts processes per state, e.g. "5 exited, 1 failed".
func summarize(procs []domain.ProcessRecord) string {
	if len(procs) == 0 {
		return "-"
	}
	order := []domain.ProcessState{domain.ProcessRunning, domain.ProcessExited, domain.ProcessFailed, domain.ProcessPending}
	counts := make(map[domain.ProcessState]int)
	for _, p := range procs {
		counts[p.State]++
	}
	var parts []string
	for _, state := range order {
		if n := counts[state]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, state))
		}
	}
	return strings.Join(parts, ", ")
}
