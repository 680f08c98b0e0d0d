package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/planlaunch"
	"github.com/aretw0/planlaunch/internal/presentation/tui"
	httpAdapter "github.com/aretw0/planlaunch/pkg/adapters/http"
	"github.com/aretw0/planlaunch/pkg/observability"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [name:=value ...]",
		Short: "Launch the stack and supervise it until interrupted",
		Long: `Resolves the launch description, starts every process in order and keeps
running until all processes have exited or SIGINT/SIGTERM is received, in which
case processes get the shutdown timeout to exit before they are killed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := launchArgs(cmd, args)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("status-addr"); addr != "" {
				a.cfg.StatusAddr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdownTracing, err := observability.SetupTracing(ctx, "planlaunch", a.cfg.OTelEndpoint)
			if err != nil {
				return fmt.Errorf("failed to set up tracing: %w", err)
			}
			defer func() {
				if err := shutdownTracing(context.Background()); err != nil {
					a.logger.Warn("failed to flush traces", "error", err)
				}
			}()

			streams := httpAdapter.NewStreamManager()
			l, closeStore, err := a.launcher(cmd, planlaunch.WithLifecycleHooks(streams.Hooks()))
			if err != nil {
				return err
			}
			defer closeStore()

			if a.cfg.StatusAddr != "" {
				stopServer := serveStatus(a, l, streams)
				defer stopServer()
			}

			tui.PrintBanner(cmd.OutOrStdout(), a.colorProfile(cmd.OutOrStdout()), planlaunch.Version, values["namespace"])

			run, err := l.Run(ctx, values)
			if run != nil {
				a.logger.Info("run recorded", "run_id", run.ID, "status", run.Status)
			}
			return err
		},
	}
	addArgFlag(cmd)
	cmd.Flags().String("status-addr", "", "Serve the status API on this address (e.g. :8080)")
	return cmd
}

// serveStatus starts the status server in the background and returns a func
// that shuts it down.
func serveStatus(a *app, l *planlaunch.Launcher, streams *httpAdapter.StreamManager) func() {
	srv := &http.Server{
		Addr: a.cfg.StatusAddr,
		Handler: httpAdapter.NewHandler(l,
			httpAdapter.WithMetrics(l.Metrics().Handler()),
			httpAdapter.WithStreams(streams),
			httpAdapter.WithVersion(planlaunch.Version),
			httpAdapter.WithLogger(a.logger),
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("status server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("status server failed", "error", err)
		}
	}()

	return func() {
		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			a.logger.Warn("status server shutdown did not complete", "error", err)
			_ = srv.Close()
		}
	}
}
