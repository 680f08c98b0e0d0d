package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/planlaunch/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that log process events.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnProcessStart: func(_ context.Context, e *domain.ProcessEvent) {
			logger.Info("process started",
				"run_id", e.RunID,
				"node", e.Process.FQN,
				"pid", e.Process.PID,
			)
		},
		OnProcessFailed: func(_ context.Context, e *domain.ProcessEvent) {
			logger.Error("process failed to start",
				"run_id", e.RunID,
				"node", e.Process.FQN,
				"error", e.Process.Error,
			)
		},
		OnProcessExit: func(_ context.Context, e *domain.ProcessEvent) {
			level := slog.LevelInfo
			if e.Process.ExitCode != 0 {
				level = slog.LevelWarn
			}
			logger.Log(context.Background(), level, "process exited",
				"run_id", e.RunID,
				"node", e.Process.FQN,
				"pid", e.Process.PID,
				"code", e.Process.ExitCode,
			)
		},
	}
}

// Combine fans every event out to all hooks, in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnProcessStart: func(ctx context.Context, e *domain.ProcessEvent) {
			for _, h := range hooks {
				if h.OnProcessStart != nil {
					h.OnProcessStart(ctx, e)
				}
			}
		},
		OnProcessFailed: func(ctx context.Context, e *domain.ProcessEvent) {
			for _, h := range hooks {
				if h.OnProcessFailed != nil {
					h.OnProcessFailed(ctx, e)
				}
			}
		},
		OnProcessExit: func(ctx context.Context, e *domain.ProcessEvent) {
			for _, h := range hooks {
				if h.OnProcessExit != nil {
					h.OnProcessExit(ctx, e)
				}
			}
		},
	}
}
