package domain_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/planlaunch/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestRun_Finish(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		run     domain.Run
		stopped bool
		want    domain.RunStatus
	}{
		{
			name: "All Exited Cleanly",
			run: domain.Run{Processes: []domain.ProcessRecord{
				{State: domain.ProcessExited, ExitCode: 0},
				{State: domain.ProcessExited, ExitCode: 0},
			}},
			want: domain.RunSucceeded,
		},
		{
			name: "Non Zero Exit",
			run: domain.Run{Processes: []domain.ProcessRecord{
				{State: domain.ProcessExited, ExitCode: 0},
				{State: domain.ProcessExited, ExitCode: 3},
			}},
			want: domain.RunFailed,
		},
		{
			name: "Start Failure",
			run: domain.Run{Processes: []domain.ProcessRecord{
				{State: domain.ProcessFailed},
			}},
			want: domain.RunFailed,
		},
		{
			name:    "Stopped",
			run:     domain.Run{Processes: []domain.ProcessRecord{{State: domain.ProcessExited, ExitCode: 130}}},
			stopped: true,
			want:    domain.RunStopped,
		},
		{
			name:    "Error Wins",
			run:     domain.Run{Error: "boom"},
			stopped: true,
			want:    domain.RunFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := tt.run
			run.Status = domain.RunRunning
			assert.False(t, run.Finished())

			run.Finish(now, tt.stopped)
			assert.Equal(t, tt.want, run.Status)
			assert.True(t, run.Finished())
			assert.Equal(t, now, *run.EndedAt)
		})
	}
}

func TestLifecycleHooks_Fire(t *testing.T) {
	var started, failed, exited int
	hooks := domain.LifecycleHooks{
		OnProcessStart:  func(context.Context, *domain.ProcessEvent) { started++ },
		OnProcessFailed: func(context.Context, *domain.ProcessEvent) { failed++ },
		OnProcessExit:   func(context.Context, *domain.ProcessEvent) { exited++ },
	}

	ctx := context.Background()
	hooks.Fire(ctx, &domain.ProcessEvent{Type: domain.EventProcessStart})
	hooks.Fire(ctx, &domain.ProcessEvent{Type: domain.EventProcessExit})
	hooks.Fire(ctx, &domain.ProcessEvent{Type: domain.EventProcessFailed})

	assert.Equal(t, 1, started)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, exited)

	// Zero hooks are a no-op.
	domain.LifecycleHooks{}.Fire(ctx, &domain.ProcessEvent{Type: domain.EventProcessStart})
	domain.LifecycleHooks{}.Fire(ctx, &domain.ProcessEvent{Type: domain.EventProcessFailed})
}
