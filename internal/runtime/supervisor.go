package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/planlaunch/internal/logging"
	"github.com/aretw0/planlaunch/pkg/domain"
	"github.com/aretw0/planlaunch/pkg/launch"
	"github.com/aretw0/planlaunch/pkg/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// DefaultShutdownGrace is how long a process gets to exit after SIGINT.
const DefaultShutdownGrace = 10 * time.Second

// Process is a started node as seen by the supervisor.
type Process interface {
	PID() int
	Done() <-chan struct{}
	Wait() (int, error)
	Stop(grace time.Duration) error
}

// Starter starts one resolved node.
type Starter interface {
	Start(ctx context.Context, spec launch.ProcessSpec) (Process, error)
}

// StartFunc adapts a function to Starter.
type StartFunc func(ctx context.Context, spec launch.ProcessSpec) (Process, error)

// Start calls f.
func (f StartFunc) Start(ctx context.Context, spec launch.ProcessSpec) (Process, error) {
	return f(ctx, spec)
}

// Result summarizes a supervised run.
type Result struct {
	Processes []domain.ProcessRecord
	// Stopped is set when the run ended because its context was cancelled.
	Stopped bool
}

// Supervisor starts the processes of a plan and watches them until they exit.
type Supervisor struct {
	starter Starter
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	grace   time.Duration
	runID   string

	mu      sync.Mutex
	records []domain.ProcessRecord
}

// Option configures the supervisor.
type Option func(*Supervisor)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Supervisor) {
		s.logger = logger
	}
}

// WithHooks registers lifecycle hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Supervisor) {
		s.hooks = hooks
	}
}

// WithShutdownGrace sets how long processes get between SIGINT and kill.
func WithShutdownGrace(d time.Duration) Option {
	return func(s *Supervisor) {
		s.grace = d
	}
}

// WithRunID tags events with the run they belong to.
func WithRunID(id string) Option {
	return func(s *Supervisor) {
		s.runID = id
	}
}

// NewSupervisor creates a supervisor.
func NewSupervisor(starter Starter, opts ...Option) *Supervisor {
	s := &Supervisor{
		starter: starter,
		logger:  logging.NewNop(),
		grace:   DefaultShutdownGrace,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run starts every process of plan in order and blocks until all of them
// have exited or ctx is cancelled, in which case the remaining processes are
// stopped. A process that fails to start does not prevent the others from
// running; start failures are returned joined once the run is over.
func (s *Supervisor) Run(ctx context.Context, plan *launch.Plan) (Result, error) {
	ctx, span := observability.Tracer().Start(ctx, "planlaunch.supervise",
		trace.WithAttributes(
			attribute.String("planlaunch.run_id", s.runID),
			attribute.Int("planlaunch.processes", len(plan.Processes)),
		))
	defer span.End()

	s.mu.Lock()
	s.records = make([]domain.ProcessRecord, len(plan.Processes))
	for i, spec := range plan.Processes {
		s.records[i] = domain.ProcessRecord{
			Name:       spec.Name,
			FQN:        spec.FullyQualifiedName(),
			Package:    spec.Package,
			Executable: spec.Executable,
			State:      domain.ProcessPending,
		}
	}
	s.mu.Unlock()

	var (
		g         errgroup.Group
		startErrs []error
	)

	for i, spec := range plan.Processes {
		if ctx.Err() != nil {
			break
		}

		proc, err := s.starter.Start(ctx, spec)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			err = fmt.Errorf("failed to start %s: %w", spec.FullyQualifiedName(), err)
			startErrs = append(startErrs, err)
			s.failed(ctx, i, err)
			continue
		}
		s.started(ctx, i, proc)
		span.AddEvent("process.start", trace.WithAttributes(
			attribute.String("node", spec.FullyQualifiedName()),
			attribute.Int("pid", proc.PID()),
		))

		g.Go(func() error {
			select {
			case <-proc.Done():
			case <-ctx.Done():
				if err := proc.Stop(s.grace); err != nil {
					s.logger.Warn("failed to stop process", "node", spec.FullyQualifiedName(), "error", err)
				}
			}
			code, err := proc.Wait()
			s.exited(ctx, i, code, err)
			return nil
		})
	}

	_ = g.Wait()

	res := Result{Processes: s.Snapshot(), Stopped: ctx.Err() != nil}
	err := errors.Join(startErrs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "start failures")
	}
	return res, err
}

// Snapshot returns a copy of the current process records.
func (s *Supervisor) Snapshot() []domain.ProcessRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ProcessRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Supervisor) started(ctx context.Context, i int, proc Process) {
	now := time.Now()
	s.mu.Lock()
	rec := &s.records[i]
	rec.State = domain.ProcessRunning
	rec.PID = proc.PID()
	rec.StartedAt = &now
	snapshot := *rec
	s.mu.Unlock()

	s.hooks.Fire(ctx, &domain.ProcessEvent{Timestamp: now, Type: domain.EventProcessStart, RunID: s.runID, Process: snapshot})
}

func (s *Supervisor) failed(ctx context.Context, i int, err error) {
	now := time.Now()
	s.mu.Lock()
	rec := &s.records[i]
	rec.State = domain.ProcessFailed
	rec.Error = err.Error()
	rec.EndedAt = &now
	snapshot := *rec
	s.mu.Unlock()

	s.hooks.Fire(ctx, &domain.ProcessEvent{Timestamp: now, Type: domain.EventProcessFailed, RunID: s.runID, Process: snapshot})
}

func (s *Supervisor) exited(ctx context.Context, i int, code int, err error) {
	now := time.Now()
	s.mu.Lock()
	rec := &s.records[i]
	rec.State = domain.ProcessExited
	rec.ExitCode = code
	rec.EndedAt = &now
	if err != nil {
		rec.Error = err.Error()
	}
	snapshot := *rec
	s.mu.Unlock()

	// Hooks still need to observe exits caused by cancellation.
	s.hooks.Fire(context.WithoutCancel(ctx), &domain.ProcessEvent{Timestamp: now, Type: domain.EventProcessExit, RunID: s.runID, Process: snapshot})
}
