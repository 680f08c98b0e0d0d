package planlaunch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/planlaunch/internal/logging"
	"github.com/aretw0/planlaunch/internal/runtime"
	"github.com/aretw0/planlaunch/pkg/adapters/file"
	"github.com/aretw0/planlaunch/pkg/adapters/memory"
	"github.com/aretw0/planlaunch/pkg/adapters/process"
	"github.com/aretw0/planlaunch/pkg/ament"
	"github.com/aretw0/planlaunch/pkg/domain"
	"github.com/aretw0/planlaunch/pkg/launch"
	"github.com/aretw0/planlaunch/pkg/observability"
	"github.com/aretw0/planlaunch/pkg/planning"
	"github.com/aretw0/planlaunch/pkg/ports"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Generator builds a launch description from a package index.
type Generator func(index ament.Index) (*launch.Description, error)

// Launcher is the high-level entry point of the library.
// It composes the launch description, resolves it into a plan and supervises
// the resulting processes, recording every run.
type Launcher struct {
	index     ament.Index
	loader    ports.SourceLoader
	generator Generator
	store     ports.RunStore
	locker    ports.NamespaceLocker
	logger    *slog.Logger
	metrics   *observability.Metrics
	hooks     domain.LifecycleHooks

	console  io.Writer
	logDir   string
	profile  termenv.Profile
	env      []string
	grace    time.Duration
	leaseTTL time.Duration

	mu         sync.Mutex
	supervisor *runtime.Supervisor
	plan       *launch.Plan
}

// Option defines a functional option for configuring the Launcher.
type Option func(*Launcher)

// WithIndex sets the package index (default: AMENT_PREFIX_PATH).
func WithIndex(index ament.Index) Option {
	return func(l *Launcher) {
		l.index = index
	}
}

// WithLoader sets the loader for included launch sources.
// The default serves YAML files and the built-in plansys2 bringup.
func WithLoader(loader ports.SourceLoader) Option {
	return func(l *Launcher) {
		l.loader = loader
	}
}

// WithGenerator replaces the temporal planning composer.
func WithGenerator(g Generator) Option {
	return func(l *Launcher) {
		l.generator = g
	}
}

// WithRunStore sets where runs are recorded (default: in memory).
func WithRunStore(store ports.RunStore) Option {
	return func(l *Launcher) {
		l.store = store
	}
}

// WithNamespaceLocker sets the lease provider (default: in process).
func WithNamespaceLocker(locker ports.NamespaceLocker) Option {
	return func(l *Launcher) {
		l.locker = locker
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Launcher) {
		l.logger = logger
	}
}

// WithMetrics shares a metrics set, e.g. with a status server.
func WithMetrics(m *observability.Metrics) Option {
	return func(l *Launcher) {
		l.metrics = m
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(l *Launcher) {
		l.hooks = hooks
	}
}

// WithConsole sets where nodes with "screen" output write.
func WithConsole(w io.Writer) Option {
	return func(l *Launcher) {
		l.console = w
	}
}

// WithLogDir sets the directory for nodes with "log" output.
func WithLogDir(dir string) Option {
	return func(l *Launcher) {
		l.logDir = dir
	}
}

// WithColorProfile colors the per-process console prefixes.
func WithColorProfile(p termenv.Profile) Option {
	return func(l *Launcher) {
		l.profile = p
	}
}

// WithEnvironment adds KEY=VALUE entries to the environment of every node.
func WithEnvironment(env ...string) Option {
	return func(l *Launcher) {
		l.env = append(l.env, env...)
	}
}

// WithShutdownTimeout sets how long nodes get to exit after SIGINT.
func WithShutdownTimeout(d time.Duration) Option {
	return func(l *Launcher) {
		l.grace = d
	}
}

// WithLeaseTTL sets the namespace lease TTL for expiring lockers.
func WithLeaseTTL(d time.Duration) Option {
	return func(l *Launcher) {
		l.leaseTTL = d
	}
}

// New initializes a Launcher.
func New(opts ...Option) (*Launcher, error) {
	l := &Launcher{
		generator: planning.Generate,
		console:   os.Stdout,
		logDir:    filepath.Join(os.TempDir(), "planlaunch", "log"),
		profile:   termenv.Ascii,
		grace:     runtime.DefaultShutdownGrace,
		leaseTTL:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.logger == nil {
		l.logger = logging.NewNop()
	}
	if l.index == nil {
		l.index = ament.FromEnvironment()
	}
	if l.store == nil {
		l.store = memory.NewStore()
	}
	if l.locker == nil {
		l.locker = memory.NewLocker()
	}
	if l.metrics == nil {
		l.metrics = observability.NewMetrics()
	}
	if l.generator == nil {
		return nil, fmt.Errorf("generator must not be nil")
	}
	if l.loader == nil {
		loader := memory.NewLoader(memory.WithFallback(file.NewLoader()))
		registered, err := planning.RegisterBringup(loader, l.index)
		switch {
		case errors.Is(err, ament.ErrPackageNotFound):
			l.logger.Debug("bringup package not installed, built-in bringup disabled")
		case err != nil:
			return nil, err
		case registered:
			l.logger.Debug("using built-in plansys2 bringup")
		}
		l.loader = loader
	}

	return l, nil
}

// Metrics returns the launcher's metrics.
func (l *Launcher) Metrics() *observability.Metrics {
	return l.metrics
}

// Describe builds the launch description without resolving it.
func (l *Launcher) Describe() (*launch.Description, error) {
	return l.generator(l.index)
}

// Arguments lists the launch arguments the description declares.
func (l *Launcher) Arguments() ([]launch.DeclareArgument, error) {
	desc, err := l.Describe()
	if err != nil {
		return nil, err
	}
	return desc.Arguments(), nil
}

// Plan resolves the description with the given launch arguments.
func (l *Launcher) Plan(ctx context.Context, args map[string]string) (*launch.Plan, error) {
	ctx, span := observability.Tracer().Start(ctx, "planlaunch.resolve")
	defer span.End()

	desc, err := l.Describe()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "describe")
		return nil, err
	}

	lc := launch.NewContext(l.index, launch.WithConfigurations(args))
	plan, err := launch.Resolve(ctx, desc, lc, l.loader)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve")
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("planlaunch.processes", len(plan.Processes)),
		attribute.Int("planlaunch.includes", len(plan.Includes)),
	)
	return plan, nil
}

// Run resolves the description and supervises its processes until they all
// exit or ctx is cancelled. It holds the namespace lease for the whole run
// and records the run in the store. The returned run is set even when an
// error is returned after the processes were started.
func (l *Launcher) Run(ctx context.Context, args map[string]string) (*domain.Run, error) {
	plan, err := l.Plan(ctx, args)
	if err != nil {
		return nil, err
	}

	namespace := ""
	if v, ok := plan.Argument(planning.NamespaceArgument); ok {
		namespace = v.Value
	}
	leaseKey := launch.NormalizeNamespace(namespace)
	if leaseKey == "" {
		leaseKey = "/"
	}

	unlock, err := l.locker.Lock(ctx, leaseKey, l.leaseTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to lease namespace %q: %w", leaseKey, err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			l.logger.Warn("failed to release namespace lease", "namespace", leaseKey, "error", err)
		}
	}()

	run := &domain.Run{
		ID:        uuid.NewString(),
		Namespace: namespace,
		Arguments: maps.Clone(args),
		Status:    domain.RunRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := l.store.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	logger := l.logger.With("run_id", run.ID)
	runner := process.NewRunner(l.index,
		process.WithConsole(l.console),
		process.WithLogDir(filepath.Join(l.logDir, run.ID)),
		process.WithColorProfile(l.profile),
		process.WithEnvironment(l.env...),
	)
	sup := runtime.NewSupervisor(
		runtime.StartFunc(func(ctx context.Context, spec launch.ProcessSpec) (runtime.Process, error) {
			p, err := runner.Start(ctx, spec)
			if err != nil {
				return nil, err
			}
			return p, nil
		}),
		runtime.WithLogger(logger),
		runtime.WithRunID(run.ID),
		runtime.WithShutdownGrace(l.grace),
		runtime.WithHooks(observability.Combine(
			observability.LoggingHooks(logger),
			l.metrics.Hooks(),
			l.hooks,
		)),
	)

	l.mu.Lock()
	l.supervisor, l.plan = sup, plan
	l.mu.Unlock()

	logger.Info("launch started", "namespace", namespace, "processes", len(plan.Processes))
	res, runErr := sup.Run(ctx, plan)

	l.mu.Lock()
	run.Processes = res.Processes
	if runErr != nil {
		run.Error = runErr.Error()
	}
	run.Finish(time.Now().UTC(), res.Stopped)
	final := *run
	l.mu.Unlock()

	l.metrics.RunFinished(final.Status)
	logger.Info("launch finished", "status", final.Status)

	if err := l.store.Save(context.WithoutCancel(ctx), &final); err != nil {
		return &final, errors.Join(runErr, fmt.Errorf("failed to record run: %w", err))
	}
	return &final, runErr
}

// Processes returns the process records of the current (or last) run.
func (l *Launcher) Processes() []domain.ProcessRecord {
	l.mu.Lock()
	sup := l.supervisor
	l.mu.Unlock()
	if sup == nil {
		return nil
	}
	return sup.Snapshot()
}

// CurrentPlan returns the plan of the current (or last) run, if any.
func (l *Launcher) CurrentPlan() *launch.Plan {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.plan
}

// Runs lists the recorded runs, newest first.
func (l *Launcher) Runs(ctx context.Context) ([]domain.Run, error) {
	return l.store.List(ctx)
}
