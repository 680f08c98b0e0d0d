package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/aretw0/planlaunch/pkg/ament"
	"github.com/aretw0/planlaunch/pkg/launch"
	"github.com/muesli/termenv"
)

// labelPalette cycles through distinct colors for process prefixes.
var labelPalette = []string{"#60a5fa", "#34d399", "#fbbf24", "#f472b6", "#a78bfa", "#f87171", "#22d3ee"}

// Runner starts resolved nodes as local processes.
// Executables are located through the package index, never through PATH.
type Runner struct {
	index   ament.Index
	console io.Writer
	logDir  string
	env     []string
	profile termenv.Profile

	consoleMu sync.Mutex
	mu        sync.Mutex
	started   int
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithConsole sets where "screen" output goes (default: os.Stdout).
func WithConsole(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.console = w
	}
}

// WithLogDir sets the directory for "log" output files.
func WithLogDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.logDir = dir
	}
}

// WithEnvironment appends KEY=VALUE entries to the inherited environment.
func WithEnvironment(env ...string) RunnerOption {
	return func(r *Runner) {
		r.env = append(r.env, env...)
	}
}

// WithColorProfile enables colored prefixes. The default Ascii profile prints plain text.
func WithColorProfile(p termenv.Profile) RunnerOption {
	return func(r *Runner) {
		r.profile = p
	}
}

// NewRunner creates a new process runner.
func NewRunner(index ament.Index, opts ...RunnerOption) *Runner {
	r := &Runner{
		index:   index,
		console: os.Stdout,
		logDir:  filepath.Join(os.TempDir(), "planlaunch", "log"),
		profile: termenv.Ascii,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start locates the node's executable and starts it with its ROS arguments.
// The returned Process is running; use Wait or Done to observe its exit.
func (r *Runner) Start(ctx context.Context, spec launch.ProcessSpec) (*Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := r.index.Executable(spec.Package, spec.Executable)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.started++
	seq := r.started
	r.mu.Unlock()

	label := fmt.Sprintf("%s-%d", spec.Name, seq)

	// Not CommandContext: shutdown is escalated by Stop, not by a context kill.
	cmd := exec.Command(path, spec.CommandArgs()...)
	cmd.Env = append(os.Environ(), r.env...)
	cmd.WaitDelay = time.Second

	p := &Process{
		Spec:  spec,
		Label: label,
		cmd:   cmd,
		done:  make(chan struct{}),
	}

	out, err := r.output(p, seq)
	if err != nil {
		return nil, err
	}
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Start(); err != nil {
		p.closeOutput()
		return nil, fmt.Errorf("failed to start %s: %w", spec.Name, err)
	}
	p.startedAt = time.Now()

	go p.wait()
	return p, nil
}

func (r *Runner) output(p *Process, seq int) (io.Writer, error) {
	var writers []io.Writer

	if p.Spec.Output == launch.OutputScreen || p.Spec.Output == launch.OutputBoth {
		color := r.profile.Color(labelPalette[(seq-1)%len(labelPalette)])
		prefix := r.profile.String("[" + p.Label + "] ").Foreground(color).String()
		lw := &lineWriter{out: r.console, mu: &r.consoleMu, prefix: prefix}
		p.flushers = append(p.flushers, lw)
		writers = append(writers, lw)
	}

	if p.Spec.Output == launch.OutputLog || p.Spec.Output == launch.OutputBoth {
		if err := os.MkdirAll(r.logDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log dir: %w", err)
		}
		f, err := os.Create(filepath.Join(r.logDir, p.Label+".log"))
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		p.logFile = f
		writers = append(writers, f)
	}

	switch len(writers) {
	case 0:
		return io.Discard, nil
	case 1:
		return writers[0], nil
	}
	return io.MultiWriter(writers...), nil
}

// Process is a running node.
type Process struct {
	Spec  launch.ProcessSpec
	Label string

	cmd       *exec.Cmd
	done      chan struct{}
	startedAt time.Time
	exitCode  int
	err       error
	logFile   *os.File
	flushers  []*lineWriter
}

// PID returns the operating system process ID.
func (p *Process) PID() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// StartedAt returns when the process was started.
func (p *Process) StartedAt() time.Time {
	return p.startedAt
}

// Done is closed once the process has exited and its output is flushed.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the process exits and returns its exit code.
// A process terminated by a signal reports -1. The error is only set for
// failures other than a non-zero exit.
func (p *Process) Wait() (int, error) {
	<-p.done
	return p.exitCode, p.err
}

func (p *Process) wait() {
	err := p.cmd.Wait()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		p.exitCode = 0
	case errors.As(err, &exitErr):
		p.exitCode = exitErr.ExitCode()
	default:
		p.exitCode = -1
		p.err = err
	}
	p.closeOutput()
	close(p.done)
}

func (p *Process) closeOutput() {
	for _, f := range p.flushers {
		f.Flush()
	}
	if p.logFile != nil {
		_ = p.logFile.Close()
	}
}

// Stop asks the process to exit with SIGINT, the way a terminal Ctrl+C
// would, and kills it if it is still running after grace.
func (p *Process) Stop(grace time.Duration) error {
	select {
	case <-p.done:
		return nil
	default:
	}

	if runtime.GOOS == "windows" {
		return p.kill()
	}
	if err := p.cmd.Process.Signal(os.Interrupt); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			<-p.done
			return nil
		}
		return p.kill()
	}

	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-p.done:
		return nil
	case <-timer.C:
		return p.kill()
	}
}

func (p *Process) kill() error {
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to kill %s: %w", p.Label, err)
	}
	<-p.done
	return nil
}
