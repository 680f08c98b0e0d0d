package domain

import "time"

// RunStatus is the lifecycle state of a launch run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded" // every process exited with code 0
	RunFailed    RunStatus = "failed"    // a process failed to start or exited non-zero
	RunStopped   RunStatus = "stopped"   // shut down by signal or cancellation
)

// ProcessState is the lifecycle state of a single launched process.
type ProcessState string

const (
	ProcessPending ProcessState = "pending"
	ProcessRunning ProcessState = "running"
	ProcessExited  ProcessState = "exited"
	ProcessFailed  ProcessState = "failed" // never started
)

// Run records one invocation of a launch description.
type Run struct {
	ID        string            `json:"id"`
	Namespace string            `json:"namespace"`
	Arguments map[string]string `json:"arguments,omitempty"`
	Status    RunStatus         `json:"status"`
	StartedAt time.Time         `json:"started_at"`
	EndedAt   *time.Time        `json:"ended_at,omitempty"`
	Processes []ProcessRecord   `json:"processes,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// ProcessRecord is the observed state of one process in a run.
type ProcessRecord struct {
	Name       string       `json:"name"`
	FQN        string       `json:"fqn"`
	Package    string       `json:"package"`
	Executable string       `json:"executable"`
	State      ProcessState `json:"state"`
	PID        int          `json:"pid,omitempty"`
	ExitCode   int          `json:"exit_code"`
	StartedAt  *time.Time   `json:"started_at,omitempty"`
	EndedAt    *time.Time   `json:"ended_at,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// Finished reports whether the run reached a terminal status.
func (r *Run) Finished() bool {
	return r.Status != RunRunning && r.Status != ""
}

// Finish stamps the end time and derives the terminal status from the processes.
// stopped marks a run interrupted from outside.
func (r *Run) Finish(at time.Time, stopped bool) {
	r.EndedAt = &at
	switch {
	case r.Error != "":
		r.Status = RunFailed
	case stopped:
		r.Status = RunStopped
	default:
		r.Status = RunSucceeded
		for _, p := range r.Processes {
			if p.State == ProcessFailed || (p.State == ProcessExited && p.ExitCode != 0) {
				r.Status = RunFailed
				break
			}
		}
	}
}
