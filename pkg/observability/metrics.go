package observability

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aretw0/planlaunch/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the launch collectors on a private registry, so that several
// launchers in one process never collide on registration.
type Metrics struct {
	registry      *prometheus.Registry
	started       *prometheus.CounterVec
	startFailures *prometheus.CounterVec
	exits         *prometheus.CounterVec
	running       prometheus.Gauge
	runs          *prometheus.CounterVec
}

// NewMetrics creates and registers the launch collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planlaunch_process_starts_total",
			Help: "Total number of node processes started",
		}, []string{"node"}),
		startFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planlaunch_process_start_failures_total",
			Help: "Total number of node processes that could not be started",
		}, []string{"node"}),
		exits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planlaunch_process_exits_total",
			Help: "Total number of node process exits by exit code",
		}, []string{"node", "code"}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planlaunch_processes_running",
			Help: "Number of node processes currently running",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planlaunch_runs_total",
			Help: "Total number of finished launch runs by status",
		}, []string{"status"}),
	}
	m.registry.MustRegister(
		m.started, m.startFailures, m.exits, m.running, m.runs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, e.g. for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RunFinished counts a finished run.
func (m *Metrics) RunFinished(status domain.RunStatus) {
	m.runs.WithLabelValues(string(status)).Inc()
}

// Hooks returns lifecycle hooks that keep the collectors up to date.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnProcessStart: func(_ context.Context, e *domain.ProcessEvent) {
			m.started.WithLabelValues(e.Process.Name).Inc()
			m.running.Inc()
		},
		OnProcessFailed: func(_ context.Context, e *domain.ProcessEvent) {
			m.startFailures.WithLabelValues(e.Process.Name).Inc()
		},
		OnProcessExit: func(_ context.Context, e *domain.ProcessEvent) {
			m.running.Dec()
			m.exits.WithLabelValues(e.Process.Name, strconv.Itoa(e.Process.ExitCode)).Inc()
		},
	}
}
