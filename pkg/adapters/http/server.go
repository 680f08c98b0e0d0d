package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/planlaunch/pkg/domain"
	"github.com/aretw0/planlaunch/pkg/launch"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Launcher is the read side of a launcher the status surface reports on.
type Launcher interface {
	CurrentPlan() *launch.Plan
	Processes() []domain.ProcessRecord
	Runs(ctx context.Context) ([]domain.Run, error)
}

// Server serves the launch status.
type Server struct {
	Launcher Launcher
	Streams  *StreamManager
	Metrics  http.Handler
	Version  string
	Logger   *slog.Logger
}

// Option configures the server.
type Option func(*Server)

// WithMetrics mounts a Prometheus handler on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithStreams shares the stream manager fed by lifecycle hooks (see StreamManager.Hooks).
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = strings.TrimSpace(v)
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates the HTTP handler for the launcher status.
func NewHandler(l Launcher, opts ...Option) http.Handler {
	s := &Server{
		Launcher: l,
		Streams:  NewStreamManager(),
		Version:  "unknown",
		Logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/plan", s.GetPlan)
	r.Get("/processes", s.GetProcesses)
	r.Get("/runs", s.GetRuns)
	r.Get("/events", s.SubscribeEvents)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}
	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "planlaunch",
		"version": s.Version,
	})
}

// GetPlan handles the GET /plan request.
func (s *Server) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan := s.Launcher.CurrentPlan()
	if plan == nil {
		http.Error(w, "No launch in progress", http.StatusNotFound)
		return
	}
	s.writeJSON(w, plan)
}

// GetProcesses handles the GET /processes request.
func (s *Server) GetProcesses(w http.ResponseWriter, r *http.Request) {
	procs := s.Launcher.Processes()
	if procs == nil {
		procs = []domain.ProcessRecord{}
	}
	s.writeJSON(w, procs)
}

// GetRuns handles the GET /runs request.
func (s *Server) GetRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.Launcher.Runs(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Runs error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("list runs failed", "error", err)
		return
	}
	if runs == nil {
		runs = []domain.Run{}
	}
	s.writeJSON(w, runs)
}

// StreamManager fans process events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]struct{}
}

// NewStreamManager creates an empty stream manager.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- string]struct{}),
	}
}

// Subscribe registers a subscriber. The returned func unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe() (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 16)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Broadcast sends msg to every subscriber, dropping it for slow ones.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			slog.Warn("SSE: client buffer full, dropping event")
		}
	}
}

// Hooks returns lifecycle hooks that broadcast every process event as JSON.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	publish := func(_ context.Context, e *domain.ProcessEvent) {
		data, err := json.Marshal(e)
		if err != nil {
			return
		}
		sm.Broadcast(string(data))
	}
	return domain.LifecycleHooks{OnProcessStart: publish, OnProcessFailed: publish, OnProcessExit: publish}
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: process\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
