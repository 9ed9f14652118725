// Package supervisor keeps long-running workers (the HTTP server, the agent
// connection) alive, restarting them with backoff when they fail.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// ErrAlreadyRunning is returned by Start on a running supervisor
var ErrAlreadyRunning = errors.New("supervisor already running")

// WorkerFunc runs until ctx is cancelled or it fails
type WorkerFunc func(ctx context.Context) error

// RestartPolicy defines how a worker is restarted
type RestartPolicy struct {
	MaxRestarts     int
	RestartDelay    time.Duration
	BackoffFactor   float64
	MaxBackoffDelay time.Duration
}

// DefaultRestartPolicy returns a default restart policy
func DefaultRestartPolicy() RestartPolicy {
	return RestartPolicy{
		MaxRestarts:     5,
		RestartDelay:    1 * time.Second,
		BackoffFactor:   2.0,
		MaxBackoffDelay: 30 * time.Second,
	}
}

// Backoff returns the delay before the given restart (1-based)
func (p RestartPolicy) Backoff(restart int) time.Duration {
	delay := p.RestartDelay
	for i := 1; i < restart; i++ {
		delay = time.Duration(float64(delay) * p.BackoffFactor)
		if p.MaxBackoffDelay > 0 && delay > p.MaxBackoffDelay {
			return p.MaxBackoffDelay
		}
	}
	return delay
}

// Status is a snapshot of one worker
type Status struct {
	Name         string    `json:"name"`
	Running      bool      `json:"running"`
	RestartCount int       `json:"restart_count"`
	LastError    string    `json:"last_error,omitempty"`
	LastRestart  time.Time `json:"last_restart,omitempty"`
}

type worker struct {
	name   string
	fn     WorkerFunc
	policy RestartPolicy

	running      bool
	restartCount int
	lastError    error
	lastRestart  time.Time
}

// Supervisor runs registered workers until Stop
type Supervisor struct {
	mu      sync.Mutex
	workers map[string]*worker
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	logger  *slog.Logger

	failed   chan struct{}
	failOnce sync.Once
	err      error
}

// New creates an empty supervisor
func New(logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		workers: make(map[string]*worker),
		logger:  logger,
		failed:  make(chan struct{}),
	}
}

// Register adds a worker. Workers must be registered before Start.
func (s *Supervisor) Register(name string, fn WorkerFunc, policy RestartPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}
	if _, exists := s.workers[name]; exists {
		return fmt.Errorf("worker %q already registered", name)
	}
	s.workers[name] = &worker{name: name, fn: fn, policy: policy}
	return nil
}

// Start launches every registered worker under ctx
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	for _, w := range s.workers {
		w.running = true
		s.wg.Add(1)
		go s.run(ctx, w)
	}

	s.logger.Info("[supervisor] started", "workers", len(s.workers))
	return nil
}

// Stop cancels every worker and waits up to timeout for them to return.
// It reports whether all workers stopped in time.
func (s *Supervisor) Stop(timeout time.Duration) bool {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return true
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("[supervisor] all workers stopped")
		return true
	case <-time.After(timeout):
		s.logger.Warn("[supervisor] timeout waiting for workers to stop")
		return false
	}
}

func (s *Supervisor) run(ctx context.Context, w *worker) {
	defer s.wg.Done()
	defer s.setRunning(w, false)

	for {
		err := w.fn(ctx)

		if ctx.Err() != nil {
			s.logger.Debug("[supervisor] worker stopped", "worker", w.name)
			return
		}
		if err == nil {
			s.logger.Info("[supervisor] worker completed", "worker", w.name)
			return
		}

		s.mu.Lock()
		w.lastError = err
		w.restartCount++
		restarts := w.restartCount
		s.mu.Unlock()

		if restarts > w.policy.MaxRestarts {
			s.logger.Error("[supervisor] worker exceeded max restarts, giving up",
				"worker", w.name, "restarts", restarts-1, "error", err)
			s.fail(fmt.Errorf("worker %q gave up after %d restarts: %w", w.name, restarts-1, err))
			return
		}

		delay := w.policy.Backoff(restarts)
		s.mu.Lock()
		w.lastRestart = time.Now().Add(delay)
		s.mu.Unlock()

		s.logger.Warn("[supervisor] worker failed, restarting",
			"worker", w.name, "restart", restarts, "max", w.policy.MaxRestarts, "delay", delay, "error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}
	}
}

func (s *Supervisor) fail(err error) {
	s.failOnce.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.failed)
	})
}

// Failed is closed once a worker has used up its restarts. Callers select on
// it next to their shutdown signal and exit with Err.
func (s *Supervisor) Failed() <-chan struct{} {
	return s.failed
}

// Err returns the error of the first worker that gave up, or nil
func (s *Supervisor) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Supervisor) setRunning(w *worker, running bool) {
	s.mu.Lock()
	w.running = running
	s.mu.Unlock()
}

// Status returns a snapshot of every worker, sorted by name
func (s *Supervisor) Status() []Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Status, 0, len(s.workers))
	for _, w := range s.workers {
		st := Status{
			Name:         w.name,
			Running:      w.running,
			RestartCount: w.restartCount,
			LastRestart:  w.lastRestart,
		}
		if w.lastError != nil {
			st.LastError = w.lastError.Error()
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// IsHealthy reports whether every worker is running and has not used up
// more than half of its restarts
func (s *Supervisor) IsHealthy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.workers {
		if !w.running || w.restartCount > w.policy.MaxRestarts/2 {
			return false
		}
	}
	return true
}
