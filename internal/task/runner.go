package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Common errors returned by Submit.
var (
	ErrRunnerStopped = errors.New("task runner is stopped")
	ErrQueueFull     = errors.New("task queue is full")
)

// RunnerConfig holds configuration for the task runner.
type RunnerConfig struct {
	// WorkerCount is the number of concurrent workers. Values below 1 mean 1.
	WorkerCount int

	// QueueSize is the buffer size of the task queue.
	QueueSize int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// Runner executes submitted tasks on a pool of worker goroutines.
type Runner struct {
	tasks      chan Task
	config     RunnerConfig
	logger     *slog.Logger
	errHandler func(task Task, err error)

	mu      sync.RWMutex
	started bool
	closed  bool

	workers sync.WaitGroup

	// pending counts tasks accepted by Submit and not yet finished.
	pendingMu   sync.Mutex
	pendingDone *sync.Cond
	pending     int
}

// NewRunner creates a Runner. Call Start before submitting work that must run.
func NewRunner(config RunnerConfig, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if config.WorkerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
		config.WorkerCount = 1
	}
	if config.QueueSize < 0 {
		config.QueueSize = 0
	}

	r := &Runner{
		tasks:  make(chan Task, config.QueueSize),
		config: config,
		logger: logger,
		errHandler: func(task Task, err error) {
			logger.Error("task execution failed",
				"task_name", task.Name(),
				"error", err)
		},
	}
	r.pendingDone = sync.NewCond(&r.pendingMu)
	return r
}

// SetErrorHandler replaces the handler called when a task returns an error.
func (r *Runner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// Start launches the workers. Calling it more than once has no effect.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.closed {
		return
	}
	r.started = true

	for i := 0; i < r.config.WorkerCount; i++ {
		r.workers.Add(1)
		go r.worker(i)
	}
}

// Submit enqueues a task without blocking.
func (r *Runner) Submit(task Task) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrRunnerStopped
	}

	r.addPending(1)
	select {
	case r.tasks <- task:
		r.logger.Debug("task enqueued",
			"task_name", task.Name(),
			"queue_len", len(r.tasks),
			"queue_cap", cap(r.tasks))
		return nil
	default:
		r.addPending(-1)
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(r.tasks))
	}
}

// Wait blocks until every submitted task has finished. The runner stays
// usable, and Submit may be called concurrently.
func (r *Runner) Wait() {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()
	for r.pending > 0 {
		r.pendingDone.Wait()
	}
}

func (r *Runner) addPending(delta int) {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()
	r.pending += delta
	if r.pending == 0 {
		r.pendingDone.Broadcast()
	}
}

// Stop refuses new tasks, drains the queue and waits for the workers to exit.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.tasks)
	r.mu.Unlock()

	r.workers.Wait()
}

func (r *Runner) worker(id int) {
	defer r.workers.Done()

	r.logger.Debug("starting worker", "worker_id", id)
	for task := range r.tasks {
		r.process(task, id)
	}
	r.logger.Debug("task channel closed, stopping worker", "worker_id", id)
}

func (r *Runner) process(task Task, workerID int) {
	defer r.addPending(-1)

	logger := r.logger.With("task_name", task.Name(), "worker_id", workerID)
	logger.Debug("processing task")

	if err := r.execute(task); err != nil {
		r.errHandler(task, err)
		return
	}
	logger.Debug("task completed successfully")
}

func (r *Runner) execute(task Task) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("task panicked: %v", rec)
		}
	}()
	return task.Execute(context.Background())
}
