package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/specialistvlad/fieldrover/internal/ctxlog"
	"github.com/specialistvlad/fieldrover/internal/metrics"
	"github.com/specialistvlad/fieldrover/internal/queue"
	"github.com/specialistvlad/fieldrover/internal/task"
)

// ErrTaskPanicked wraps a panic recovered from a task body.
var ErrTaskPanicked = errors.New("task panicked")

// DefaultScheduler is the single-consumer FIFO implementation of Scheduler.
type DefaultScheduler struct {
	queue   *queue.Queue[*task.Task]
	onDone  CompletionHook
	metrics *metrics.Registry

	mu      sync.Mutex
	current *task.Task
}

var _ Scheduler = (*DefaultScheduler)(nil)

// New creates a scheduler. onDone may be nil.
func New(onDone CompletionHook, m *metrics.Registry) *DefaultScheduler {
	if onDone == nil {
		onDone = func(*task.Task, error) {}
	}
	return &DefaultScheduler{
		queue:   queue.New[*task.Task](),
		onDone:  onDone,
		metrics: m,
	}
}

// Enqueue implements Scheduler.
func (s *DefaultScheduler) Enqueue(t *task.Task) {
	t.EnqueuedAt = time.Now()
	s.queue.Put(t)
	s.metrics.TasksEnqueued.Inc()
	s.metrics.TaskQueueDepth.Set(float64(s.queue.Len()))
}

// Run implements Scheduler. It returns nil once ctx is cancelled.
func (s *DefaultScheduler) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Task scheduler started.")
	defer logger.Debug("Task scheduler stopped.")

	for {
		t, err := s.queue.Get(ctx)
		if err != nil {
			return nil
		}
		s.metrics.TaskQueueDepth.Set(float64(s.queue.Len()))

		err = s.runOne(ctx, t)
		s.queue.Done()
		s.onDone(t, err)
	}
}

// runOne executes a single task and converts a panic into an error.
func (s *DefaultScheduler) runOne(ctx context.Context, t *task.Task) (err error) {
	taskCtx := ctxlog.With(ctx, "task", t.Name, "task_id", t.ShortID())
	logger := ctxlog.FromContext(taskCtx)

	s.setCurrent(t)
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
			logger.Debug("Recovered task panic.", "stack", string(debug.Stack()))
		}
		s.setCurrent(nil)

		elapsed := time.Since(started)
		s.metrics.TaskDuration.Observe(elapsed.Seconds())
		if err != nil {
			s.metrics.TasksCompleted.WithLabelValues("failed").Inc()
			logger.Error("Task failed.", "error", err, "duration", elapsed)
			return
		}
		s.metrics.TasksCompleted.WithLabelValues("ok").Inc()
		logger.Info("Task finished.", "duration", elapsed)
	}()

	logger.Info("Task started.", "waited", started.Sub(t.EnqueuedAt))
	return t.Execute(taskCtx)
}

func (s *DefaultScheduler) setCurrent(t *task.Task) {
	s.mu.Lock()
	s.current = t
	s.mu.Unlock()
}

// Current returns the task being executed, if any.
func (s *DefaultScheduler) Current() (*task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != nil
}

// Pending returns the queued tasks that have not started yet, oldest first.
func (s *DefaultScheduler) Pending() []*task.Task {
	return s.queue.Snapshot()
}

// Len returns the number of queued tasks that have not started yet.
func (s *DefaultScheduler) Len() int {
	return s.queue.Len()
}

// Wait blocks until every enqueued task has finished or ctx ends.
func (s *DefaultScheduler) Wait(ctx context.Context) error {
	return s.queue.Join(ctx)
}
