package scheduler

import (
	"context"

	"github.com/specialistvlad/fieldrover/internal/task"
)

// Scheduler accepts tasks and runs them one at a time, in order.
type Scheduler interface {
	// Enqueue appends t to the queue. It never blocks.
	Enqueue(t *task.Task)
	// Run consumes the queue until ctx is cancelled.
	Run(ctx context.Context) error
}

// CompletionHook is called after every task, successful or not. err is nil on
// success.
type CompletionHook func(t *task.Task, err error)
