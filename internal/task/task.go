// Package task defines the deferred unit of work queued by operator commands.
package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Func is the body of a task. Arguments are captured by the closure when the
// task is created.
type Func func(ctx context.Context) error

// Task is one queued operator command. It is owned by the scheduler's queue
// until dequeued, executed once, then discarded. There is no retry.
type Task struct {
	// ID uniquely identifies the task in logs and listings.
	ID string
	// Name is a short human-readable description, e.g. "goto charger".
	Name string
	// EnqueuedAt is stamped by the scheduler.
	EnqueuedAt time.Time

	fn Func
}

// New wraps fn into a Task with a fresh ID.
func New(name string, fn Func) *Task {
	return &Task{
		ID:   uuid.NewString(),
		Name: name,
		fn:   fn,
	}
}

// Execute runs the task body.
func (t *Task) Execute(ctx context.Context) error {
	if t.fn == nil {
		return fmt.Errorf("task %q has no body", t.Name)
	}
	return t.fn(ctx)
}

// ShortID returns the first block of the ID for compact listings.
func (t *Task) ShortID() string {
	if len(t.ID) < 8 {
		return t.ID
	}
	return t.ID[:8]
}

func (t *Task) String() string {
	return fmt.Sprintf("%s [%s]", t.Name, t.ShortID())
}
