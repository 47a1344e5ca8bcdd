// Package scheduler serializes operator tasks into a single pipeline.
//
// # How It Works
//
// Enqueue appends to an unbounded FIFO queue and returns immediately; it never
// blocks and never rejects. Run is the single consumer:
//
//  1. take the head task, waiting if the queue is empty
//  2. execute it to completion
//  3. mark it done
//  4. call the completion hook with the task and its outcome
//
// Exactly one task is in flight at any time and tasks finish in the order
// they were enqueued.
//
// # Failures
//
// An error returned by a task, or a panic raised inside it, is caught at the
// scheduler boundary. It is logged, counted, passed to the completion hook,
// and the loop moves on to the next task. Nothing a task does can stop Run;
// only cancelling Run's context does.
package scheduler
