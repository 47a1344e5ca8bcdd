package world

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/fieldrover/internal/ctxlog"
	"github.com/specialistvlad/fieldrover/internal/metrics"
)

// DefaultRetryInterval is the pause between two attempts.
const DefaultRetryInterval = 5 * time.Second

// ErrRetriesExhausted is returned when MaxAttempts is reached.
var ErrRetriesExhausted = errors.New("world store retries exhausted")

// RetryPolicy is a constant-interval retry policy.
type RetryPolicy struct {
	Interval time.Duration
	// MaxAttempts caps the number of attempts. Zero retries forever.
	MaxAttempts int
}

// Retrying wraps a Store and retries I/O failures (ErrIO) at a fixed
// interval. Other failures, such as a malformed document, are returned at once.
type Retrying struct {
	next    Store
	policy  RetryPolicy
	metrics *metrics.Registry
}

var _ Store = (*Retrying)(nil)

// NewRetrying wraps next. A non-positive interval falls back to DefaultRetryInterval.
func NewRetrying(next Store, policy RetryPolicy, m *metrics.Registry) *Retrying {
	if policy.Interval <= 0 {
		policy.Interval = DefaultRetryInterval
	}
	return &Retrying{next: next, policy: policy, metrics: m}
}

// Load implements Store.
func (r *Retrying) Load(ctx context.Context) (*Document, error) {
	var doc *Document
	err := r.do(ctx, "load", func() error {
		var err error
		doc, err = r.next.Load(ctx)
		return err
	})
	return doc, err
}

// Save implements Store.
func (r *Retrying) Save(ctx context.Context, doc *Document) error {
	return r.do(ctx, "save", func() error {
		return r.next.Save(ctx, doc)
	})
}

func (r *Retrying) do(ctx context.Context, op string, attempt func() error) error {
	logger := ctxlog.FromContext(ctx).With("op", op)

	for n := 1; ; n++ {
		err := attempt()
		if err == nil {
			if n > 1 {
				logger.Info("World store recovered.", "attempts", n)
			}
			return nil
		}
		if !errors.Is(err, ErrIO) {
			return err
		}
		if r.policy.MaxAttempts > 0 && n >= r.policy.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, n, err)
		}

		logger.Warn("World store failed, retrying.", "attempt", n, "retry_in", r.policy.Interval, "error", err)
		r.metrics.PersistenceRetries.WithLabelValues(op).Inc()

		select {
		case <-time.After(r.policy.Interval):
		case <-ctx.Done():
			return fmt.Errorf("world store %s abandoned: %w", op, ctx.Err())
		}
	}
}
