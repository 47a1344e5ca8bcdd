package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/specialistvlad/fieldrover/internal/ctxlog"
	"golang.org/x/sync/errgroup"
)

// Run starts the location notifier and the task scheduler, then runs the
// operator shell on in. When the operator types exit, or ctx is cancelled,
// Run stops at once. When in is exhausted, queued tasks and pending location
// reports are finished first.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if port := a.settings.Healthcheck.Port; port > 0 {
		a.startHealthcheckServer(port)
	}

	loopCtx, stop := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(loopCtx)
	group.Go(func() error { return a.notifier.Run(groupCtx) })
	group.Go(func() error { return a.scheduler.Run(groupCtx) })

	a.logger.Info("🚜 Rover ready.", "location", a.rover.Location())
	shellErr := a.shell.Run(ctx, in)

	if shellErr == nil && !a.shell.Exited() && ctx.Err() == nil {
		a.logger.Info("Input closed, finishing queued tasks.", "pending", a.scheduler.Len())
		if err := a.scheduler.Wait(ctx); err == nil {
			_ = a.notifier.Wait(ctx)
		}
	}

	stop()
	loopErr := group.Wait()

	var closeErr error
	if a.telemetry != nil {
		closeErr = a.telemetry.Close()
	}
	httpErr := a.closeHealthcheckServer()

	a.logger.Debug("App.Run method finished.")
	if shellErr != nil {
		return fmt.Errorf("shell failed: %w", shellErr)
	}
	return errors.Join(loopErr, closeErr, httpErr)
}
