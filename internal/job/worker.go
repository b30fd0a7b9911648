package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/riverqueue/river"

	"github.com/dmitrymomot/remindr/internal/dispatch"
)

// Dispatcher runs one dispatch batch. *dispatch.Runner satisfies it.
type Dispatcher interface {
	Run(ctx context.Context, now time.Time) (*dispatch.Report, error)
}

// DispatchArgs are the arguments of the periodic dispatch job.
type DispatchArgs struct{}

func (DispatchArgs) Kind() string { return "remindr:dispatch" }

// InsertOpts makes the job unique per minute and disables retries. A batch
// that fails is picked up again by the next tick.
func (DispatchArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: 1,
		UniqueOpts:  river.UniqueOpts{ByPeriod: time.Minute},
	}
}

type dispatchWorker struct {
	river.WorkerDefaults[DispatchArgs]
	dispatcher Dispatcher
	logger     *slog.Logger
	timeout    time.Duration
	now        func() time.Time
}

func (w *dispatchWorker) Timeout(*river.Job[DispatchArgs]) time.Duration {
	return w.timeout
}

func (w *dispatchWorker) Work(ctx context.Context, job *river.Job[DispatchArgs]) error {
	report, err := w.dispatcher.Run(ctx, w.now())
	if err != nil {
		w.logger.ErrorContext(ctx, "dispatch job failed",
			slog.Int64("job_id", job.ID),
			slog.Any("error", err),
		)
		return err
	}

	w.logger.DebugContext(ctx, "dispatch job completed",
		slog.Int64("job_id", job.ID),
		slog.String("run_id", report.RunID),
		slog.Int("processed", report.Processed),
		slog.Int("failed", report.Count(dispatch.StatusFailed)),
	)
	return nil
}
