package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tanvirk/ixreach/internal/common/logging"
	"github.com/tanvirk/ixreach/internal/common/runid"
)

type Task interface {
	Execute(ctx context.Context) error
}

// Worker executes a task at a fixed interval. The first execution
// starts immediately, every run carries its own run id.
type Worker struct {
	logger *slog.Logger

	interval time.Duration
	task     Task

	ctx    context.Context
	cancel context.CancelFunc

	mu sync.Mutex
}

func NewWorker(logger *slog.Logger, interval time.Duration, task Task) *Worker {
	return &Worker{
		logger:   logger,
		interval: interval,
		task:     task,
	}
}

func (w *Worker) Start() error {
	locked := w.mu.TryLock()
	if !locked {
		return errors.New("worker is already running")
	}

	defer w.mu.Unlock()

	w.ctx, w.cancel = context.WithCancel(context.Background())
	defer w.cancel()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		err := w.run(w.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			w.logger.ErrorContext(w.ctx, "Failed to execute task", logging.Error(err))
		}

		select {
		case <-w.ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *Worker) Shutdown(_ context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	return nil
}

func (w *Worker) run(ctx context.Context) error {
	return w.task.Execute(runid.With(ctx))
}
