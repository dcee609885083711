package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// JobProcessor defines the interface for processing jobs
type JobProcessor interface {
	ProcessJobs(ctx context.Context) error
}

// Worker runs a JobProcessor once at start and then on every tick. Runs
// never overlap: a tick that arrives while a run is in progress is dropped.
type Worker struct {
	processor    JobProcessor
	pollInterval time.Duration
	logger       logrus.FieldLogger
	stopChan     chan struct{}
	doneChan     chan struct{}
	stopOnce     sync.Once
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithLogger sets the worker's logger.
func WithLogger(logger logrus.FieldLogger) WorkerOption {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWorker creates a new Worker instance
func NewWorker(processor JobProcessor, pollInterval time.Duration, opts ...WorkerOption) *Worker {
	w := &Worker{
		processor:    processor,
		pollInterval: pollInterval,
		logger:       logrus.StandardLogger(),
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start runs the loop until Stop is called or ctx is cancelled. It blocks.
func (w *Worker) Start(ctx context.Context) {
	defer close(w.doneChan)

	w.logger.WithField("interval", w.pollInterval.String()).Info("worker started")

	select {
	case <-ctx.Done():
		w.logger.Info("worker stopped: context cancelled")
		return
	case <-w.stopChan:
		w.logger.Info("worker stopped: stop signal received")
		return
	default:
	}
	w.run(ctx)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker stopped: context cancelled")
			return
		case <-w.stopChan:
			w.logger.Info("worker stopped: stop signal received")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *Worker) run(ctx context.Context) {
	if err := w.processor.ProcessJobs(ctx); err != nil && ctx.Err() == nil {
		w.logger.WithError(err).Warn("worker run failed")
	}
}

// Stop signals the loop to exit and waits for it. Safe to call more than
// once; must only be called after Start.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
	<-w.doneChan
	w.logger.Info("worker shutdown complete")
}

// Done is closed once Start has returned.
func (w *Worker) Done() <-chan struct{} {
	return w.doneChan
}
