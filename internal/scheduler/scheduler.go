package scheduler

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/vk/bstgraph/internal/ctxlog"
	"github.com/vk/bstgraph/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// Scheduler runs processors over a registry.
type Scheduler struct {
	workers int
	metrics *metrics.Metrics
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithMetrics records scheduling metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// New returns a scheduler with the given number of workers. A non-positive
// count means one worker per CPU.
func New(workers int, opts ...Option) *Scheduler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	s := &Scheduler{workers: workers}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// result is what a worker reports back for one element.
type result struct {
	key    string
	status Status
	err    error
}

// Run processes every element of reg. The first failure cancels the run:
// elements that depend on a failed element are never handed out, and
// elements still waiting when the run is cancelled are skipped. The report
// is returned even when Run fails.
func (s *Scheduler) Run(ctx context.Context, reg Registry, proc Processor) (*Report, error) {
	runID := uuid.NewString()
	ctx, logger := ctxlog.With(ctx, "runID", runID)
	s.metrics.IncrementScheduleRuns()

	t, err := newTracker(reg)
	if err != nil {
		return nil, err
	}
	report := &Report{RunID: runID, Statuses: t.status, Errors: make(map[string]error)}
	logger.Info("Scheduler run started.", "elements", len(t.status), "workers", s.workers)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	ready := make(chan string, len(t.status))
	results := make(chan result, len(t.status))

	for i := range s.workers {
		g.Go(func() error {
			s.worker(gctx, i, reg, proc, ready, results)
			return nil
		})
	}

	g.Go(func() error {
		defer close(ready)
		for _, k := range t.initial() {
			ready <- k
		}
		var firstErr error
		for t.remaining > 0 {
			r := <-results
			switch r.status {
			case Done:
				for _, k := range t.complete(r.key) {
					ready <- k
				}
			case Failed:
				report.Errors[r.key] = r.err
				if firstErr == nil {
					firstErr = fmt.Errorf("element %s: %w", r.key, r.err)
					cancel()
				}
				s.skipAll(t.fail(r.key, Failed))
			case Skipped:
				s.skipAll(t.fail(r.key, Skipped))
			}
		}
		if firstErr == nil {
			firstErr = ctx.Err()
		}
		return firstErr
	})

	err = g.Wait()
	logger.Info("Scheduler run finished.", "done", len(report.Done()), "failed", len(report.Failed()), "skipped", len(report.Skipped()))
	return report, err
}

func (s *Scheduler) skipAll(keys []string) {
	for range keys {
		s.metrics.ObserveProcess(time.Time{}, metrics.ResultSkipped)
	}
}

// worker processes released elements until the ready channel is closed.
func (s *Scheduler) worker(ctx context.Context, workerID int, reg Registry, proc Processor, ready <-chan string, results chan<- result) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for key := range ready {
		workerLogger := logger.With("workerID", workerID, "element", key)
		if ctx.Err() != nil {
			s.metrics.ObserveProcess(time.Time{}, metrics.ResultSkipped)
			results <- result{key: key, status: Skipped}
			continue
		}

		e, err := reg.ResolvedElement(key)
		if err != nil {
			results <- result{key: key, status: Failed, err: err}
			continue
		}

		workerLogger.Debug("Worker picked up element.")
		s.metrics.WorkerStarted()
		start := time.Now()
		if err := proc.Process(ctx, e); err != nil {
			workerLogger.Error("Element processing failed.", "error", err)
			s.metrics.ObserveProcess(start, metrics.ResultFailed)
			results <- result{key: key, status: Failed, err: err}
			continue
		}
		s.metrics.ObserveProcess(start, metrics.ResultDone)
		workerLogger.Debug("Element processed.")
		results <- result{key: key, status: Done}
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}
