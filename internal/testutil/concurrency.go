package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/vk/bstgraph/internal/element"
)

// ExecutionRecord holds the start and end times of processing one element.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// SleeperProcessor is a scheduler.Processor for concurrency tests. It sleeps
// for a fixed time per element and records when each one ran.
type SleeperProcessor struct {
	mu             sync.Mutex
	executionTimes map[string]ExecutionRecord
	sleepDuration  time.Duration
	fail           map[string]error
}

// NewSleeperProcessor creates a processor that sleeps for sleep per element.
func NewSleeperProcessor(sleep time.Duration) *SleeperProcessor {
	return &SleeperProcessor{
		executionTimes: make(map[string]ExecutionRecord),
		sleepDuration:  sleep,
		fail:           make(map[string]error),
	}
}

// FailOn makes processing of key return err.
func (p *SleeperProcessor) FailOn(key string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail[key] = err
}

// Process implements scheduler.Processor.
func (p *SleeperProcessor) Process(ctx context.Context, e *element.Resolved) error {
	start := time.Now()
	select {
	case <-time.After(p.sleepDuration):
	case <-ctx.Done():
	}
	end := time.Now()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.executionTimes[e.Name] = ExecutionRecord{Start: start, End: end}
	return p.fail[e.Name]
}

// Record returns the execution record of key.
func (p *SleeperProcessor) Record(key string) (ExecutionRecord, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.executionTimes[key]
	return r, ok
}
