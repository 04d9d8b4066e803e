package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/bstgraph/internal/dag"
	"github.com/vk/bstgraph/internal/element"
	"github.com/vk/bstgraph/internal/metrics"
)

type planRegistry struct{ *dag.Plan }

func (p planRegistry) StageForBuild(key string) ([]string, error) {
	return p.Plan.StageForBuild(key), nil
}

func (p planRegistry) ResolvedElement(key string) (*element.Resolved, error) {
	return &element.Resolved{Name: key}, nil
}

// newRegistry builds a registry from "element -> build dependencies".
func newRegistry(t *testing.T, deps map[string][]string) Registry {
	t.Helper()
	in := make(map[string][]dag.Dep, len(deps))
	for k, ds := range deps {
		in[k] = nil
		for _, d := range ds {
			in[k] = append(in[k], dag.Dep{Key: d, Type: element.DepBuild})
		}
	}
	plan, err := dag.NewPlan(in)
	require.NoError(t, err)
	return planRegistry{plan}
}

// recorder is a Processor that remembers what it processed.
type recorder struct {
	mu        sync.Mutex
	processed map[string]bool
	fail      map[string]error
	before    func(e *element.Resolved)
}

func newRecorder() *recorder {
	return &recorder{processed: make(map[string]bool), fail: make(map[string]error)}
}

func (r *recorder) Process(ctx context.Context, e *element.Resolved) error {
	if r.before != nil {
		r.before(e)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processed[e.Name] = true
	return r.fail[e.Name]
}

func (r *recorder) has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.processed[key]
}

func TestRun_RespectsStaging(t *testing.T) {
	reg := newRegistry(t, map[string][]string{
		"a.bst": nil,
		"b.bst": {"a.bst"},
		"c.bst": {"a.bst"},
		"d.bst": {"b.bst", "c.bst"},
		"e.bst": nil,
	})
	rec := newRecorder()
	rec.before = func(e *element.Resolved) {
		stage, _ := reg.StageForBuild(e.Name)
		for _, s := range stage {
			assert.True(t, rec.has(s), "%s started before %s finished", e.Name, s)
		}
	}

	report, err := New(4).Run(context.Background(), reg, rec)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.bst", "b.bst", "c.bst", "d.bst", "e.bst"}, report.Done())
	assert.Empty(t, report.Failed())
	assert.Empty(t, report.Skipped())
	_, err = uuid.Parse(report.RunID)
	assert.NoError(t, err)
}

func TestRun_FailureSkipsDependents(t *testing.T) {
	errBoom := errors.New("boom")
	reg := newRegistry(t, map[string][]string{
		"a.bst": nil,
		"b.bst": {"a.bst"},
		"c.bst": {"b.bst"},
		"d.bst": {"c.bst"},
	})
	rec := newRecorder()
	rec.fail["b.bst"] = errBoom

	report, err := New(1).Run(context.Background(), reg, rec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBoom))
	assert.ErrorContains(t, err, "element b.bst")

	assert.Equal(t, []string{"a.bst"}, report.Done())
	assert.Equal(t, []string{"b.bst"}, report.Failed())
	assert.Equal(t, []string{"c.bst", "d.bst"}, report.Skipped())
	assert.Equal(t, errBoom, report.Errors["b.bst"])
	assert.False(t, rec.has("c.bst"))
	assert.False(t, rec.has("d.bst"))
}

func TestRun_Cancelled(t *testing.T) {
	reg := newRegistry(t, map[string][]string{
		"a.bst": nil,
		"b.bst": {"a.bst"},
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := newRecorder()
	report, err := New(2).Run(ctx, reg, rec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, []string{"a.bst", "b.bst"}, report.Skipped())
	assert.False(t, rec.has("a.bst"))
}

func TestRun_WorkerLimit(t *testing.T) {
	deps := make(map[string][]string)
	for i := range 20 {
		deps[fmt.Sprintf("e%02d.bst", i)] = nil
	}
	reg := newRegistry(t, deps)

	var busy, peak atomic.Int32
	proc := ProcessorFunc(func(ctx context.Context, e *element.Resolved) error {
		n := busy.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		busy.Add(-1)
		return nil
	})

	report, err := New(3).Run(context.Background(), reg, proc)
	require.NoError(t, err)
	assert.Len(t, report.Done(), 20)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestRun_Empty(t *testing.T) {
	report, err := New(2).Run(context.Background(), newRegistry(t, nil), newRecorder())
	require.NoError(t, err)
	assert.Empty(t, report.Done())
}

func TestRun_Metrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	reg := newRegistry(t, map[string][]string{
		"a.bst": nil,
		"b.bst": {"a.bst"},
		"c.bst": {"b.bst"},
	})
	rec := newRecorder()
	rec.fail["b.bst"] = errors.New("boom")

	_, err := New(2, WithMetrics(m)).Run(context.Background(), reg, rec)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScheduleRuns))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ElementsProcessed.WithLabelValues(metrics.ResultDone)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ElementsProcessed.WithLabelValues(metrics.ResultFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ElementsProcessed.WithLabelValues(metrics.ResultSkipped)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.WorkersBusy))
}

func TestNew_DefaultWorkers(t *testing.T) {
	assert.Equal(t, runtime.NumCPU(), New(0).workers)
	assert.Equal(t, 7, New(7).workers)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "unknown", Status(42).String())
}
