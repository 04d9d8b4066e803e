package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveResolve(time.Now(), 3, nil)
		m.IncrementScheduleRuns()
		m.WorkerStarted()
		m.ObserveProcess(time.Now(), ResultDone)
		m.IncrementReloads(errors.New("boom"))
	})
}

func TestObserveResolve(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveResolve(time.Now(), 7, nil)
	m.ObserveResolve(time.Now(), 0, errors.New("cycle"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("error")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.ResolvedElements))
}

func TestObserveProcess(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementScheduleRuns()
	m.WorkerStarted()
	m.WorkerStarted()
	m.ObserveProcess(time.Now(), ResultDone)
	m.ObserveProcess(time.Now(), ResultFailed)
	m.ObserveProcess(time.Now(), ResultSkipped)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScheduleRuns))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.WorkersBusy))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ElementsProcessed.WithLabelValues(ResultDone)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ElementsProcessed.WithLabelValues(ResultSkipped)))
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
