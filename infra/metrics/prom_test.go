package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/edfsim/core/metrics"
	"github.com/kilianp07/edfsim/core/model"
)

func TestPromSinkRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.prom")
	s, err := NewPromSink(path)
	require.NoError(t, err)

	require.NoError(t, s.RecordTick(model.TraceLine{Tick: 0, State: model.StateRunning, TaskID: "A", Voltage: 0.75}))
	require.NoError(t, s.RecordTick(model.TraceLine{Tick: 1, State: model.StateContext}))
	require.NoError(t, s.RecordTick(model.TraceLine{Tick: 2, State: model.StateIdle}))
	require.NoError(t, s.RecordTick(model.TraceLine{Tick: 3, State: model.StateIdle}))
	require.NoError(t, s.RecordDecision(coremetrics.DecisionEvent{TaskID: "A", Ratio: 0.5, Admitted: true}))
	require.NoError(t, s.RecordDecision(coremetrics.DecisionEvent{TaskID: "B", Ratio: 1.5}))
	require.NoError(t, s.RecordCompletion(coremetrics.CompletionEvent{TaskID: "A", Missed: false}))

	assert.Equal(t, 2.0, testutil.ToFloat64(s.ticks.WithLabelValues("idle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.ticks.WithLabelValues("running")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.decisions.WithLabelValues("false")))
	assert.Equal(t, 0.75, testutil.ToFloat64(s.voltage))

	require.NoError(t, s.Flush())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `edfsim_ticks_total{state="idle"} 2`)
	assert.Contains(t, string(data), "edfsim_task_completions_total")
}

func TestPromSinkAlreadyRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	s1, err := NewPromSinkWithRegistry(reg, reg, "")
	require.NoError(t, err)
	s2, err := NewPromSinkWithRegistry(reg, reg, "")
	require.NoError(t, err)

	require.NoError(t, s1.RecordTick(model.TraceLine{State: model.StateIdle}))
	require.NoError(t, s2.RecordTick(model.TraceLine{State: model.StateIdle}))
	assert.Equal(t, 2.0, testutil.ToFloat64(s1.ticks.WithLabelValues("idle")))
	assert.NoError(t, s2.Flush())
}

type recordSink struct {
	ticks     int
	decisions int
	flushed   bool
}

func (r *recordSink) RecordTick(model.TraceLine) error { r.ticks++; return nil }
func (r *recordSink) RecordDecision(coremetrics.DecisionEvent) error {
	r.decisions++
	return nil
}
func (r *recordSink) Flush() error { r.flushed = true; return nil }

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := coremetrics.NewMultiSink(s1, s2, coremetrics.NopSink{})
	require.NoError(t, m.RecordTick(model.TraceLine{}))
	require.NoError(t, m.RecordDecision(coremetrics.DecisionEvent{}))
	require.NoError(t, m.RecordCompletion(coremetrics.CompletionEvent{}))
	require.NoError(t, m.Flush())
	if s1.ticks != 1 || s2.ticks != 1 || s1.decisions != 1 || s2.decisions != 1 {
		t.Fatalf("events not forwarded")
	}
	assert.True(t, s1.flushed && s2.flushed)
}
