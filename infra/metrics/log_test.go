package metrics

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/edfsim/core/factory"
	coremetrics "github.com/kilianp07/edfsim/core/metrics"
	"github.com/kilianp07/edfsim/infra/logger"
)

func TestLogSinkReportsRejections(t *testing.T) {
	var buf bytes.Buffer
	l, err := logger.NewWithOptions("audit", logger.Options{Out: &buf})
	require.NoError(t, err)
	s := NewLogSink(l)

	require.NoError(t, s.RecordDecision(coremetrics.DecisionEvent{TaskID: "ok", Ratio: 0.5, Admitted: true}))
	assert.Empty(t, buf.String(), "admissions are logged at debug")

	require.NoError(t, s.RecordDecision(coremetrics.DecisionEvent{TaskID: "big", Tick: 4, Ratio: 1.5}))
	assert.Contains(t, buf.String(), "task big rejected at tick 4: utilization 1.5 exceeds 1")

	buf.Reset()
	require.NoError(t, s.RecordCompletion(coremetrics.CompletionEvent{TaskID: "late", Tick: 9, AbsoluteDeadline: 5, Missed: true}))
	assert.Contains(t, buf.String(), "task late completed at tick 9 after its deadline 5")
}

func TestLogSinkFactoryOptions(t *testing.T) {
	var buf bytes.Buffer
	s, err := coremetrics.NewSink([]factory.ModuleConfig{{Type: "log", Conf: map[string]any{
		"component": "decisions",
		"format":    "json",
		"level":     "debug",
		"out":       &buf,
	}}})
	require.NoError(t, err)

	require.NoError(t, s.(coremetrics.DecisionRecorder).RecordDecision(coremetrics.DecisionEvent{TaskID: "A", Ratio: 0.5, Admitted: true}))
	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "decisions", rec["component"])
	assert.Equal(t, "debug", rec["level"])
	assert.Equal(t, "A", rec["task_id"])

	_, err = coremetrics.NewSink([]factory.ModuleConfig{{Type: "log", Conf: map[string]any{"format": "xml"}}})
	assert.Error(t, err)
}
