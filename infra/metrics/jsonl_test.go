package metrics

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/edfsim/core/metrics"
)

func TestJSONLSinkAppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "run.jsonl")
	s, err := NewJSONLSink(path, 1, 2, 1)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	require.NoError(t, s.RecordDecision(coremetrics.DecisionEvent{RunID: "r1", Tick: 0, TaskID: "A", Ratio: 0.5, Admitted: true, AbsoluteDeadline: 10}))
	require.NoError(t, s.RecordDecision(coremetrics.DecisionEvent{RunID: "r1", Tick: 2, TaskID: "B", Ratio: float32(math.Inf(1)), AbsoluteDeadline: 2}))
	require.NoError(t, s.RecordCompletion(coremetrics.CompletionEvent{RunID: "r1", Tick: 12, TaskID: "A", AbsoluteDeadline: 10, Missed: true}))
	require.NoError(t, s.Flush())

	all, err := ReadAudit(path, AuditQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, KindDecision, all[0].Kind)
	assert.Equal(t, "0.5", all[0].Ratio)
	assert.Equal(t, "+Inf", all[1].Ratio)
	assert.True(t, all[2].Missed)

	rejected, err := ReadAudit(path, AuditQuery{RejectedOnly: true})
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, "B", rejected[0].TaskID)

	forA, err := ReadAudit(path, AuditQuery{TaskID: "A", RunID: "r1"})
	require.NoError(t, err)
	assert.Len(t, forA, 2)
}

func TestReadAuditIncludesBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.jsonl")
	backup := filepath.Join(dir, "audit-2026-01-01T00-00-00.000.jsonl")
	require.NoError(t, os.WriteFile(backup, []byte(`{"kind":"decision","run_id":"old","task_id":"X","ratio":"2"}`+"\n"+"not json\n"), 0o644))

	s, err := NewJSONLSink(path, 0, 0, 0)
	require.NoError(t, err)
	require.NoError(t, s.RecordDecision(coremetrics.DecisionEvent{RunID: "new", TaskID: "Y", Ratio: 0.25, Admitted: true}))
	require.NoError(t, s.Flush())

	recs, err := ReadAudit(path, AuditQuery{})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "old", recs[0].RunID)
	assert.Equal(t, "new", recs[1].RunID)
}

func TestReadAuditMissingFile(t *testing.T) {
	_, err := ReadAudit(filepath.Join(t.TempDir(), "none.jsonl"), AuditQuery{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
