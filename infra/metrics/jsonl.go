package metrics

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/natefinch/lumberjack.v2"

	coremetrics "github.com/kilianp07/edfsim/core/metrics"
	"github.com/kilianp07/edfsim/core/model"
)

// Audit record kinds.
const (
	KindDecision   = "decision"
	KindCompletion = "completion"
)

// AuditRecord is one line of the JSONL audit log.
type AuditRecord struct {
	Kind             string `json:"kind"`
	RunID            string `json:"run_id"`
	Tick             uint32 `json:"tick"`
	TaskID           string `json:"task_id"`
	AbsoluteDeadline uint32 `json:"absolute_deadline"`
	// Ratio is the admission ratio as text so an infinite ratio survives.
	Ratio    string `json:"ratio,omitempty"`
	Admitted bool   `json:"admitted,omitempty"`
	Missed   bool   `json:"deadline_missed,omitempty"`
}

// AuditQuery filters records read back from an audit log. Zero fields match
// everything.
type AuditQuery struct {
	RunID        string
	TaskID       string
	RejectedOnly bool
}

func (q AuditQuery) match(r AuditRecord) bool {
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	if q.TaskID != "" && r.TaskID != q.TaskID {
		return false
	}
	if q.RejectedOnly && (r.Kind != KindDecision || r.Admitted) {
		return false
	}
	return true
}

// JSONLSink appends admission decisions and completions to a JSONL file with
// size based rotation.
type JSONLSink struct {
	logger *lumberjack.Logger
	enc    *json.Encoder
}

// NewJSONLSink creates a sink writing to path. Rotation options are in
// megabytes and days; zero values keep the lumberjack defaults.
func NewJSONLSink(path string, maxSizeMB, maxBackups, maxAgeDays int) (*JSONLSink, error) {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &JSONLSink{logger: lj, enc: json.NewEncoder(lj)}, nil
}

func (s *JSONLSink) RecordTick(model.TraceLine) error { return nil }

func (s *JSONLSink) RecordDecision(ev coremetrics.DecisionEvent) error {
	return s.enc.Encode(AuditRecord{
		Kind:             KindDecision,
		RunID:            ev.RunID,
		Tick:             ev.Tick,
		TaskID:           ev.TaskID,
		AbsoluteDeadline: ev.AbsoluteDeadline,
		Ratio:            model.FormatVoltage(ev.Ratio),
		Admitted:         ev.Admitted,
	})
}

func (s *JSONLSink) RecordCompletion(ev coremetrics.CompletionEvent) error {
	return s.enc.Encode(AuditRecord{
		Kind:             KindCompletion,
		RunID:            ev.RunID,
		Tick:             ev.Tick,
		TaskID:           ev.TaskID,
		AbsoluteDeadline: ev.AbsoluteDeadline,
		Missed:           ev.Missed,
	})
}

// Flush closes the current file; later records reopen it.
func (s *JSONLSink) Flush() error {
	return s.logger.Close()
}

// ReadAudit reads the audit log at path, rotated backups included, and
// returns the records matching q. Backups are read oldest first.
func ReadAudit(path string, q AuditQuery) ([]AuditRecord, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	ext := filepath.Ext(path)
	base := path[:len(path)-len(ext)]
	backups, err := filepath.Glob(base + "-*" + ext)
	if err != nil {
		return nil, err
	}
	// lumberjack timestamps sort lexically.
	slices.Sort(backups)

	var res []AuditRecord
	for _, f := range append(backups, path) {
		recs, err := readAuditFile(f, q)
		if err != nil {
			return nil, err
		}
		res = append(res, recs...)
	}
	return res, nil
}

func readAuditFile(path string, q AuditQuery) ([]AuditRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var res []AuditRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var r AuditRecord
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			continue
		}
		if q.match(r) {
			res = append(res, r)
		}
	}
	return res, scanner.Err()
}
