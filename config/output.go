package config

import (
	"fmt"
	"slices"

	"github.com/kilianp07/edfsim/pkg/export"
)

// OutputConfig selects where and how results are written.
type OutputConfig struct {
	// Format of the trace: text, jsonl or csv.
	Format string `json:"format"`
	// Path of the trace file; empty writes to stdout.
	Path string `json:"path"`
	// ReportPath receives the JSON run report when set.
	ReportPath string `json:"report_path"`
	// Summary prints a per-task table to stderr after the run.
	Summary bool `json:"summary"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = export.FormatText
	}
}

// Validate checks mandatory fields.
func (c OutputConfig) Validate() error {
	if !slices.Contains(export.Formats, c.Format) {
		return fmt.Errorf("unknown trace format %s", c.Format)
	}
	return nil
}
