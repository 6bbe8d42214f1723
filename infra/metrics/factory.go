package metrics

import (
	"errors"
	"io"

	"github.com/kilianp07/edfsim/core/factory"
	coremetrics "github.com/kilianp07/edfsim/core/metrics"
	"github.com/kilianp07/edfsim/infra/logger"
)

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterSink("nop", func(map[string]any) (coremetrics.SimulationSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterSink("prometheus", func(conf map[string]any) (coremetrics.SimulationSink, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewPromSink(c.Path)
	})

	_ = coremetrics.RegisterSink("jsonl", func(conf map[string]any) (coremetrics.SimulationSink, error) {
		var c struct {
			Path       string `json:"path"`
			MaxSizeMB  int    `json:"max_size_mb"`
			MaxBackups int    `json:"max_backups"`
			MaxAgeDays int    `json:"max_age_days"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, errors.New("jsonl sink: path is required")
		}
		return NewJSONLSink(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	})

	_ = coremetrics.RegisterSink("log", func(conf map[string]any) (coremetrics.SimulationSink, error) {
		c := struct {
			Component string    `json:"component"`
			Level     string    `json:"level"`
			Format    string    `json:"format"`
			Out       io.Writer `json:"out"`
		}{Component: "audit"}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		l, err := logger.NewWithOptions(c.Component, logger.Options{Level: c.Level, Format: c.Format, Out: c.Out})
		if err != nil {
			return nil, err
		}
		return NewLogSink(l), nil
	})
}
