package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/edfsim/core/metrics"
	"github.com/kilianp07/edfsim/core/model"
)

// PromSink records simulation events in Prometheus metrics. The collected
// values are written in the text exposition format when the run is flushed.
type PromSink struct {
	gatherer    prometheus.Gatherer
	path        string
	ticks       *prometheus.CounterVec
	decisions   *prometheus.CounterVec
	completions *prometheus.CounterVec
	voltage     prometheus.Gauge
	ratio       prometheus.Histogram
}

// NewPromSink registers simulation metrics on a fresh registry. Flush writes
// them to path; an empty path disables the file.
func NewPromSink(path string) (*PromSink, error) {
	reg := prometheus.NewRegistry()
	return NewPromSinkWithRegistry(reg, reg, path)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer and
// reads them back from gatherer on Flush. A nil registerer defaults to the
// global Prometheus registry.
func NewPromSinkWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer, path string) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	ticks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "edfsim_ticks_total",
		Help: "Simulated ticks by processor state",
	}, []string{"state"})
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "edfsim_admission_decisions_total",
		Help: "Admission test outcomes for arriving tasks",
	}, []string{"admitted"})
	completions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "edfsim_task_completions_total",
		Help: "Completed task instances",
	}, []string{"deadline_missed"})
	voltage := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "edfsim_voltage",
		Help: "Voltage of the last running tick",
	})
	ratio := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "edfsim_utilization_ratio",
		Help:    "Utilization ratio computed by the admission test",
		Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
	})

	var err error
	if ticks, err = register(reg, ticks); err != nil {
		return nil, err
	}
	if decisions, err = register(reg, decisions); err != nil {
		return nil, err
	}
	if completions, err = register(reg, completions); err != nil {
		return nil, err
	}
	if voltage, err = register(reg, voltage); err != nil {
		return nil, err
	}
	if ratio, err = register(reg, ratio); err != nil {
		return nil, err
	}
	return &PromSink{
		gatherer:    gatherer,
		path:        path,
		ticks:       ticks,
		decisions:   decisions,
		completions: completions,
		voltage:     voltage,
		ratio:       ratio,
	}, nil
}

// register returns the already registered collector when c was registered
// before on reg.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordTick counts the tick by state and tracks the running voltage.
func (s *PromSink) RecordTick(line model.TraceLine) error {
	s.ticks.WithLabelValues(line.State.String()).Inc()
	if line.State == model.StateRunning {
		s.voltage.Set(float64(line.Voltage))
	}
	return nil
}

// RecordDecision counts the decision and observes its utilization ratio.
func (s *PromSink) RecordDecision(ev coremetrics.DecisionEvent) error {
	s.decisions.WithLabelValues(strconv.FormatBool(ev.Admitted)).Inc()
	s.ratio.Observe(float64(ev.Ratio))
	return nil
}

// RecordCompletion counts completed task instances.
func (s *PromSink) RecordCompletion(ev coremetrics.CompletionEvent) error {
	s.completions.WithLabelValues(strconv.FormatBool(ev.Missed)).Inc()
	return nil
}

// Flush writes the gathered metrics to the configured file.
func (s *PromSink) Flush() error {
	if s.path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(s.path, s.gatherer)
}
