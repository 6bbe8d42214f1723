package workload

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/edfsim/core/model"
	"github.com/kilianp07/edfsim/core/queue"
)

type yamlWorkload struct {
	Tasks  []yaml.Node `yaml:"tasks"`
	Speeds *yaml.Node  `yaml:"speeds"`
}

type yamlTask struct {
	ID          string  `yaml:"id"`
	Arrival     *uint64 `yaml:"arrival"`
	Computation *uint64 `yaml:"computation"`
	Deadline    *uint64 `yaml:"deadline"`
	Context     *uint64 `yaml:"context"`
}

// DecodeYAML reads a workload of the form
//
//	tasks:
//	  - {id: T1, arrival: 0, computation: 3, deadline: 5, context: 1}
//	speeds: [0.5, 0.75, 1.0]
func DecodeYAML(r io.Reader) (Workload, error) {
	var doc yamlWorkload
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return Workload{}, &ParseError{Line: yamlErrorLine(err), Kind: KindNonNumericField, Err: err}
	}
	entries := make([]model.ArrivalEntry, 0, len(doc.Tasks))
	for i := range doc.Tasks {
		e, err := decodeYAMLTask(&doc.Tasks[i])
		if err != nil {
			return Workload{}, err
		}
		e.Order = i
		entries = append(entries, e)
	}
	w := Workload{Arrivals: queue.NewArrivalQueue(entries...)}
	if doc.Speeds != nil {
		var raw []float64
		if err := doc.Speeds.Decode(&raw); err != nil {
			return Workload{}, &ParseError{Line: doc.Speeds.Line, Kind: KindNonNumericField, Field: "speeds", Err: err}
		}
		w.Speeds = make(model.SpeedTable, 0, len(raw))
		for _, s := range raw {
			if math.Abs(s) > math.MaxFloat32 {
				return Workload{}, &ParseError{Line: doc.Speeds.Line, Kind: KindFieldRangeOverflow, Field: fmt.Sprintf("speed=%g", s)}
			}
			w.Speeds = append(w.Speeds, float32(s))
		}
	}
	return w, nil
}

func decodeYAMLTask(n *yaml.Node) (model.ArrivalEntry, error) {
	var t yamlTask
	if err := n.Decode(&t); err != nil {
		return model.ArrivalEntry{}, &ParseError{Line: n.Line, Kind: KindNonNumericField, Err: err}
	}
	fields := []struct {
		name  string
		value *uint64
		max   uint64
	}{
		{"arrival", t.Arrival, math.MaxUint16},
		{"computation", t.Computation, math.MaxUint16},
		{"deadline", t.Deadline, math.MaxUint16},
		{"context", t.Context, math.MaxUint8},
	}
	for _, f := range fields {
		if f.value == nil {
			return model.ArrivalEntry{}, &ParseError{Line: n.Line, Text: t.ID, Kind: KindFieldCount, Field: f.name}
		}
		if *f.value > f.max {
			return model.ArrivalEntry{}, &ParseError{
				Line:  n.Line,
				Text:  t.ID,
				Kind:  KindFieldRangeOverflow,
				Field: fmt.Sprintf("%s=%d", f.name, *f.value),
			}
		}
	}
	if *t.Computation == 0 {
		return model.ArrivalEntry{}, &ParseError{Line: n.Line, Text: t.ID, Kind: KindEmptyComputation, Field: "computation"}
	}
	return model.ArrivalEntry{
		Task:    model.NewTask(t.ID, uint16(*t.Computation), uint16(*t.Deadline), uint8(*t.Context)),
		Arrival: uint16(*t.Arrival),
	}, nil
}

// yamlErrorLine extracts the first line number reported by a yaml.TypeError.
func yamlErrorLine(err error) int {
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		var line int
		if _, serr := fmt.Sscanf(te.Errors[0], "line %d:", &line); serr == nil {
			return line
		}
	}
	return 0
}
