package metrics

import "github.com/kilianp07/edfsim/core/factory"

var sinkRegistry = factory.NewRegistry[SimulationSink]()

// RegisterSink adds a sink factory identified by name.
func RegisterSink(name string, f factory.Factory[SimulationSink]) error {
	return sinkRegistry.Register(name, f)
}

// SinkTypes lists the registered sink names.
func SinkTypes() []string { return sinkRegistry.Names() }

// NewSink creates a SimulationSink from the provided configuration.
func NewSink(cfgs []factory.ModuleConfig) (SimulationSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]SimulationSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
