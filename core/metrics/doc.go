// Package metrics defines the events a simulation run emits and the sink
// interfaces that record them. Sinks are built from configuration through a
// registry; implementations such as the Prometheus and audit log sinks live in
// infra/metrics and register themselves on import. Several configured sinks
// are combined with NewMultiSink.
package metrics
