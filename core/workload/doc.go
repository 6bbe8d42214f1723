// Package workload loads task sets for the simulator. The text format has a
// header line followed by lines of the form
//
//	Identifier: (arrival, computation, deadline, context)
//
// and an optional "Possible speeds: (s1, s2, ...)" line. YAML files carrying
// the same data are accepted as well. Parse failures are reported as
// *ParseError values naming the offending line.
package workload
