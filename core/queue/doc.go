// Package queue holds the two time-ordered structures of the simulator: the
// arrival queue, ordered by arrival tick and source order, and the ready
// queue, a min-heap keyed by absolute deadline and admission sequence.
package queue
