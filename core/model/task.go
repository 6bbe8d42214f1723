package model

import (
	"math"
	"slices"
)

// MaxVoltage is the normalised full-speed voltage the processor starts at.
const MaxVoltage float32 = 1.0

// Task describes a unit of work submitted to the scheduler.
type Task struct {
	ID          string `json:"id"`
	Computation uint16 `json:"computation"` // declared computation units
	Remaining   uint16 `json:"remaining"`   // computation units still to execute
	Deadline    uint16 `json:"deadline"`    // relative deadline
	ContextCost uint8  `json:"context"`     // context-switch overhead in ticks
}

// NewTask returns a task with its remaining computation set to the declared value.
func NewTask(id string, computation, deadline uint16, contextCost uint8) Task {
	return Task{
		ID:          id,
		Computation: computation,
		Remaining:   computation,
		Deadline:    deadline,
		ContextCost: contextCost,
	}
}

// ArrivalEntry is a task waiting for its arrival tick.
type ArrivalEntry struct {
	Task    Task
	Arrival uint16
	// Order is the position of the task in its source workload and breaks
	// ties between equal arrival times.
	Order int
}

// ReadyEntry is an admitted task ordered by absolute deadline.
type ReadyEntry struct {
	Task             Task   `json:"task"`
	Arrival          uint16 `json:"arrival"`
	AbsoluteDeadline uint32 `json:"absolute_deadline"`
	// Seq is assigned once at admission and kept across re-insertions.
	Seq uint64 `json:"seq"`
}

// NewReadyEntry builds the ready-queue entry for an arrival.
func NewReadyEntry(a ArrivalEntry, seq uint64) ReadyEntry {
	return ReadyEntry{
		Task:             a.Task,
		Arrival:          a.Arrival,
		AbsoluteDeadline: uint32(a.Arrival) + uint32(a.Task.Deadline),
		Seq:              seq,
	}
}

// Less orders entries by absolute deadline, then admission sequence.
func (e ReadyEntry) Less(o ReadyEntry) bool {
	if e.AbsoluteDeadline != o.AbsoluteDeadline {
		return e.AbsoluteDeadline < o.AbsoluteDeadline
	}
	return e.Seq < o.Seq
}

// SpeedTable lists the selectable processor speeds. A nil table disables
// voltage scaling.
type SpeedTable []float32

// SortedAscending returns a sorted copy of the table.
func (s SpeedTable) SortedAscending() SpeedTable {
	if s == nil {
		return nil
	}
	out := slices.Clone(s)
	slices.Sort(out)
	return out
}

// Select returns the first speed in table order that exceeds ratio, or ratio
// itself when none does.
func (s SpeedTable) Select(ratio float32) float32 {
	if math.IsNaN(float64(ratio)) {
		return ratio
	}
	for _, speed := range s {
		if speed > ratio {
			return speed
		}
	}
	return ratio
}
