package edf

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/edfsim/core/model"
	"github.com/kilianp07/edfsim/core/queue"
)

// WindowMode selects which deadline bounds the utilization window.
type WindowMode int

const (
	// WindowRelative divides by the task's relative deadline minus the
	// current tick.
	WindowRelative WindowMode = iota
	// WindowAbsolute divides by the task's absolute deadline minus the
	// current tick.
	WindowAbsolute
)

// String returns a human-readable representation of the mode.
func (m WindowMode) String() string {
	if m == WindowAbsolute {
		return "absolute"
	}
	return "relative"
}

func (m WindowMode) deadline(e model.ReadyEntry) float64 {
	if m == WindowAbsolute {
		return float64(e.AbsoluteDeadline)
	}
	return float64(e.Task.Deadline)
}

// Utilization computes the least-upper-bound processor utilization of the
// ready queue extended with candidate at tick:
//
//	demand = Σ (remaining_i + 2·context_i)
//	U(t)   = max_j demand / (deadline_j − t)
//
// over the ready entries and the candidate. mode picks the relative or the
// absolute deadline for deadline_j. A window of zero or less makes U(t)
// infinite, so the candidate is rejected. When speeds is non-nil the first
// speed in table order exceeding U(t) is returned instead.
func Utilization(ready *queue.ReadyQueue, candidate model.ReadyEntry, tick uint32, speeds model.SpeedTable, mode WindowMode) float32 {
	entries := append(ready.Entries(), candidate)

	demands := make([]float64, len(entries))
	for i, e := range entries {
		demands[i] = float64(e.Task.Remaining) + 2*float64(e.Task.ContextCost)
	}
	demand := floats.Sum(demands)

	ratios := make([]float64, len(entries))
	for i, e := range entries {
		window := mode.deadline(e) - float64(tick)
		if window <= 0 {
			ratios[i] = math.Inf(1)
			continue
		}
		ratios[i] = demand / window
	}
	u := float32(floats.Max(ratios))

	if speeds != nil {
		return speeds.Select(u)
	}
	return u
}
