package edf

import "github.com/kilianp07/edfsim/core/model"

// State is the scheduler bookkeeping carried from one phase to the next.
type State struct {
	Voltage        float32
	PendingContext uint32

	// Bookkeeping of the previously dispatched head.
	HasLast       bool
	LastTaskID    string
	LastContext   uint8
	LastRemaining uint16

	// NextSeq is the admission sequence handed to the next admitted task.
	NextSeq uint64
}

// NewState returns the initial state running at full speed.
func NewState() State {
	return State{Voltage: model.MaxVoltage}
}
