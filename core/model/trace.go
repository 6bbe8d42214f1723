package model

import (
	"fmt"
	"strconv"
)

// TickState is the processor state during one simulated tick.
type TickState int

const (
	StateIdle TickState = iota
	StateContext
	StateRunning
)

// String returns a human-readable representation of the tick state.
func (s TickState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateContext:
		return "context"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s TickState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// TraceLine is the outcome of a single tick.
type TraceLine struct {
	Tick    uint32    `json:"tick"`
	State   TickState `json:"state"`
	TaskID  string    `json:"task_id,omitempty"`
	Voltage float32   `json:"voltage,omitempty"`
}

// FormatVoltage renders v with the shortest representation that round-trips
// as a float32, so 1.0 prints as "1".
func FormatVoltage(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// String renders the line in the trace text format.
func (l TraceLine) String() string {
	switch l.State {
	case StateContext:
		return fmt.Sprintf("Time %d: Context", l.Tick)
	case StateRunning:
		return fmt.Sprintf("Time %d: Running %s at voltage %s", l.Tick, l.TaskID, FormatVoltage(l.Voltage))
	default:
		return fmt.Sprintf("Time %d: No Process", l.Tick)
	}
}
