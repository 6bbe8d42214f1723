package edf

import (
	"encoding/json"
	"math"

	"github.com/kilianp07/edfsim/core/model"
	"github.com/kilianp07/edfsim/core/queue"
)

// AdmissionLimit is the highest utilization ratio an arriving task may
// produce and still be admitted.
const AdmissionLimit float32 = 1.0

// Decision is the admission test outcome for one arriving task.
type Decision struct {
	Tick     uint32           `json:"tick"`
	Entry    model.ReadyEntry `json:"entry"`
	Ratio    float32          `json:"ratio"`
	Admitted bool             `json:"admitted"`
}

// MarshalJSON encodes a non-finite ratio, produced by an expired window, as
// a string since JSON has no infinity.
func (d Decision) MarshalJSON() ([]byte, error) {
	type plain Decision
	var ratio any = d.Ratio
	if r := float64(d.Ratio); math.IsInf(r, 0) || math.IsNaN(r) {
		ratio = model.FormatVoltage(d.Ratio)
	}
	return json.Marshal(struct {
		plain
		Ratio any `json:"ratio"`
	}{plain(d), ratio})
}

// Admit pops every arrival due at tick, in arrival-queue order, and runs the
// utilization test on it with the given window mode. Admitted tasks join the ready queue and set the
// voltage to their ratio; the last admission of the tick wins. Rejected
// tasks are dropped for good and only reported in the returned decisions.
func Admit(st State, arrivals *queue.ArrivalQueue, ready *queue.ReadyQueue, speeds model.SpeedTable, tick uint32, mode WindowMode) (State, []Decision) {
	var decisions []Decision
	for {
		next, ok := arrivals.Peek()
		if !ok || uint32(next.Arrival) != tick {
			break
		}
		arrived, _ := arrivals.Pop()
		entry := model.NewReadyEntry(arrived, st.NextSeq)
		ratio := Utilization(ready, entry, tick, speeds, mode)

		d := Decision{Tick: tick, Entry: entry, Ratio: ratio}
		if ratio <= AdmissionLimit {
			d.Admitted = true
			st.Voltage = ratio
			st.NextSeq++
			ready.Push(entry)
		}
		decisions = append(decisions, d)
	}
	return st, decisions
}
