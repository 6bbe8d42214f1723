package workload

import (
	"github.com/kilianp07/edfsim/core/model"
	"github.com/kilianp07/edfsim/core/queue"
)

// Workload is a loaded task set.
type Workload struct {
	Arrivals *queue.ArrivalQueue
	// Speeds is nil when the source declares no speed table.
	Speeds model.SpeedTable
}

// Clone returns a copy that can be consumed without affecting w.
func (w Workload) Clone() Workload {
	c := Workload{Speeds: w.Speeds}
	if w.Arrivals != nil {
		c.Arrivals = w.Arrivals.Clone()
	} else {
		c.Arrivals = queue.NewArrivalQueue()
	}
	return c
}
