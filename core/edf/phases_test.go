package edf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/edfsim/core/model"
	"github.com/kilianp07/edfsim/core/queue"
)

func entry(id string, remaining uint16, cs uint8, deadline uint32, seq uint64) model.ReadyEntry {
	t := model.NewTask(id, remaining, uint16(deadline), cs)
	return model.ReadyEntry{Task: t, AbsoluteDeadline: deadline, Seq: seq}
}

func arriving(id string, at, computation, deadline uint16, cs uint8, seq uint64) model.ReadyEntry {
	return model.NewReadyEntry(model.ArrivalEntry{Task: model.NewTask(id, computation, deadline, cs), Arrival: at}, seq)
}

func TestUtilizationSingleCandidate(t *testing.T) {
	ready := queue.NewReadyQueue()

	cases := []struct {
		name string
		cand model.ReadyEntry
		tick uint32
		want float32
	}{
		{"arrival at zero", arriving("c", 0, 3, 5, 1, 0), 0, 1},
		{"late arrival uses relative deadline", arriving("c", 5, 3, 8, 0, 0), 5, 1},
		{"late arrival with context cost", arriving("c", 2, 4, 12, 1, 0), 2, 0.6},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Utilization(ready, c.cand, c.tick, nil, WindowRelative))
		})
	}
}

func TestUtilizationAbsoluteWindow(t *testing.T) {
	ready := queue.NewReadyQueue()
	got := Utilization(ready, arriving("c", 5, 3, 8, 0, 0), 5, nil, WindowAbsolute)
	assert.Equal(t, float32(0.375), got)

	got = Utilization(ready, arriving("c", 4, 1, 4, 0, 0), 4, nil, WindowAbsolute)
	assert.Equal(t, float32(0.25), got)
}

func TestUtilizationTightestWindow(t *testing.T) {
	ready := queue.NewReadyQueue()
	ready.Push(arriving("a", 0, 2, 4, 1, 0))

	got := Utilization(ready, arriving("b", 0, 1, 10, 0, 1), 0, nil, WindowRelative)
	assert.Equal(t, float32(5.0/4.0), got)

	// a queued task keeps its relative deadline as time advances
	ready = queue.NewReadyQueue()
	ready.Push(arriving("a", 0, 2, 10, 0, 0))
	cand := arriving("b", 6, 1, 8, 0, 1)
	assert.Equal(t, float32(1.5), Utilization(ready, cand, 6, nil, WindowRelative))
	assert.Equal(t, float32(0.75), Utilization(ready, cand, 6, nil, WindowAbsolute))
}

func TestUtilizationExpiredWindow(t *testing.T) {
	ready := queue.NewReadyQueue()
	ready.Push(arriving("a", 0, 2, 3, 0, 0))

	got := Utilization(ready, arriving("b", 3, 1, 50, 0, 1), 3, nil, WindowRelative)
	assert.True(t, math.IsInf(float64(got), 1), "queued window closed")

	got = Utilization(queue.NewReadyQueue(), arriving("b", 4, 1, 4, 0, 0), 4, nil, WindowRelative)
	assert.True(t, math.IsInf(float64(got), 1), "deadline equal to tick")

	got = Utilization(queue.NewReadyQueue(), arriving("b", 9, 1, 4, 0, 0), 9, nil, WindowRelative)
	assert.True(t, math.IsInf(float64(got), 1), "deadline before tick")
}

func TestUtilizationSpeedTable(t *testing.T) {
	ready := queue.NewReadyQueue()
	cand := entry("c", 1, 0, 4, 0)

	cases := []struct {
		name   string
		speeds model.SpeedTable
		want   float32
	}{
		{"first exceeding in table order", model.SpeedTable{0.2, 0.5, 0.3}, 0.5},
		{"sorted table picks lowest sufficient", model.SpeedTable{0.2, 0.5, 0.3}.SortedAscending(), 0.3},
		{"no sufficient speed keeps ratio", model.SpeedTable{0.1, 0.25}, 0.25},
		{"empty table keeps ratio", model.SpeedTable{}, 0.25},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Utilization(ready, cand, 0, c.speeds, WindowRelative))
		})
	}
}

func TestAdmitAcceptsAndRejects(t *testing.T) {
	arrivals := queue.NewArrivalQueue(
		model.ArrivalEntry{Task: model.NewTask("A", 3, 5, 1), Arrival: 0, Order: 0},
		model.ArrivalEntry{Task: model.NewTask("B", 10, 5, 0), Arrival: 0, Order: 1},
		model.ArrivalEntry{Task: model.NewTask("C", 1, 5, 0), Arrival: 1, Order: 2},
	)
	ready := queue.NewReadyQueue()

	st, decisions := Admit(NewState(), arrivals, ready, nil, 0, WindowRelative)
	require.Len(t, decisions, 2)
	assert.True(t, decisions[0].Admitted)
	assert.Equal(t, float32(1), decisions[0].Ratio)
	assert.Equal(t, uint32(5), decisions[0].Entry.AbsoluteDeadline)
	assert.False(t, decisions[1].Admitted)
	assert.Equal(t, float32(3), decisions[1].Ratio)

	assert.Equal(t, float32(1), st.Voltage)
	assert.Equal(t, 1, ready.Len())
	assert.Equal(t, 1, arrivals.Len(), "future arrival stays queued")
	assert.Equal(t, uint64(1), st.NextSeq)
}

func TestAdmitLastRatioWins(t *testing.T) {
	arrivals := queue.NewArrivalQueue(
		model.ArrivalEntry{Task: model.NewTask("A", 1, 4, 0), Arrival: 0, Order: 0},
		model.ArrivalEntry{Task: model.NewTask("B", 1, 10, 0), Arrival: 0, Order: 1},
	)
	ready := queue.NewReadyQueue()

	st, decisions := Admit(NewState(), arrivals, ready, nil, 0, WindowRelative)
	require.Len(t, decisions, 2)
	assert.Equal(t, float32(0.25), decisions[0].Ratio)
	assert.Equal(t, float32(0.5), decisions[1].Ratio)
	assert.Equal(t, float32(0.5), st.Voltage)
}

func TestAdmitLateArrival(t *testing.T) {
	arrivals := queue.NewArrivalQueue(
		model.ArrivalEntry{Task: model.NewTask("A", 3, 8, 0), Arrival: 5, Order: 0},
		model.ArrivalEntry{Task: model.NewTask("B", 1, 5, 0), Arrival: 5, Order: 1},
	)
	ready := queue.NewReadyQueue()

	st, decisions := Admit(NewState(), arrivals, ready, nil, 5, WindowRelative)
	require.Len(t, decisions, 2)
	assert.True(t, decisions[0].Admitted)
	assert.Equal(t, float32(1), decisions[0].Ratio)
	assert.Equal(t, uint32(13), decisions[0].Entry.AbsoluteDeadline)
	assert.False(t, decisions[1].Admitted, "window of B is 5-5")
	assert.Equal(t, float32(1), st.Voltage)
	assert.Equal(t, 1, ready.Len())
}

func TestAdmitNothingDue(t *testing.T) {
	arrivals := queue.NewArrivalQueue(
		model.ArrivalEntry{Task: model.NewTask("A", 1, 4, 0), Arrival: 3},
	)
	st, decisions := Admit(NewState(), arrivals, queue.NewReadyQueue(), nil, 0, WindowRelative)
	assert.Empty(t, decisions)
	assert.Equal(t, model.MaxVoltage, st.Voltage)
}

func TestAccountContextCases(t *testing.T) {
	t.Run("empty queue", func(t *testing.T) {
		st := AccountContext(NewState(), queue.NewReadyQueue(), true)
		assert.Equal(t, NewState(), st)
	})

	t.Run("first head", func(t *testing.T) {
		ready := queue.NewReadyQueue()
		ready.Push(entry("a", 3, 2, 10, 0))

		st := AccountContext(NewState(), ready, false)
		assert.True(t, st.HasLast)
		assert.Equal(t, "a", st.LastTaskID)
		assert.Equal(t, uint16(3), st.LastRemaining)
		assert.Equal(t, uint32(0), st.PendingContext)

		st = AccountContext(NewState(), ready, true)
		assert.Equal(t, uint32(2), st.PendingContext)
	})

	t.Run("preemption charges both", func(t *testing.T) {
		ready := queue.NewReadyQueue()
		ready.Push(entry("b", 1, 1, 5, 1))
		st := NewState()
		st.HasLast, st.LastTaskID, st.LastContext, st.LastRemaining = true, "a", 2, 4

		st = AccountContext(st, ready, false)
		assert.Equal(t, uint32(3), st.PendingContext)
		assert.Equal(t, "b", st.LastTaskID)
		assert.Equal(t, uint8(1), st.LastContext)
	})

	t.Run("completion charges new head only", func(t *testing.T) {
		ready := queue.NewReadyQueue()
		ready.Push(entry("b", 1, 1, 5, 1))
		st := NewState()
		st.HasLast, st.LastTaskID, st.LastContext, st.LastRemaining = true, "a", 2, 0
		st.PendingContext = 2

		st = AccountContext(st, ready, false)
		assert.Equal(t, uint32(3), st.PendingContext)
	})

	t.Run("same head", func(t *testing.T) {
		ready := queue.NewReadyQueue()
		ready.Push(entry("a", 1, 1, 5, 0))
		st := NewState()
		st.HasLast, st.LastTaskID, st.LastContext, st.LastRemaining = true, "a", 1, 2

		assert.Equal(t, st, AccountContext(st, ready, false))
	})
}

func TestDispatchStates(t *testing.T) {
	t.Run("context tick consumes no computation", func(t *testing.T) {
		ready := queue.NewReadyQueue()
		ready.Push(entry("a", 2, 0, 5, 0))
		st := NewState()
		st.PendingContext = 2

		st, out := Dispatch(st, ready, 7)
		assert.Equal(t, model.TraceLine{Tick: 7, State: model.StateContext}, out.Line)
		assert.Equal(t, uint32(1), st.PendingContext)
		assert.Nil(t, out.Executed)
		head, _ := ready.Peek()
		assert.Equal(t, uint16(2), head.Task.Remaining)
	})

	t.Run("idle", func(t *testing.T) {
		_, out := Dispatch(NewState(), queue.NewReadyQueue(), 3)
		assert.Equal(t, model.StateIdle, out.Line.State)
		assert.Equal(t, "Time 3: No Process", out.Line.String())
	})

	t.Run("running requeues with same key", func(t *testing.T) {
		ready := queue.NewReadyQueue()
		ready.Push(entry("a", 2, 1, 5, 4))
		st := NewState()
		st.Voltage = 0.5

		st, out := Dispatch(st, ready, 1)
		assert.Equal(t, "Time 1: Running a at voltage 0.5", out.Line.String())
		assert.False(t, out.Completed)
		assert.Equal(t, uint16(1), st.LastRemaining)
		head, ok := ready.Peek()
		require.True(t, ok)
		assert.Equal(t, uint16(1), head.Task.Remaining)
		assert.Equal(t, uint32(5), head.AbsoluteDeadline)
		assert.Equal(t, uint64(4), head.Seq)
	})

	t.Run("completion charges own context", func(t *testing.T) {
		ready := queue.NewReadyQueue()
		ready.Push(entry("a", 1, 3, 5, 0))

		st, out := Dispatch(NewState(), ready, 0)
		assert.True(t, out.Completed)
		assert.Equal(t, uint32(3), st.PendingContext)
		assert.Equal(t, uint16(0), st.LastRemaining)
		assert.Equal(t, 0, ready.Len())
	})
}
