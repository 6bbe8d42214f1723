package queue

import (
	"container/heap"
	"slices"

	"github.com/kilianp07/edfsim/core/model"
)

// ReadyQueue is the EDF queue of admitted tasks. The head always has the
// smallest absolute deadline; equal deadlines resolve by admission sequence.
type ReadyQueue struct {
	h readyHeap
}

// NewReadyQueue returns an empty ready queue.
func NewReadyQueue() *ReadyQueue { return &ReadyQueue{} }

// Push inserts an entry. Entries without remaining computation are ignored.
func (q *ReadyQueue) Push(e model.ReadyEntry) {
	if e.Task.Remaining == 0 {
		return
	}
	heap.Push(&q.h, e)
}

// Peek returns the head entry without removing it.
func (q *ReadyQueue) Peek() (model.ReadyEntry, bool) {
	if len(q.h) == 0 {
		return model.ReadyEntry{}, false
	}
	return q.h[0], true
}

// Pop removes and returns the head entry.
func (q *ReadyQueue) Pop() (model.ReadyEntry, bool) {
	if len(q.h) == 0 {
		return model.ReadyEntry{}, false
	}
	return heap.Pop(&q.h).(model.ReadyEntry), true
}

func (q *ReadyQueue) Len() int { return len(q.h) }

// Entries returns the current occupants in heap order.
func (q *ReadyQueue) Entries() []model.ReadyEntry {
	return slices.Clone(q.h)
}

type readyHeap []model.ReadyEntry

func (h readyHeap) Len() int           { return len(h) }
func (h readyHeap) Less(i, j int) bool { return h[i].Less(h[j]) }
func (h readyHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *readyHeap) Push(x any) {
	*h = append(*h, x.(model.ReadyEntry))
}

func (h *readyHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
