package queue

import (
	"slices"
	"sort"

	"github.com/kilianp07/edfsim/core/model"
)

// ArrivalQueue keeps pending tasks ordered by arrival time. Equal arrival
// times keep their source order.
type ArrivalQueue struct {
	entries []model.ArrivalEntry
}

// NewArrivalQueue builds a queue from entries in any order.
func NewArrivalQueue(entries ...model.ArrivalEntry) *ArrivalQueue {
	q := &ArrivalQueue{entries: slices.Clone(entries)}
	slices.SortStableFunc(q.entries, compareArrival)
	return q
}

func compareArrival(a, b model.ArrivalEntry) int {
	switch {
	case a.Arrival < b.Arrival:
		return -1
	case a.Arrival > b.Arrival:
		return 1
	case a.Order < b.Order:
		return -1
	case a.Order > b.Order:
		return 1
	default:
		return 0
	}
}

// Push inserts e after every entry that sorts before or equal to it.
func (q *ArrivalQueue) Push(e model.ArrivalEntry) {
	i := sort.Search(len(q.entries), func(i int) bool {
		return compareArrival(q.entries[i], e) > 0
	})
	q.entries = slices.Insert(q.entries, i, e)
}

// Peek returns the earliest entry without removing it.
func (q *ArrivalQueue) Peek() (model.ArrivalEntry, bool) {
	if len(q.entries) == 0 {
		return model.ArrivalEntry{}, false
	}
	return q.entries[0], true
}

// Pop removes and returns the earliest entry.
func (q *ArrivalQueue) Pop() (model.ArrivalEntry, bool) {
	e, ok := q.Peek()
	if ok {
		q.entries = q.entries[1:]
	}
	return e, ok
}

func (q *ArrivalQueue) Len() int { return len(q.entries) }

// Entries returns a copy of the queue contents in pop order.
func (q *ArrivalQueue) Entries() []model.ArrivalEntry {
	return slices.Clone(q.entries)
}

// Clone returns an independent copy of the queue.
func (q *ArrivalQueue) Clone() *ArrivalQueue {
	return &ArrivalQueue{entries: slices.Clone(q.entries)}
}
