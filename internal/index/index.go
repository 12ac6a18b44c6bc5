// Package index derives per-thread views of a loaded event sequence.
package index

import (
	"iter"

	"github.com/rzbill/dunfell/internal/event"
	"github.com/rzbill/dunfell/internal/timeseq"
	"golang.org/x/exp/slices"
)

// Threads holds one time sequence of events per thread id. It is read-only
// once built and safe for concurrent reads.
type Threads struct {
	initial event.Timestamp
	ids     []uint64
	threads map[uint64]*timeseq.Sequence[event.Event]
}

// Summary describes the events of one thread.
type Summary struct {
	ThreadID uint64
	Events   int
	First    event.Timestamp
	Last     event.Timestamp
}

// Build indexes seq by thread id. A nil seq yields an empty index.
func Build(seq *event.Sequence) *Threads {
	t := &Threads{threads: make(map[uint64]*timeseq.Sequence[event.Event])}
	if seq == nil {
		return t
	}
	t.initial = seq.InitialTimestamp()
	for _, ev := range seq.All() {
		ts, ok := t.threads[ev.ThreadID]
		if !ok {
			ts = timeseq.New[event.Event](0)
			t.threads[ev.ThreadID] = ts
			t.ids = append(t.ids, ev.ThreadID)
		}
		*ts.Append(ev.Timestamp) = ev
	}
	slices.Sort(t.ids)
	return t
}

// IDs returns the thread ids in ascending order.
func (t *Threads) IDs() []uint64 {
	out := make([]uint64, len(t.ids))
	copy(out, t.ids)
	return out
}

// Len returns the number of threads.
func (t *Threads) Len() int { return len(t.ids) }

// Thread returns the summary of one thread. Use Events or Window to read
// its events.
func (t *Threads) Thread(id uint64) (Summary, bool) {
	if _, ok := t.threads[id]; !ok {
		return Summary{}, false
	}
	return t.summary(id), true
}

// Events iterates over copies of every event of thread id in order.
func (t *Threads) Events(id uint64) iter.Seq[event.Event] {
	return func(yield func(event.Event) bool) {
		s, ok := t.threads[id]
		if !ok {
			return
		}
		for _, ev := range s.All() {
			if !yield(ev.Clone()) {
				return
			}
		}
	}
}

// Window iterates over the events of thread id with from <= timestamp < to.
func (t *Threads) Window(id uint64, from, to event.Timestamp) iter.Seq[event.Event] {
	return func(yield func(event.Event) bool) {
		s, ok := t.threads[id]
		if !ok {
			return
		}
		for _, ev := range s.Window(from, to) {
			if !yield(ev.Clone()) {
				return
			}
		}
	}
}

// Summaries returns one Summary per thread in ascending id order.
func (t *Threads) Summaries() []Summary {
	out := make([]Summary, 0, len(t.ids))
	for _, id := range t.ids {
		out = append(out, t.summary(id))
	}
	return out
}

func (t *Threads) summary(id uint64) Summary {
	s := t.threads[id]
	_, first := s.At(0)
	_, last := s.Last()
	return Summary{ThreadID: id, Events: s.Len(), First: first, Last: last}
}

// Busiest returns the thread with the most events. Ties go to the lowest id.
func (t *Threads) Busiest() (Summary, bool) {
	var (
		best  Summary
		found bool
	)
	for _, id := range t.ids {
		if s := t.summary(id); !found || s.Events > best.Events {
			best, found = s, true
		}
	}
	return best, found
}

// InitialTimestamp is the header timestamp of the indexed sequence.
func (t *Threads) InitialTimestamp() event.Timestamp { return t.initial }
