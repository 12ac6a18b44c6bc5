package event

import "iter"

// Sequence is an immutable, time-ordered list of events.
type Sequence struct {
	initial Timestamp
	events  []Event
}

// NewSequence builds a Sequence and takes ownership of events. The caller
// must not modify the slice afterwards.
func NewSequence(events []Event, initial Timestamp) *Sequence {
	return &Sequence{initial: initial, events: events}
}

// InitialTimestamp returns the timestamp declared in the log header.
func (s *Sequence) InitialTimestamp() Timestamp { return s.initial }

// Len returns the number of events.
func (s *Sequence) Len() int { return len(s.events) }

// At returns a copy of the i-th event. It panics if i is out of range.
func (s *Sequence) At(i int) Event { return s.events[i].Clone() }

// Events returns a deep copy of the events.
func (s *Sequence) Events() []Event {
	out := make([]Event, len(s.events))
	for i := range s.events {
		out[i] = s.events[i].Clone()
	}
	return out
}

// All iterates over copies of the events in order.
func (s *Sequence) All() iter.Seq2[int, Event] {
	return func(yield func(int, Event) bool) {
		for i := range s.events {
			if !yield(i, s.events[i].Clone()) {
				return
			}
		}
	}
}

// FinalTimestamp returns the timestamp of the last event, or the initial
// timestamp when the sequence is empty.
func (s *Sequence) FinalTimestamp() Timestamp {
	if len(s.events) == 0 {
		return s.initial
	}
	return s.events[len(s.events)-1].Timestamp
}

// Span returns FinalTimestamp - InitialTimestamp.
func (s *Sequence) Span() Timestamp {
	return s.FinalTimestamp() - s.initial
}
