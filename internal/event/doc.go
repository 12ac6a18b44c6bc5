// Package event defines the decoded event model produced by the log loader.
//
// # Overview
//
// An Event is one decoded line of a Dunfell log: an event type name, a
// timestamp, the thread it was recorded on and the per-type parameters
// built by the registry decoder. A Sequence is the ordered, read-only
// collection of events produced by a successful load, together with the
// initial timestamp declared in the log header.
//
//	seq := event.NewSequence(events, 100)
//	for i, ev := range seq.All() {
//	    _ = i
//	    _ = ev.Timestamp
//	}
//
// Sequences take ownership of the slice passed to NewSequence and expose no
// mutating API, so a finished Sequence can be shared between goroutines
// without locking.
package event
