package event

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// Timestamp is a log timestamp in the units written by the instrumented
// runtime (microseconds of monotonic time for GLib).
type Timestamp uint64

// Params is the decoded, type-specific parameter block of an Event.
type Params interface {
	EventType() string
}

// Fielder is implemented by Params that expose their values by name.
type Fielder interface {
	Fields() map[string]any
}

// Event is one decoded log line. Events are values; the Raw slice must be
// treated as read-only.
type Event struct {
	Type      string
	Timestamp Timestamp
	ThreadID  uint64
	Params    Params
	// Raw holds the parameter tokens exactly as they appeared in the log.
	Raw []string
}

// Clone returns a copy of e that shares no memory with it.
func (e Event) Clone() Event {
	e.Raw = slices.Clone(e.Raw)
	return e
}

// String renders the event in the same comma-separated layout as the log.
func (e Event) String() string {
	var b strings.Builder
	b.WriteString(e.Type)
	b.WriteByte(',')
	b.WriteString(strconv.FormatUint(uint64(e.Timestamp), 10))
	b.WriteByte(',')
	b.WriteString(strconv.FormatUint(e.ThreadID, 10))
	for _, p := range e.Raw {
		b.WriteByte(',')
		b.WriteString(p)
	}
	return b.String()
}

// MainContextAcquire is the parameter block of g_main_context_acquire.
type MainContextAcquire struct {
	// Context is the address of the GMainContext.
	Context uint64
	// Acquired reports whether the acquisition succeeded.
	Acquired bool
}

func (MainContextAcquire) EventType() string { return "g_main_context_acquire" }

func (m MainContextAcquire) Fields() map[string]any {
	return map[string]any{"context": m.Context, "acquired": m.Acquired}
}
