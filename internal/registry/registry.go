package registry

import (
	"errors"
	"fmt"

	"github.com/rzbill/dunfell/internal/event"
	"golang.org/x/exp/slices"
)

// DecodeFunc turns the validated tokens of one event line into an Event.
// params holds exactly Entry.NParams tokens.
type DecodeFunc func(typ string, ts event.Timestamp, tid uint64, params []string) (event.Event, error)

// Entry describes one known event type.
type Entry struct {
	Type    string
	NParams int
	// Decode may be nil: the type is recognized but ignored.
	Decode DecodeFunc
}

// Registry is a read-only lookup table of event types.
type Registry struct {
	entries map[string]Entry
}

var (
	ErrEmptyType     = errors.New("registry: empty event type")
	ErrDuplicateType = errors.New("registry: duplicate event type")
)

// New builds a Registry from entries.
func New(entries ...Entry) (*Registry, error) {
	r := &Registry{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e.Type == "" {
			return nil, ErrEmptyType
		}
		if e.NParams < 0 {
			return nil, fmt.Errorf("registry: negative parameter count for %q", e.Type)
		}
		if _, dup := r.entries[e.Type]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateType, e.Type)
		}
		r.entries[e.Type] = e
	}
	return r, nil
}

// MustNew is like New but panics on error. Intended for package-level tables.
func MustNew(entries ...Entry) *Registry {
	r, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the entry for typ.
func (r *Registry) Lookup(typ string) (Entry, bool) {
	e, ok := r.entries[typ]
	return e, ok
}

// Len returns the number of registered types.
func (r *Registry) Len() int { return len(r.entries) }

// Types returns the registered type names in lexical order.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// With returns a new Registry containing r's entries plus extra. Entries in
// extra replace entries of the same type.
func (r *Registry) With(extra ...Entry) (*Registry, error) {
	merged := make([]Entry, 0, len(r.entries)+len(extra))
	override := make(map[string]struct{}, len(extra))
	for _, e := range extra {
		override[e.Type] = struct{}{}
	}
	for _, typ := range r.Types() {
		if _, ok := override[typ]; ok {
			continue
		}
		merged = append(merged, r.entries[typ])
	}
	merged = append(merged, extra...)
	return New(merged...)
}
