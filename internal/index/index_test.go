package index

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rzbill/dunfell/internal/event"
)

func ev(ts event.Timestamp, tid uint64) event.Event {
	return event.Event{Type: "g_main_context_acquire", Timestamp: ts, ThreadID: tid, Raw: []string{"1", "1"}}
}

func testSequence() *event.Sequence {
	return event.NewSequence([]event.Event{
		ev(10, 7), ev(10, 3), ev(12, 7), ev(15, 7), ev(20, 3), ev(30, 9),
	}, 5)
}

func TestBuildGroupsByThread(t *testing.T) {
	idx := Build(testSequence())
	if diff := cmp.Diff([]uint64{3, 7, 9}, idx.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if idx.InitialTimestamp() != 5 {
		t.Fatalf("initial = %d", idx.InitialTimestamp())
	}
	s, ok := idx.Thread(7)
	if want := (Summary{ThreadID: 7, Events: 3, First: 10, Last: 15}); !ok || s != want {
		t.Fatalf("thread 7 = %+v ok=%v, want %+v", s, ok, want)
	}
	var got []event.Timestamp
	for e := range idx.Events(7) {
		if e.ThreadID != 7 {
			t.Fatalf("event of thread %d in thread 7", e.ThreadID)
		}
		got = append(got, e.Timestamp)
	}
	if diff := cmp.Diff([]event.Timestamp{10, 12, 15}, got); diff != "" {
		t.Fatalf("timestamps mismatch (-want +got):\n%s", diff)
	}
	if _, ok := idx.Thread(1); ok {
		t.Fatalf("unexpected thread 1")
	}
}

func TestWindow(t *testing.T) {
	idx := Build(testSequence())
	got := slices.Collect(idx.Window(7, 11, 16))
	if diff := cmp.Diff([]event.Event{ev(12, 7), ev(15, 7)}, got); diff != "" {
		t.Fatalf("window mismatch (-want +got):\n%s", diff)
	}
	all := slices.Collect(idx.Events(3))
	if diff := cmp.Diff([]event.Event{ev(10, 3), ev(20, 3)}, all); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	if n := len(slices.Collect(idx.Window(42, 0, 100))); n != 0 {
		t.Fatalf("unknown thread yielded %d events", n)
	}
}

func TestSummariesAndBusiest(t *testing.T) {
	idx := Build(testSequence())
	want := []Summary{
		{ThreadID: 3, Events: 2, First: 10, Last: 20},
		{ThreadID: 7, Events: 3, First: 10, Last: 15},
		{ThreadID: 9, Events: 1, First: 30, Last: 30},
	}
	if diff := cmp.Diff(want, idx.Summaries()); diff != "" {
		t.Fatalf("summaries mismatch (-want +got):\n%s", diff)
	}
	b, ok := idx.Busiest()
	if !ok || b.ThreadID != 7 {
		t.Fatalf("busiest = %+v, %v", b, ok)
	}
}

func TestBuildEmpty(t *testing.T) {
	for _, seq := range []*event.Sequence{nil, event.NewSequence(nil, 3)} {
		idx := Build(seq)
		if idx.Len() != 0 {
			t.Fatalf("len = %d", idx.Len())
		}
		if _, ok := idx.Busiest(); ok {
			t.Fatalf("busiest on empty index")
		}
	}
}

func TestEventsAreCopies(t *testing.T) {
	idx := Build(testSequence())
	for e := range idx.Events(7) {
		e.Raw[0] = "changed"
	}
	for e := range idx.Window(7, 0, 100) {
		e.Raw[0] = "changed"
	}
	for e := range idx.Events(7) {
		if e.Raw[0] != "1" {
			t.Fatalf("index was modified through a yielded event: %v", e.Raw)
		}
	}
}
