package archive

import (
	"context"
	"errors"
	"testing"

	"github.com/rzbill/dunfell/internal/event"
)

func seqs(items []Item) []uint64 {
	out := make([]uint64, len(items))
	for i, it := range items {
		out[i] = it.Seq
	}
	return out
}

func equalSeqs(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestReadForwardAndReverse(t *testing.T) {
	a := openArchive(t, newTestDB(t), "r")
	events := make([]event.Event, 0, 5)
	for i := 0; i < 5; i++ {
		events = append(events, event.Event{Type: "x", Timestamp: event.Timestamp(10 + i), ThreadID: uint64(i)})
	}
	if _, err := a.Put(context.Background(), event.NewSequence(events, 10)); err != nil {
		t.Fatalf("put: %v", err)
	}

	items, next, err := a.Read(ReadOptions{Limit: 2})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !equalSeqs(seqs(items), []uint64{1, 2}) || next.Seq() != 3 {
		t.Fatalf("first page = %v next=%d", seqs(items), next.Seq())
	}
	if items[1].Event.Timestamp != 11 || items[1].Event.ThreadID != 1 {
		t.Fatalf("unexpected item %+v", items[1])
	}

	items, next, err = a.Read(ReadOptions{Start: next})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !equalSeqs(seqs(items), []uint64{3, 4, 5}) || !next.IsZero() {
		t.Fatalf("second page = %v next=%d", seqs(items), next.Seq())
	}

	items, next, err = a.Read(ReadOptions{Reverse: true, Limit: 2})
	if err != nil {
		t.Fatalf("reverse read: %v", err)
	}
	if !equalSeqs(seqs(items), []uint64{5, 4}) || next.Seq() != 3 {
		t.Fatalf("reverse page = %v next=%d", seqs(items), next.Seq())
	}

	items, _, err = a.Read(ReadOptions{Reverse: true, Start: TokenFromSeq(2)})
	if err != nil {
		t.Fatalf("reverse read: %v", err)
	}
	if !equalSeqs(seqs(items), []uint64{2, 1}) {
		t.Fatalf("reverse from 2 = %v", seqs(items))
	}
}

func TestReadEmpty(t *testing.T) {
	a := openArchive(t, newTestDB(t), "empty")
	items, next, err := a.Read(ReadOptions{})
	if err != nil || len(items) != 0 || !next.IsZero() {
		t.Fatalf("read empty: %v %v %v", items, next, err)
	}
}

func TestReadStopsAtCorruptEntry(t *testing.T) {
	db := newTestDB(t)
	a := openArchive(t, db, "c")
	events := []event.Event{
		{Type: "x", Timestamp: 1},
		{Type: "x", Timestamp: 2},
		{Type: "x", Timestamp: 3},
	}
	if _, err := a.Put(context.Background(), event.NewSequence(events, 1)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := db.Set(keyEntry("c", 2), []byte("garbage!")); err != nil {
		t.Fatalf("set: %v", err)
	}

	items, next, err := a.Read(ReadOptions{})
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("read err = %v, want ErrCorrupt", err)
	}
	if !equalSeqs(seqs(items), []uint64{1}) || !next.IsZero() {
		t.Fatalf("items before corrupt entry = %v next=%d", seqs(items), next.Seq())
	}

	items, _, err = a.Read(ReadOptions{Reverse: true})
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("reverse read err = %v, want ErrCorrupt", err)
	}
	if !equalSeqs(seqs(items), []uint64{3}) {
		t.Fatalf("reverse items = %v", seqs(items))
	}
}
