package timeseq

import (
	"testing"

	"github.com/rzbill/dunfell/internal/event"
)

type sample struct {
	depth int
	name  string
}

func TestEmptyLast(t *testing.T) {
	s := New[sample](4)
	v, ts := s.Last()
	if v != nil || ts != 0 {
		t.Fatalf("empty last: got %v %d", v, ts)
	}
	if s.Len() != 0 || s.Cap() != 4 {
		t.Fatalf("len/cap: %d/%d", s.Len(), s.Cap())
	}
}

func TestAppendOrderAndLast(t *testing.T) {
	s := New[sample](0)
	for i := 0; i < 10; i++ {
		v := s.Append(event.Timestamp(100 + i/2))
		if v.depth != 0 || v.name != "" {
			t.Fatalf("append must return a zeroed value")
		}
		v.depth = i
		last, ts := s.Last()
		if last.depth != i || ts != event.Timestamp(100+i/2) {
			t.Fatalf("last after %d appends: %+v %d", i+1, last, ts)
		}
	}
	i := 0
	for ts, v := range s.All() {
		if v.depth != i {
			t.Fatalf("order: pos %d has depth %d", i, v.depth)
		}
		if ts != event.Timestamp(100+i/2) {
			t.Fatalf("ts at %d: %d", i, ts)
		}
		i++
	}
	if i != 10 {
		t.Fatalf("iterated %d", i)
	}
}

func TestCapacityPowerOfTwo(t *testing.T) {
	tests := []struct {
		k       int
		wantCap int
	}{
		{1, 1}, {2, 2}, {3, 4}, {4, 4}, {5, 8}, {8, 8}, {9, 16}, {100, 128},
	}
	for _, tt := range tests {
		s := New[int](0)
		for i := 0; i < tt.k; i++ {
			*s.Append(event.Timestamp(i)) = i
		}
		if s.Cap() != tt.wantCap {
			t.Fatalf("k=%d: cap %d want %d", tt.k, s.Cap(), tt.wantCap)
		}
	}
}

func TestGrowFromPreallocation(t *testing.T) {
	s := New[int](3)
	for i := 0; i < 3; i++ {
		*s.Append(1) = i
	}
	if s.Cap() != 3 {
		t.Fatalf("cap before growth: %d", s.Cap())
	}
	*s.Append(2) = 3
	if s.Cap() != 4 {
		t.Fatalf("cap after growth: %d", s.Cap())
	}
	for i := 0; i < 4; i++ {
		v, _ := s.At(i)
		if *v != i {
			t.Fatalf("growth must preserve elements: at %d got %d", i, *v)
		}
	}
}

func TestAppendDecreasingPanics(t *testing.T) {
	s := New[int](0)
	s.Append(10)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on decreasing timestamp")
		}
	}()
	s.Append(9)
}

func TestClearRunsCleanup(t *testing.T) {
	var cleaned []int
	s := New[int](0, WithCleanup(func(v *int) { cleaned = append(cleaned, *v) }))
	for i := 0; i < 5; i++ {
		*s.Append(event.Timestamp(i)) = i * 10
	}
	s.Clear()
	if len(cleaned) != 5 {
		t.Fatalf("cleanup calls: %d", len(cleaned))
	}
	for i, v := range cleaned {
		if v != i*10 {
			t.Fatalf("cleanup order: %v", cleaned)
		}
	}
	if s.Len() != 0 || s.Cap() != 0 {
		t.Fatalf("clear must release storage: len=%d cap=%d", s.Len(), s.Cap())
	}
	if v, ts := s.Last(); v != nil || ts != 0 {
		t.Fatalf("last after clear")
	}
	// Reusable after clear, and ordering restarts.
	*s.Append(1) = 7
	if v, _ := s.Last(); *v != 7 {
		t.Fatalf("append after clear")
	}
}

func TestSearchAndWindow(t *testing.T) {
	s := New[int](0)
	for i, ts := range []event.Timestamp{10, 20, 20, 30, 40} {
		*s.Append(ts) = i
	}
	if got := s.Search(20); got != 1 {
		t.Fatalf("search 20: %d", got)
	}
	if got := s.Search(25); got != 3 {
		t.Fatalf("search 25: %d", got)
	}
	if got := s.Search(50); got != 5 {
		t.Fatalf("search 50: %d", got)
	}
	lo, hi := s.Range(20, 40)
	if lo != 1 || hi != 4 {
		t.Fatalf("range [20,40): %d,%d", lo, hi)
	}
	var got []int
	for _, v := range s.Window(15, 31) {
		got = append(got, *v)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("window: %v", got)
	}
	if lo, hi := s.Range(30, 10); lo != hi {
		t.Fatalf("inverted range should be empty")
	}
}

func TestAtOutOfRangePanics(t *testing.T) {
	s := New[int](2)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	s.At(0)
}
