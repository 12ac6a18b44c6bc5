package id

import (
	"sync/atomic"
	"testing"
	"time"
)

func fixedClock(ms *atomic.Int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms.Load()) }
}

func TestOrderingWithinMillisecond(t *testing.T) {
	var ms atomic.Int64
	ms.Store(1000)
	g := newGeneratorWithClock(fixedClock(&ms))
	a := g.Next()
	b := g.Next()
	if a.Compare(b) >= 0 {
		t.Fatalf("expected a<b: %s %s", a, b)
	}
	if b.Seq() != 1 {
		t.Fatalf("seq: %d", b.Seq())
	}
	if a.Time().UnixMilli() != 1000 {
		t.Fatalf("time: %v", a.Time())
	}
}

func TestClockRegressionGuard(t *testing.T) {
	var ms atomic.Int64
	ms.Store(1000)
	g := newGeneratorWithClock(fixedClock(&ms))
	a := g.Next()
	ms.Store(900)
	b := g.Next()
	if a.Compare(b) >= 0 {
		t.Fatalf("expected b>a despite clock regression")
	}
}

func TestSequenceExhaustionWaits(t *testing.T) {
	var ms atomic.Int64
	ms.Store(2000)
	g := newGeneratorWithClock(fixedClock(&ms))
	g.lastMs = 2000
	g.seq = ^uint32(0)

	done := make(chan ID)
	go func() { done <- g.Next() }()
	time.AfterFunc(10*time.Millisecond, func() { ms.Store(2001) })

	select {
	case id := <-done:
		if id.Seq() != 0 || id.Time().UnixMilli() != 2001 {
			t.Fatalf("want reset seq in next ms, got %d@%d", id.Seq(), id.Time().UnixMilli())
		}
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for exhaustion handling")
	}
}

func TestParseRoundTrip(t *testing.T) {
	a := New()
	b, err := Parse(a.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if a != b {
		t.Fatalf("round trip: %s != %s", a, b)
	}
	if _, err := Parse("abc"); err == nil {
		t.Fatalf("want error for bad hex")
	}
	if _, err := Parse("abcd"); err == nil {
		t.Fatalf("want error for short id")
	}
}
