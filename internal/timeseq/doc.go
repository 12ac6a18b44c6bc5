// Package timeseq implements an append-only, timestamp-ordered store of
// fixed-size values.
//
// # Overview
//
// Elements are kept inline in one contiguous slice of (timestamp, value)
// pairs so that the append-then-inspect-last pattern used while building
// per-thread indexes, and the range scans that follow, stay cache
// friendly. Storage grows by doubling to the next power of two and never
// shrinks.
//
//	s := timeseq.New[state](0)
//	v := s.Append(150)
//	v.depth = 1
//	last, ts := s.Last()
//
// Timestamps passed to Append must be non-decreasing. The caller is
// expected to have validated ordering already; a violation panics.
//
// Pointers returned by Append, Last and At stay valid until the next
// Append or Clear.
package timeseq
