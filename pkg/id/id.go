package id

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sync"
	"time"
)

// ID identifies one load task: [8 bytes unix ms][4 bytes sequence],
// big-endian, so byte order is creation order.
type ID [12]byte

// Zero is the empty ID.
var Zero ID

// Time returns the millisecond timestamp embedded in the ID.
func (i ID) Time() time.Time {
	return time.UnixMilli(int64(binary.BigEndian.Uint64(i[0:8])))
}

// Seq returns the per-millisecond sequence.
func (i ID) Seq() uint32 { return binary.BigEndian.Uint32(i[8:12]) }

// String renders the ID as 24 hex digits.
func (i ID) String() string { return hex.EncodeToString(i[:]) }

// Compare orders IDs by creation.
func (i ID) Compare(other ID) int { return bytes.Compare(i[:], other[:]) }

// Parse decodes the String form.
func Parse(s string) (ID, error) {
	var out ID
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("id: %w", err)
	}
	if len(b) != len(out) {
		return out, fmt.Errorf("id: want %d bytes, got %d", len(out), len(b))
	}
	copy(out[:], b)
	return out, nil
}

// Generator hands out strictly increasing IDs within a process.
type Generator struct {
	mu     sync.Mutex
	now    func() time.Time
	lastMs int64
	seq    uint32
}

// NewGenerator returns a Generator using the wall clock.
func NewGenerator() *Generator { return &Generator{now: time.Now} }

// newGeneratorWithClock is used by tests.
func newGeneratorWithClock(now func() time.Time) *Generator { return &Generator{now: now} }

// Next returns a new ID. A clock that moves backwards is pinned to the last
// seen millisecond; an exhausted sequence waits for the next millisecond.
func (g *Generator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms < g.lastMs {
		ms = g.lastMs
	}
	switch {
	case ms > g.lastMs:
		g.seq = 0
	case g.seq == math.MaxUint32:
		for ms <= g.lastMs {
			time.Sleep(time.Millisecond / 8)
			ms = g.now().UnixMilli()
		}
		g.seq = 0
	default:
		g.seq++
	}
	g.lastMs = ms

	var id ID
	binary.BigEndian.PutUint64(id[0:8], uint64(ms))
	binary.BigEndian.PutUint32(id[8:12], g.seq)
	return id
}

var defaultGen = NewGenerator()

// New returns an ID from the process-wide generator.
func New() ID { return defaultGen.Next() }
