package archive

import (
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/rzbill/dunfell/internal/event"
)

// Token is a resume position: the entry sequence number, big-endian.
type Token [8]byte

// TokenFromSeq builds a Token positioned at seq.
func TokenFromSeq(seq uint64) Token {
	var t Token
	binary.BigEndian.PutUint64(t[:], seq)
	return t
}

// Seq returns the sequence number of t; zero means "from the start" (or
// from the end for a reverse read).
func (t Token) Seq() uint64 { return binary.BigEndian.Uint64(t[:]) }

// IsZero reports whether t is the zero Token.
func (t Token) IsZero() bool { return t == Token{} }

type ReadOptions struct {
	Start   Token
	Limit   int
	Reverse bool
}

// Item is one stored event. Params are not decoded.
type Item struct {
	Seq   uint64
	Event event.Event
}

// Read returns up to Limit items starting at Start (inclusive) and the token
// of the next item, which is zero when the scan is exhausted. A record that fails
// to decode stops the scan with ErrCorrupt; the items before it are returned.
func (a *Archive) Read(opts ReadOptions) ([]Item, Token, error) {
	prefix := keyEntryPrefix(a.name)
	it, err := a.db.NewIter(&pebble.IterOptions{
		LowerBound: keyEntry(a.name, 0),
		UpperBound: append(keyEntry(a.name, ^uint64(0)), 0x00),
	})
	if err != nil {
		return nil, Token{}, err
	}
	defer it.Close()

	items := make([]Item, 0, max(1, opts.Limit))
	var next Token
	seqOf := func() uint64 { return binary.BigEndian.Uint64(it.Key()[len(prefix):]) }
	step := it.Next
	var ok bool
	switch {
	case opts.Reverse && opts.Start.IsZero():
		ok = it.Last()
		step = it.Prev
	case opts.Reverse:
		ok = it.SeekLT(keyEntry(a.name, opts.Start.Seq()+1))
		step = it.Prev
	case opts.Start.IsZero():
		ok = it.First()
	default:
		ok = it.SeekGE(keyEntry(a.name, opts.Start.Seq()))
	}
	for ; ok && (opts.Limit <= 0 || len(items) < opts.Limit); ok = step() {
		ev, err := decodeEvent(it.Value())
		if err != nil {
			return items, Token{}, fmt.Errorf("%w: entry %d", ErrCorrupt, seqOf())
		}
		items = append(items, Item{Seq: seqOf(), Event: ev})
	}
	if ok {
		next = TokenFromSeq(seqOf())
	}
	return items, next, it.Error()
}
