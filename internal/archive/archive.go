package archive

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rzbill/dunfell/internal/event"
	"github.com/rzbill/dunfell/internal/registry"
	pebblestore "github.com/rzbill/dunfell/internal/storage/pebble"
)

// ErrNotFound is returned when an archive has no stored sequence.
var ErrNotFound = errors.New("archive: not found")

// Archive is one named, persisted event sequence.
type Archive struct {
	db   *pebblestore.DB
	name string
	now  func() time.Time

	mu sync.Mutex
}

// Open returns a handle on the archive called name. The archive need not
// exist yet.
func Open(db *pebblestore.DB, name string) (*Archive, error) {
	if err := validName(name); err != nil {
		return nil, fmt.Errorf("%w: %q", err, name)
	}
	return &Archive{db: db, name: name, now: time.Now}, nil
}

// Name returns the archive name.
func (a *Archive) Name() string { return a.name }

// Meta returns the stored metadata, or ErrNotFound.
func (a *Archive) Meta() (Meta, error) {
	b, err := a.db.Get(keyMeta(a.name))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return Meta{}, ErrNotFound
		}
		return Meta{}, err
	}
	return decodeMeta(a.name, b)
}

// Put replaces the archive contents with seq in a single batch.
func (a *Archive) Put(ctx context.Context, seq *event.Sequence) (Meta, error) {
	if seq == nil {
		return Meta{}, errors.New("archive: nil sequence")
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	b := a.db.NewBatch()
	defer b.Close()

	prefix := keyEntryPrefix(a.name)
	if err := b.DeleteRange(prefix, pebblestore.PrefixEnd(prefix), nil); err != nil {
		return Meta{}, err
	}
	var n uint64
	for _, ev := range seq.All() {
		if n%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return Meta{}, err
			}
		}
		n++
		val, err := encodeEvent(ev)
		if err != nil {
			return Meta{}, err
		}
		if err := b.Set(keyEntry(a.name, n), val, nil); err != nil {
			return Meta{}, err
		}
	}
	meta := Meta{
		Name:             a.name,
		InitialTimestamp: seq.InitialTimestamp(),
		Events:           n,
		CreatedMs:        a.now().UnixMilli(),
	}
	if err := b.Set(keyMeta(a.name), encodeMeta(meta), nil); err != nil {
		return Meta{}, err
	}
	if err := a.db.CommitBatch(ctx, b); err != nil {
		return Meta{}, fmt.Errorf("archive: commit %s: %w", a.name, err)
	}
	return meta, nil
}

// Load rebuilds the stored sequence. Params are decoded again with reg;
// event types reg does not know are an error, types without a decoder are
// returned with nil Params.
func (a *Archive) Load(reg *registry.Registry) (*event.Sequence, error) {
	meta, err := a.Meta()
	if err != nil {
		return nil, err
	}
	events := make([]event.Event, 0, meta.Events)
	var loadErr error
	err = a.db.ScanPrefix(keyEntryPrefix(a.name), func(_, value []byte) bool {
		ev, err := decodeEvent(value)
		if err != nil {
			loadErr = err
			return false
		}
		entry, ok := reg.Lookup(ev.Type)
		if !ok {
			loadErr = fmt.Errorf("archive: unknown event type %q", ev.Type)
			return false
		}
		if entry.Decode != nil {
			decoded, err := entry.Decode(ev.Type, ev.Timestamp, ev.ThreadID, ev.Raw)
			if err != nil {
				loadErr = err
				return false
			}
			ev = decoded
		}
		events = append(events, ev)
		return true
	})
	if err != nil {
		return nil, err
	}
	if loadErr != nil {
		return nil, fmt.Errorf("archive: load %s: %w", a.name, loadErr)
	}
	return event.NewSequence(events, meta.InitialTimestamp), nil
}

// Delete removes the archive. Deleting a missing archive is not an error.
func (a *Archive) Delete(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	b := a.db.NewBatch()
	defer b.Close()
	prefix := keyEntryPrefix(a.name)
	if err := b.DeleteRange(prefix, pebblestore.PrefixEnd(prefix), nil); err != nil {
		return err
	}
	if err := b.Delete(keyMeta(a.name), nil); err != nil {
		return err
	}
	return a.db.CommitBatch(ctx, b)
}

// List returns the metadata of every archive in db, ordered by name.
func List(db *pebblestore.DB) ([]Meta, error) {
	var (
		out     []Meta
		listErr error
	)
	err := db.ScanPrefix(arcPrefix, func(k, v []byte) bool {
		name, ok := nameFromMetaKey(k)
		if !ok {
			return true
		}
		m, err := decodeMeta(name, v)
		if err != nil {
			listErr = err
			return false
		}
		out = append(out, m)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, listErr
}
