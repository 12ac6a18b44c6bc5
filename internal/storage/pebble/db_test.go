package pebblestore

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Options{DataDir: t.TempDir(), Fsync: FsyncModeInterval, FsyncInterval: 2 * time.Millisecond})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenRequiresDataDir(t *testing.T) {
	if _, err := Open(Options{}); err == nil {
		t.Fatalf("expected error without DataDir")
	}
}

func TestCRUD(t *testing.T) {
	db := newTestDB(t)
	if err := db.Set([]byte("k1"), []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := db.Get([]byte("k1"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "v1" {
		t.Fatalf("got %q want v1", got)
	}
	if err := db.Delete([]byte("k1")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := db.Get([]byte("k1")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: %v, want ErrNotFound", err)
	}
}

func TestCommitBatchHonoursContext(t *testing.T) {
	db := newTestDB(t)
	b := db.NewBatch()
	defer b.Close()
	if err := b.Set([]byte("a"), []byte("1"), nil); err != nil {
		t.Fatalf("batch set: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := db.CommitBatch(ctx, b); !errors.Is(err, context.Canceled) {
		t.Fatalf("commit with cancelled ctx: %v", err)
	}
	if _, err := db.Get([]byte("a")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cancelled batch was applied")
	}
}

func TestScanPrefix(t *testing.T) {
	db := newTestDB(t)
	for _, k := range []string{"a/1", "a/2", "a/3", "b/1", "a"} {
		if err := db.Set([]byte(k), []byte(k)); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	var keys []string
	err := db.ScanPrefix([]byte("a/"), func(k, v []byte) bool {
		if !bytes.Equal(k, v) {
			t.Fatalf("value mismatch for %s", k)
		}
		keys = append(keys, string(k))
		return len(keys) < 2
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(keys) != 2 || keys[0] != "a/1" || keys[1] != "a/2" {
		t.Fatalf("keys = %v", keys)
	}
}

func TestSnapshotConsistency(t *testing.T) {
	db := newTestDB(t)
	key := []byte("k2")
	if err := db.Set(key, []byte("old")); err != nil {
		t.Fatalf("set: %v", err)
	}
	snap := db.NewSnapshot()
	defer snap.Close()
	if err := db.Set(key, []byte("new")); err != nil {
		t.Fatalf("set: %v", err)
	}
	old, closer, err := snap.Get(key)
	if err != nil {
		t.Fatalf("snap get: %v", err)
	}
	if string(old) != "old" {
		t.Fatalf("snapshot saw %q", old)
	}
	closer.Close()
}

func TestPrefixEnd(t *testing.T) {
	cases := []struct{ in, want []byte }{
		{[]byte("a/"), []byte("a0")},
		{[]byte{'a', 0xff}, []byte("b")},
		{[]byte{0xff, 0xff}, nil},
	}
	for _, tc := range cases {
		if got := PrefixEnd(tc.in); !bytes.Equal(got, tc.want) {
			t.Fatalf("PrefixEnd(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseFsyncMode(t *testing.T) {
	for in, want := range map[string]FsyncMode{"": FsyncModeUnspecified, "always": FsyncModeAlways, "interval": FsyncModeInterval, "never": FsyncModeNever} {
		got, err := ParseFsyncMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseFsyncMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFsyncMode("sometimes"); err == nil {
		t.Fatalf("expected error")
	}
}
