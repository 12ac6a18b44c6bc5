package archive

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rzbill/dunfell/internal/event"
)

func TestEventRecordRoundTrip(t *testing.T) {
	ev := event.Event{Type: "g_main_context_acquire", Timestamp: 1 << 40, ThreadID: 9, Raw: []string{"0x1", "0"}}
	b, err := encodeEvent(ev)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeEvent(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(ev, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	ev := event.Event{Type: "t", Timestamp: 3, ThreadID: 4, Raw: []string{"a", "b", "c"}}
	a, _ := encodeEvent(ev)
	b, _ := encodeEvent(ev)
	if string(a) != string(b) {
		t.Fatalf("encodings differ")
	}
}

func TestDecodeRejectsCorruption(t *testing.T) {
	b, err := encodeEvent(event.Event{Type: "t", Timestamp: 1, ThreadID: 2})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	flipped := append([]byte(nil), b...)
	flipped[3] ^= 0xff
	for name, in := range map[string][]byte{
		"flipped":   flipped,
		"truncated": b[:len(b)-1],
		"short":     {0x01},
		"bad len":   {0x7f, 0, 0, 0, 0},
	} {
		if _, err := decodeEvent(in); !errors.Is(err, ErrCorrupt) {
			t.Fatalf("%s: err = %v, want ErrCorrupt", name, err)
		}
	}
}

func TestMetaKeyNames(t *testing.T) {
	if name, ok := nameFromMetaKey(keyMeta("boot")); !ok || name != "boot" {
		t.Fatalf("nameFromMetaKey = %q, %v", name, ok)
	}
	if _, ok := nameFromMetaKey(keyEntry("boot", 1)); ok {
		t.Fatalf("entry key parsed as metadata key")
	}
}
