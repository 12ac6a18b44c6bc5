package filter

import (
	"testing"

	"github.com/rzbill/dunfell/internal/event"
)

func TestMatch(t *testing.T) {
	decoded := event.Event{
		Type:      "g_main_context_acquire",
		Timestamp: 150,
		ThreadID:  42,
		Params:    event.MainContextAcquire{Context: 16, Acquired: true},
		Raw:       []string{"0x10", "1"},
	}
	bare := event.Event{Type: "g_main_context_acquire", Timestamp: 90, ThreadID: 7, Raw: []string{"1", "0"}}

	cases := []struct {
		expr string
		ev   event.Event
		want bool
	}{
		{"", bare, true},
		{"   ", decoded, true},
		{`type == "g_main_context_acquire"`, decoded, true},
		{`type == "other"`, decoded, false},
		{"thread_id == 42u", decoded, true},
		{"timestamp >= 150", decoded, true},
		{"offset == 50u", decoded, true},
		{"offset == 0u", bare, true},
		{`raw[0] == "0x10"`, decoded, true},
		{"params.acquired", decoded, true},
		{"params.context == 16u", decoded, true},
		{"params.acquired", bare, false},
		{`"acquired" in params`, bare, false},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			f, err := Compile(tc.expr)
			if err != nil {
				t.Fatalf("compile %q: %v", tc.expr, err)
			}
			if got := f.Match(tc.ev, 100); got != tc.want {
				t.Fatalf("Match(%q) = %v, want %v", tc.expr, got, tc.want)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	for _, expr := range []string{"type ==", "unknown_var == 1", "timestamp + 1u"} {
		if _, err := Compile(expr); err == nil {
			t.Fatalf("Compile(%q) succeeded", expr)
		}
	}
}

func TestNilFilterMatchesAll(t *testing.T) {
	var f *Filter
	if !f.Match(event.Event{}, 0) {
		t.Fatalf("nil filter rejected event")
	}
}
