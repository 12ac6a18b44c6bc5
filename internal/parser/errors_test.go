package parser

import (
	"context"
	"errors"
	"testing"
)

func TestErrorIsMatchesKindSentinel(t *testing.T) {
	cases := []struct {
		kind Kind
		want error
	}{
		{KindIO, ErrIO},
		{KindEncoding, ErrEncoding},
		{KindFormat, ErrFormat},
		{KindValue, ErrValue},
		{KindCancelled, ErrCancelled},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			err := error(&Error{Kind: tc.kind, Line: 3, Msg: "x"})
			if !errors.Is(err, tc.want) {
				t.Fatalf("errors.Is(%v, %v) = false", err, tc.want)
			}
			if tc.want != ErrFormat && errors.Is(err, ErrFormat) {
				t.Fatalf("%v unexpectedly matches ErrFormat", err)
			}
			if KindOf(err) != tc.kind {
				t.Fatalf("KindOf = %v, want %v", KindOf(err), tc.kind)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: KindValue, Line: 2, Msg: "invalid timestamp \"x\""}
	if got, want := err.Error(), `line 2: invalid value: invalid timestamp "x"`; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	err = &Error{Kind: KindIO, Msg: "cannot open f", Err: errors.New("boom")}
	if got, want := err.Error(), "i/o error: cannot open f: boom"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestErrorUnwrapsCause(t *testing.T) {
	err := &Error{Kind: KindCancelled, Line: 1, Err: context.Canceled}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain")
	}
	if KindOf(errors.New("plain")) != 0 {
		t.Fatalf("plain errors have no kind")
	}
}
