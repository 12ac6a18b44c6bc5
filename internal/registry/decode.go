package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rzbill/dunfell/internal/event"
)

// DecodeError reports a parameter that a decoder could not interpret.
type DecodeError struct {
	Type   string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode %s: %s: %v", e.Type, e.Reason, e.Err)
	}
	return fmt.Sprintf("decode %s: %s", e.Type, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ParseUint parses a strict base-10 unsigned 64-bit integer: no sign, no
// whitespace, no trailing characters.
func ParseUint(typ, field, s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, &DecodeError{Type: typ, Reason: fmt.Sprintf("invalid %s %q", field, s), Err: err}
	}
	return v, nil
}

// ParsePointer parses an address written either as 0x-prefixed hex or as
// base-10.
func ParsePointer(typ, field, s string) (uint64, error) {
	var (
		v   uint64
		err error
	)
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		v, err = strconv.ParseUint(rest, 16, 64)
	} else if rest, ok := strings.CutPrefix(s, "0X"); ok {
		v, err = strconv.ParseUint(rest, 16, 64)
	} else {
		v, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, &DecodeError{Type: typ, Reason: fmt.Sprintf("invalid %s %q", field, s), Err: err}
	}
	return v, nil
}

// ParseBool parses a 0/1 (or true/false) flag.
func ParseBool(typ, field, s string) (bool, error) {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, &DecodeError{Type: typ, Reason: fmt.Sprintf("invalid %s %q", field, s), Err: err}
	}
	return v, nil
}

// DecodeMainContextAcquire decodes g_main_context_acquire lines:
// context address, acquired flag.
func DecodeMainContextAcquire(typ string, ts event.Timestamp, tid uint64, params []string) (event.Event, error) {
	if len(params) != 2 {
		return event.Event{}, &DecodeError{Type: typ, Reason: fmt.Sprintf("want 2 parameters, got %d", len(params))}
	}
	ctxAddr, err := ParsePointer(typ, "context", params[0])
	if err != nil {
		return event.Event{}, err
	}
	acquired, err := ParseBool(typ, "acquired", params[1])
	if err != nil {
		return event.Event{}, err
	}
	return event.Event{
		Type:      typ,
		Timestamp: ts,
		ThreadID:  tid,
		Params:    event.MainContextAcquire{Context: ctxAddr, Acquired: acquired},
		Raw:       params,
	}, nil
}
