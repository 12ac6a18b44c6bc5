package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rzbill/dunfell/internal/event"
	"github.com/rzbill/dunfell/internal/registry"
)

const (
	headerMarker = "Dunfell log"
	// SupportedVersion is the only log format version understood.
	SupportedVersion = "1.0"

	asciiSpace = " \t\n\v\f\r"
)

// Header is the first content line of a log.
type Header struct {
	Version          string
	InitialTimestamp event.Timestamp
}

// LineState is the cross-line state a line is parsed against.
type LineState struct {
	// Number is the 1-based number of the line being parsed.
	Number int
	// ContentLines counts non-comment lines before this one.
	ContentLines int
	// Version is empty until a header has been parsed.
	Version string
	// Highest is the highest timestamp seen so far, seeded by the header.
	Highest event.Timestamp
}

// Outcome classifies a parsed line.
type Outcome int

const (
	OutcomeComment Outcome = iota + 1
	OutcomeHeader
	// OutcomeEvent is a decoded event line.
	OutcomeEvent
	// OutcomeIgnored is a valid event line whose type has no decoder.
	OutcomeIgnored
)

// LineOutcome is the result of ParseLine.
type LineOutcome struct {
	Outcome Outcome
	Header  Header      // OutcomeHeader
	Event   event.Event // OutcomeEvent
	// Type and Timestamp are set for OutcomeEvent and OutcomeIgnored.
	Type      string
	Timestamp event.Timestamp
}

// ParseLine validates and classifies one raw line (without its newline
// terminator). It does not modify st; see LineState.Advance.
func ParseLine(raw []byte, st LineState, reg *registry.Registry) (LineOutcome, error) {
	if off := invalidUTF8(raw); off >= 0 {
		return LineOutcome{}, &Error{Kind: KindEncoding, Line: st.Number, Offset: off, Msg: "invalid UTF-8 at byte " + strconv.Itoa(off)}
	}

	line := strings.Trim(string(raw), asciiSpace)
	if line == "" || line[0] == '#' {
		return LineOutcome{Outcome: OutcomeComment}, nil
	}

	components := strings.Split(line, ",")
	if components[0] == headerMarker {
		return parseHeader(line, components, st)
	}
	return parseEvent(line, components, st, reg)
}

func parseHeader(line string, components []string, st LineState) (LineOutcome, error) {
	if st.ContentLines != 0 || st.Version != "" {
		return LineOutcome{}, errorf(KindFormat, st.Number, "header must be first non-comment line: %s", line)
	}
	if len(components) != 3 {
		return LineOutcome{}, errorf(KindFormat, st.Number, "header contains the wrong number of components: %s", line)
	}
	version, ts := components[1], components[2]
	if version != SupportedVersion {
		return LineOutcome{}, errorf(KindFormat, st.Number, "unsupported log file version %q (versions supported: %s)", version, SupportedVersion)
	}
	initial, err := strconv.ParseUint(ts, 10, 64)
	if err != nil {
		return LineOutcome{}, errorf(KindFormat, st.Number, "invalid timestamp %q", ts)
	}
	return LineOutcome{
		Outcome: OutcomeHeader,
		Header:  Header{Version: version, InitialTimestamp: event.Timestamp(initial)},
	}, nil
}

func parseEvent(line string, components []string, st LineState, reg *registry.Registry) (LineOutcome, error) {
	if st.Version == "" {
		return LineOutcome{}, errorf(KindFormat, st.Number, "header must be first non-comment line: %s", line)
	}
	typ := components[0]
	if typ == "" {
		return LineOutcome{}, errorf(KindFormat, st.Number, "event type not specified: %s", line)
	}
	entry, ok := reg.Lookup(typ)
	if !ok {
		return LineOutcome{}, errorf(KindFormat, st.Number, "unknown event type %q", typ)
	}
	if len(components) != 3+entry.NParams {
		return LineOutcome{}, errorf(KindFormat, st.Number,
			"event line contains the wrong number of components (want %d, got %d): %s",
			3+entry.NParams, len(components), line)
	}

	ts, err := strconv.ParseUint(components[1], 10, 64)
	if err != nil {
		return LineOutcome{}, errorf(KindValue, st.Number, "invalid timestamp %q", components[1])
	}
	tid, err := strconv.ParseUint(components[2], 10, 64)
	if err != nil {
		return LineOutcome{}, errorf(KindValue, st.Number, "invalid thread ID %q", components[2])
	}
	if event.Timestamp(ts) < st.Highest {
		return LineOutcome{}, errorf(KindValue, st.Number,
			"invalid timestamp %q: timestamps must be monotonically increasing", components[1])
	}

	out := LineOutcome{Outcome: OutcomeIgnored, Type: typ, Timestamp: event.Timestamp(ts)}
	if entry.Decode == nil {
		return out, nil
	}
	ev, err := entry.Decode(typ, event.Timestamp(ts), tid, components[3:])
	if err != nil {
		return LineOutcome{}, &Error{Kind: KindValue, Line: st.Number, Msg: "cannot decode " + typ, Err: err}
	}
	out.Outcome = OutcomeEvent
	out.Event = ev
	return out, nil
}

// Advance folds a successful outcome into the state for the next line.
func (st *LineState) Advance(out LineOutcome) {
	switch out.Outcome {
	case OutcomeHeader:
		st.ContentLines++
		st.Version = out.Header.Version
		st.Highest = out.Header.InitialTimestamp
	case OutcomeEvent, OutcomeIgnored:
		st.ContentLines++
		st.Highest = out.Timestamp
	}
	st.Number++
}

// invalidUTF8 returns the offset of the first byte that is not part of a
// valid UTF-8 sequence, or -1. NUL bytes are rejected as well.
func invalidUTF8(b []byte) int {
	for i := 0; i < len(b); {
		c := b[i]
		if c == 0 {
			return i
		}
		if c < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
