package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rzbill/dunfell/internal/event"
)

// eventWriter prints events in one output format.
type eventWriter interface {
	Write(ev event.Event, initial event.Timestamp) error
	Flush() error
}

func newEventWriter(format string, w io.Writer) (eventWriter, error) {
	switch format {
	case "", "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TIMESTAMP\tOFFSET\tTHREAD\tTYPE\tPARAMS")
		return &textEventWriter{tw: tw}, nil
	case "json":
		return &jsonEventWriter{w: w}, nil
	default:
		return nil, fmt.Errorf("unknown format %q; use text|json", format)
	}
}

type textEventWriter struct {
	tw *tabwriter.Writer
}

func (t *textEventWriter) Write(ev event.Event, initial event.Timestamp) error {
	_, err := fmt.Fprintf(t.tw, "%d\t+%d\t%d\t%s\t%s\n",
		ev.Timestamp, offset(ev, initial), ev.ThreadID, ev.Type, formatParams(ev))
	return err
}

func (t *textEventWriter) Flush() error { return t.tw.Flush() }

type jsonEventWriter struct {
	w io.Writer
}

func (j *jsonEventWriter) Write(ev event.Event, initial event.Timestamp) error {
	st, err := eventStruct(ev, initial)
	if err != nil {
		return err
	}
	b, err := protojson.Marshal(st)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = j.w.Write(b)
	return err
}

func (j *jsonEventWriter) Flush() error { return nil }

func offset(ev event.Event, initial event.Timestamp) uint64 {
	if ev.Timestamp < initial {
		return 0
	}
	return uint64(ev.Timestamp - initial)
}

// formatParams renders decoded params as sorted k=v pairs, or the raw
// tokens when the event was not decoded.
func formatParams(ev event.Event) string {
	fp, ok := ev.Params.(event.Fielder)
	if !ok {
		return strings.Join(ev.Raw, ",")
	}
	fields := fp.Fields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, fields[k])
	}
	return strings.Join(parts, " ")
}

func eventStruct(ev event.Event, initial event.Timestamp) (*structpb.Struct, error) {
	raw := make([]any, len(ev.Raw))
	for i, r := range ev.Raw {
		raw[i] = r
	}
	m := map[string]any{
		"type":      ev.Type,
		"timestamp": uint64(ev.Timestamp),
		"offset":    offset(ev, initial),
		"thread_id": ev.ThreadID,
		"raw":       raw,
	}
	if fp, ok := ev.Params.(event.Fielder); ok {
		m["params"] = fp.Fields()
	}
	return structpb.NewStruct(m)
}
