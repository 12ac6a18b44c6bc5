// Package filter selects events with CEL expressions.
//
// Expressions see the variables
//
//	type       string
//	timestamp  uint
//	thread_id  uint
//	offset     uint    timestamp minus the log's initial timestamp
//	raw        list    parameter tokens as written
//	params     map     decoded parameters, when the event type exposes them
//
// for example `type == "g_main_context_acquire" && params.acquired`.
package filter

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/rzbill/dunfell/internal/event"
)

// Filter is a compiled expression. The zero value and a Filter compiled from
// an empty expression match every event.
type Filter struct {
	expr    string
	prog    cel.Program
	enabled bool
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("type", cel.StringType),
		cel.Variable("timestamp", cel.UintType),
		cel.Variable("thread_id", cel.UintType),
		cel.Variable("offset", cel.UintType),
		cel.Variable("raw", cel.ListType(cel.StringType)),
		cel.Variable("params", cel.MapType(cel.StringType, cel.DynType)),
		cel.CrossTypeNumericComparisons(true),
	)
}

// Compile parses and type-checks expr. The expression must evaluate to bool.
func Compile(expr string) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return &Filter{}, nil
	}
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("filter: env: %w", err)
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("filter: parse %q: %w", expr, iss.Err())
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return nil, fmt.Errorf("filter: check %q: %w", expr, iss2.Err())
	}
	if !checked.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("filter: %q evaluates to %s, want bool", expr, checked.OutputType())
	}
	prog, err := env.Program(checked)
	if err != nil {
		return nil, fmt.Errorf("filter: program: %w", err)
	}
	return &Filter{expr: expr, prog: prog, enabled: true}, nil
}

// String returns the source expression.
func (f *Filter) String() string { return f.expr }

// Match reports whether ev satisfies the expression. initial is the header
// timestamp of the log ev came from. Evaluation errors, such as a missing
// map key, count as no match.
func (f *Filter) Match(ev event.Event, initial event.Timestamp) bool {
	if f == nil || !f.enabled {
		return true
	}
	var offset uint64
	if ev.Timestamp > initial {
		offset = uint64(ev.Timestamp - initial)
	}
	params := map[string]any{}
	if fp, ok := ev.Params.(event.Fielder); ok {
		params = fp.Fields()
	}
	raw := ev.Raw
	if raw == nil {
		raw = []string{}
	}
	out, _, err := f.prog.Eval(map[string]any{
		"type":      ev.Type,
		"timestamp": uint64(ev.Timestamp),
		"thread_id": ev.ThreadID,
		"offset":    offset,
		"raw":       raw,
		"params":    params,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
