// Package parser loads Dunfell logs into event sequences.
//
// # Format
//
// A log is UTF-8 text split on '\n'. Blank lines and lines starting with '#'
// are comments. The first content line is the header:
//
//	Dunfell log,1.0,<initial_timestamp>
//
// Every later content line is an event:
//
//	<type>,<timestamp>,<thread_id>,<param_1>,...,<param_N>
//
// where N is the parameter count registered for <type>. Timestamps are
// base-10 uint64 values and never decrease across the file, starting from the
// header's initial timestamp.
//
// # Loading
//
//	p := parser.New(parser.WithLogger(logger))
//	if err := p.LoadFromFile("trace.dunfell.zst"); err != nil {
//		var pe *parser.Error
//		if errors.As(err, &pe) {
//			fmt.Println(pe.Line, pe.Kind)
//		}
//		return err
//	}
//	seq := p.EventSequence()
//
// A load is all-or-nothing: the first bad line fails it and the Parser keeps
// the result of its previous successful load.
//
// LoadFromStreamAsync runs the same load on a goroutine and returns a Task
// that can be waited on, polled or cancelled. Cancellation is checked between
// lines.
package parser
