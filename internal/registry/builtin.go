package registry

// Default returns the process-wide registry for log format 1.0.
func Default() *Registry { return defaultRegistry }

var defaultRegistry = MustNew(builtinEntries()...)

// builtinEntries lists the event types of log format 1.0.
//
// g_main_context_acquire is validated but not decoded: the current
// consumers ignore it. DecodeMainContextAcquire is available for custom
// registries.
func builtinEntries() []Entry {
	return []Entry{
		{Type: "g_main_context_acquire", NParams: 2},
	}
}

var decodingRegistry = MustNew(decodingEntries()...)

// Decoding returns the format 1.0 table with this package's decoders
// attached, so every known event type produces an Event.
func Decoding() *Registry { return decodingRegistry }

func decodingEntries() []Entry {
	entries := builtinEntries()
	for i := range entries {
		if entries[i].Type == "g_main_context_acquire" {
			entries[i].Decode = DecodeMainContextAcquire
		}
	}
	return entries
}
