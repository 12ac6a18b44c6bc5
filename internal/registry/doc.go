// Package registry maps event type names to their expected parameter count
// and decoder.
//
// The process-wide table returned by Default is built once at package
// initialization and never changes afterwards. Embedders that need extra
// event types build their own table with New and hand it to the loader.
//
//	reg, err := registry.New(
//	    registry.Entry{Type: "g_main_context_acquire", NParams: 2, Decode: registry.DecodeMainContextAcquire},
//	)
//
// An Entry without a decoder is valid: lines of that type are validated and
// counted by the loader but produce no event.
package registry
