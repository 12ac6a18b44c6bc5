// Package archive persists loaded event sequences in Pebble so they can be
// inspected again without re-parsing the source log.
//
// # Keys
//
//	arc/{name}/m             metadata: initial_be8 | count_be8 | created_ms_be8
//	arc/{name}/e/{seq_be8}   one entry per event, seq starting at 1
//
// Entries are stored as varint headerLen | header | payload | crc32c(header|payload)
// where header is timestamp_be8 | thread_id_be8 and payload is a
// deterministically marshalled google.protobuf.Struct {type, raw}.
//
//	a, _ := archive.Open(db, "boot-trace")
//	_ = a.Put(ctx, seq)
//	items, next, _ := a.Read(archive.ReadOptions{Limit: 100})
//	seq, _ = a.Load(registry.Decoding())
package archive
