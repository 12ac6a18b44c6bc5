// Package id generates identifiers for asynchronous load tasks.
//
// An ID is 12 bytes big-endian: an 8-byte Unix millisecond timestamp
// followed by a 4-byte sequence, so byte-wise comparison preserves
// creation order. Generators never go backwards: a regressing clock is
// pinned to the last millisecond seen, and an exhausted sequence waits for
// the next millisecond.
//
//	taskID := id.New()
//	fmt.Println(taskID) // 24 hex digits
package id
