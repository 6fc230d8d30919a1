// Package jsonldb provides a generic, concurrent-safe, JSONL-backed data store.
//
// # Overview
//
// The package centers around [Table], a generic container that stores rows in a
// JSONL (JSON Lines) file with full in-memory caching for fast reads. Tables are
// safe for concurrent use by multiple goroutines.
//
// # Concurrency
//
// [Table.Modify] holds the write lock for the entire read-modify-write
// operation, so a single row mutation always succeeds without retries. Higher
// level optimistic concurrency (version checks) is layered on top by callers
// inside the Modify callback.
//
// # Secondary Indexes
//
// [UniqueIndex] and [Index] provide O(1) lookups by arbitrary keys, staying
// synchronized with table mutations via [TableObserver].
//
// # File Format
//
// One JSON document per line. Appends are O(1); updates and deletes rewrite
// the file, which is acceptable for local file storage at this scale.
package jsonldb
