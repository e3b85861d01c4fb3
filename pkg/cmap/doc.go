// Package cmap provides a concurrent-safe sharded map.
//
// It backs the in-memory side of the flatkv storage engine. Keys are
// strings; values are generic. Per-shard RWMutexes keep single-key
// operations cheap under concurrency, while Snapshot and Replace give
// the engine whole-map semantics for persistence and reload.
//
// Thread safety: all operations are safe for concurrent use. Range,
// Keys and Snapshot lock shard by shard, so they observe a point-in-time
// view per shard rather than a globally consistent one; callers that
// need cross-key atomicity must serialize externally.
package cmap
