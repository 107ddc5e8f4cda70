// Package session persists visitor snapshots: the lesson variables a
// visitor has set, so a reload or a second tab shows the same diagram.
//
// SessionStore is the byte-level backend. Three implementations are
// provided:
//
//   - MemoryStore: in-process, lost on restart (the default)
//   - RedisStore: shared between server processes (go-redis)
//   - BoltStore: a single local file (bbolt)
//
// Snapshots layers JSON serialization and expiry on top of a store.
package session
