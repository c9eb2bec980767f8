// Package kv provides the small persistent key-value store the engines use in
// place of browser local storage.
//
// # Backends
//
//   - FileStore: one JSON document per key under the data directory. Writes go
//     through a temp file and rename.
//   - SQLiteStore: a single kv table in <data_dir>/nearby.db, opened with the
//     ncruces pure-Go driver in WAL mode.
//   - Memory: process-local map, used by tests and by `store = "memory"`.
//
// # Contract
//
// Get returns ErrNotFound for keys that were never written. Callers that only
// care about JSON values use GetJSON and SetJSON.
//
// The engines built on this package treat persistence as best effort: a read
// failure means "start from defaults" and a write failure is logged and
// otherwise ignored, so the in-memory state stays authoritative for the
// session.
//
// Keys are restricted to letters, digits, dot, dash and underscore so they map
// cleanly onto file names.
package kv
