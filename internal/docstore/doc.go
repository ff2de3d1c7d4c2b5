// Package docstore is a small path-addressed JSON document store.
//
// Paths are "/"-separated ("news", "news/{id}", "downloads/{id}/downloadCount").
// Every backend offers the same five operations: read a value, overwrite a
// value, append a child under a generated key, delete a path and watch a path
// for changes. Watching delivers the full value at the path, first as it is
// when the watch starts and then after every change.
//
// Backends:
//
//   - Memory: an in-process tree, used in demo mode and in tests.
//   - RTDB: a Firebase Realtime Database over its REST and streaming API.
//   - Postgres: one JSONB row per document, changes signalled via LISTEN/NOTIFY.
package docstore
