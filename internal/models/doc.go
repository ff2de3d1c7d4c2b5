// Package models defines the records the site reads and writes: news, downloads,
// VIP users and VIP content stored in the document store, plus the catalog
// values returned by the video API and the admin identity.
//
// Records encode to the document layout used by the store (camelCase keys,
// RFC 3339 timestamps). Zero timestamps are omitted. The document key is
// carried in ID but is never written back into the document body.
package models
