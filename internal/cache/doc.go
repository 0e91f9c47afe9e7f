// Package cache persists trained profile artifacts keyed by normalized
// profile name and decides, per request, whether a stored artifact is fresh
// enough to reuse or the full acquire-store-train pipeline must run again.
//
// Entries are single JSON files written atomically (temp file + rename), so
// a concurrent reader never observes a half-written artifact. Rebuilds for
// the same key are serialized; different keys proceed independently.
package cache
