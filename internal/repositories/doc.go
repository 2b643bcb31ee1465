// Package repositories implements SQLite persistence for local client state.
//
// Three concerns live here:
//   - [SessionRepository] : the single durable session record (credential plus cached profile)
//   - [HistoryRepository] : search history as a bounded most-recently-used list
//   - [PlaylistCacheRepository] : last-fetched playlist snapshots per feed for offline reads
//
// Recency in search_history uses per-table sequence counters: every
// insert or re-insert takes the next value from [NextSequence], so the
// highest sequence is always the most recent search regardless of
// timestamps.
package repositories
