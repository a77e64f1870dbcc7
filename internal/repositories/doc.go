// Package repositories implements SQLite persistence for search history.
//
// Key Implementations:
//   - [HistoryRepository] : executed searches, newest first
//
// Sequence numbers provide stable, human-readable ordering (search #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
//
// History only exists with the sqlite storage driver; the other drivers have no relational store to put it in.
package repositories
