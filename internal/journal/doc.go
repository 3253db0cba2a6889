// Package journal persists confirmed stream transfers.
//
// It currently supports:
//   - "sqlite": a SQLite database file (default for production)
//   - "file": dependency-free append-only JSON Lines
//
// The journal is write-behind and best-effort: the engine never fails a tick
// because a journal append failed.
package journal
