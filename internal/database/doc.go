// Package database provides SQLite-based storage for crawl run history.
//
// Every completed run is recorded with its per-host outcomes and
// extension histogram, so past runs can be listed and compared without
// keeping the raw output files around.
//
// # Architecture
//
// The package exposes a single HistoryDB type wrapping database/sql
// with the modernc.org/sqlite driver. The schema has three tables:
//
//   - runs: one row per crawl run (timing and aggregate counts)
//   - hosts: one row per target per run
//   - extensions: one row per extension per run
//
// Design decision: We use the pure-Go modernc.org/sqlite driver rather
// than CGO-based alternatives so the binary cross-compiles without a C
// toolchain.
package database
