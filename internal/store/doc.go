// Package store provides SQLite-backed run history for the harness.
//
// Each suite run is one row in runs plus one row per case in
// case_results. Runs are append-only: a run is written once, in a single
// transaction, and never updated.
//
// # Ordering
//
// No wall-clock timestamps are stored. Run IDs are UUIDv7, which sort
// chronologically as strings, so ORDER BY id gives run order. Case rows
// carry seq, their position within the run.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: case rows must belong to a run
package store
