// Package repositories implements SQLite persistence for champr.
//
// Key Implementations:
//   - [ApplyJobRepository] : bulk apply history with status tracking and soft deletes
//   - [IconRepository] : icon bytes kept between sessions
//
// Sequence numbers provide stable, human-readable ordering (job #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
