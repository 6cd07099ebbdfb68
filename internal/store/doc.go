// Package store provides SQLite-backed storage for rainbow lookup tables.
//
// The store holds:
//   - rainbow: the lookup table, exactly two columns (digest, plaintext)
//   - runs: one provenance record per generation run
//
// # Critical Patterns
//
// Duplicates are kept: the rainbow table has no uniqueness constraint, so a
// digest produced by several plaintexts (or by the same wordlist imported
// twice) yields several rows. Lookup returns them in insertion order.
//
// Writes are batched: a Batch holds one transaction open and commits every
// N rows. The connection pool is limited to a single connection, so no other
// Store method may be called while a Batch is open.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Schema changes are applied incrementally, keyed by PRAGMA user_version.
package store
