// Package engine distributes wordlists over hash chains and feeds the
// resulting pairs into one sink.
//
// ARCHITECTURE:
//
// Mode Selection:
// A run picks its Mode once, before any wordlist is opened, from the number
// of available processing units (or an explicit worker count):
//   - Single: one goroutine hashes every wordlist in order and appends to
//     the sink directly
//   - Parallel(n): n workers take WorkItems (one per wordlist) from a work
//     queue; each worker owns its file end to end
//
// Single-Writer Sink:
// In parallel mode workers never touch the sink. They send pairs on a
// bounded channel and the goroutine that called Run performs every Append.
// The sink therefore needs no locking, and pairs from one file keep their
// file order. No order is promised between files.
//
// Failure Containment:
// Wordlist open/read errors and sink write errors are recorded against the
// affected file and logged; sibling files carry on. Undecodable lines are
// skipped and counted. Configuration errors and an unavailable sink are
// fatal and surface before any wordlist is opened (see Generate).
package engine
