// Package cache implements a thread-safe, in-process key/value cache with:
//
//   - Single-writer, multiple-reader access to an authoritative Store.
//   - A periodic, policy-driven Eviction Engine that removes entries chosen
//     by a caller-supplied decider function.
//   - A periodic Notifier that coalesces inserts/updates/removals since the
//     last tick into a single delta event, published on a process-wide
//     broadcast bus.
//   - A get-or-load ("read through") operation with single-flight semantics
//     per key.
//
// Capacity-based eviction (LRU/LFU), recency ordering, cross-process
// coherence, and multi-key transactions are explicitly out of scope; see
// SPEC_FULL.md at the repository root.
package cache
