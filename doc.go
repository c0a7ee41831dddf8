// Package pqueue implements a durable, single-file, thread-safe FIFO
// queue. Items are opaque byte payloads produced and consumed through a
// caller-supplied [Codec]; the queue itself never inspects their content.
//
// A queue lives entirely in one file: an 8-byte header tracking the live
// record count and the offset of the oldest live record, followed by
// length-prefixed records appended in arrival order. Consumed records are
// not removed in place; they become a dead prefix that [Queue.Flush]
// reclaims by rewriting the file, amortized so normal Get/Put calls never
// pay the compaction cost themselves.
//
// Open a queue with [Open], operate on it with [Queue.Put]/[Queue.Get] and
// their non-blocking and peeking variants, and release it with
// [Queue.Close].
package pqueue
