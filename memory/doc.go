// Package memory contains the conversational memory owned by a single agent:
// an append-only, capacity-bounded, chronologically ordered log of
// core.Message values.
//
// When an append pushes the log past its capacity the oldest entries are
// evicted first, so the buffer always holds the most recent Cap() messages in
// their original order. ToTransport is the only place where the log is
// projected onto the model transport's wire shape.
package memory
