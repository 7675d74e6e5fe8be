package memory

import (
	"sync"

	"github.com/hupe1980/reactloop/core"
	"github.com/hupe1980/reactloop/model"
)

// DefaultCapacity is the number of messages retained when no capacity is given.
const DefaultCapacity = 100

// Buffer is a bounded FIFO conversation log.
//
// Concurrency: protected by RWMutex. The owning agent's loop is the only
// writer; readers (inspection, logging) may run concurrently.
type Buffer struct {
	mu       sync.RWMutex
	messages []core.Message
	capacity int
}

// NewBuffer creates a buffer holding at most capacity messages. A capacity
// below one selects DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		messages: make([]core.Message, 0, min(capacity, 16)),
		capacity: capacity,
	}
}

// Append adds messages at the tail and evicts the oldest overflow.
func (b *Buffer) Append(msgs ...core.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, m := range msgs {
		b.messages = append(b.messages, m.Clone())
	}
	if overflow := len(b.messages) - b.capacity; overflow > 0 {
		kept := make([]core.Message, b.capacity)
		copy(kept, b.messages[overflow:])
		b.messages = kept
	}
}

// Recent returns a copy of the last n messages (fewer if the buffer is shorter).
func (b *Buffer) Recent(n int) []core.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if n <= 0 {
		return []core.Message{}
	}
	if n > len(b.messages) {
		n = len(b.messages)
	}
	return cloneMessages(b.messages[len(b.messages)-n:])
}

// Messages returns a copy of the whole log, oldest first.
func (b *Buffer) Messages() []core.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneMessages(b.messages)
}

// Last returns the newest message, if any.
func (b *Buffer) Last() (core.Message, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.messages) == 0 {
		return core.Message{}, false
	}
	return b.messages[len(b.messages)-1].Clone(), true
}

// Clear drops every message.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = b.messages[:0:0]
}

// Len returns the number of stored messages.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.messages)
}

// Cap returns the configured capacity.
func (b *Buffer) Cap() int { return b.capacity }

// ToTransport projects the log onto the transport wire shape, preserving order.
func (b *Buffer) ToTransport() []model.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.Message, len(b.messages))
	for i, m := range b.messages {
		wire := model.Message{Role: string(m.Role), Content: m.Content}
		if m.Role == core.RoleTool {
			wire.ToolCallID = m.ToolCallID
			wire.IsError = m.Failed
		}
		if m.Role == core.RoleAssistant && m.Call != nil {
			call := *m.Call
			wire.ToolCall = &call
		}
		out[i] = wire
	}
	return out
}

func cloneMessages(in []core.Message) []core.Message {
	out := make([]core.Message, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}
