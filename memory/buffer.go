package memory

// DefaultCapacity is the default short-term window size.
const DefaultCapacity = 20

// TurnBuffer is a bounded, insertion-ordered window of recent turns.
// When the buffer is full, adding a turn evicts the oldest one (FIFO).
//
// The buffer is not safe for concurrent use; the Manager serializes
// access for the single conversational pipeline.
type TurnBuffer struct {
	capacity int
	turns    []*ConversationTurn
}

// NewTurnBuffer creates a buffer holding at most capacity turns.
// A non-positive capacity falls back to DefaultCapacity.
func NewTurnBuffer(capacity int) *TurnBuffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &TurnBuffer{
		capacity: capacity,
		turns:    make([]*ConversationTurn, 0, capacity),
	}
}

// Add appends a turn and returns the evicted oldest turn, if any.
func (b *TurnBuffer) Add(turn *ConversationTurn) *ConversationTurn {
	b.turns = append(b.turns, turn)
	if len(b.turns) <= b.capacity {
		return nil
	}
	evicted := b.turns[0]
	b.turns = b.turns[1:]
	return evicted
}

// Recent returns the last n turns, oldest first, without mutating the
// buffer. n larger than the buffer returns everything.
func (b *TurnBuffer) Recent(n int) []*ConversationTurn {
	if n <= 0 {
		return nil
	}
	if n > len(b.turns) {
		n = len(b.turns)
	}
	out := make([]*ConversationTurn, n)
	copy(out, b.turns[len(b.turns)-n:])
	return out
}

// Len returns the number of buffered turns.
func (b *TurnBuffer) Len() int {
	return len(b.turns)
}

// Clear empties the buffer.
func (b *TurnBuffer) Clear() {
	b.turns = b.turns[:0]
}

// Capacity returns the configured maximum size.
func (b *TurnBuffer) Capacity() int {
	return b.capacity
}
