package transcript

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryBuffer struct {
	id      string
	records []TurnRecord
	mu      sync.RWMutex
}

// NewMemoryBuffer creates a Buffer backed by an in-memory slice.
// The buffer is assigned a unique UUIDv7 identifier.
func NewMemoryBuffer() Buffer {
	return &memoryBuffer{
		id: uuid.Must(uuid.NewV7()).String(),
	}
}

func (b *memoryBuffer) ID() string {
	return b.id
}

func (b *memoryBuffer) Append(sender, content string) TurnRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	record := TurnRecord{
		Sender:    sender,
		Content:   content,
		Seq:       len(b.records),
		Timestamp: time.Now(),
	}
	b.records = append(b.records, record)
	return record
}

func (b *memoryBuffer) Snapshot() []TurnRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.records)
}

func (b *memoryBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}
