package dispatch

import (
	"context"
	"sync"
	"time"
)

// CorrelationTable maps a platform message handle to the notification that
// produced it, so a free-text reply can be routed back. Entries are written
// only by the delivery pipeline and consumed at most once by reply ingestion.
type CorrelationTable interface {
	Register(ctx context.Context, handle, notificationID string) error
	// Consume resolves and removes the entry for a handle. The second return
	// is false when the handle is unknown (never registered, already
	// consumed, or expired).
	Consume(ctx context.Context, handle string) (string, bool, error)
	Len(ctx context.Context) (int64, error)
}

type memoryEntry struct {
	notificationID string
	createdAt      time.Time
}

// MemoryCorrelationTable is the in-process implementation. State is lost on
// restart, which downstream treats as an expected source of unmatched
// replies.
type MemoryCorrelationTable struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewMemoryCorrelationTable builds an empty table. Entries older than ttl are
// dropped by Sweep; a zero ttl disables expiry.
func NewMemoryCorrelationTable(ttl time.Duration) *MemoryCorrelationTable {
	return &MemoryCorrelationTable{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

func (t *MemoryCorrelationTable) Register(_ context.Context, handle, notificationID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[handle] = memoryEntry{notificationID: notificationID, createdAt: time.Now()}
	return nil
}

func (t *MemoryCorrelationTable) Consume(_ context.Context, handle string) (string, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.entries[handle]
	if !ok {
		return "", false, nil
	}
	if t.ttl > 0 && time.Since(entry.createdAt) > t.ttl {
		delete(t.entries, handle)
		return "", false, nil
	}
	delete(t.entries, handle)
	return entry.notificationID, true, nil
}

func (t *MemoryCorrelationTable) Len(_ context.Context) (int64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return int64(len(t.entries)), nil
}

// Sweep drops expired entries and returns how many were removed.
func (t *MemoryCorrelationTable) Sweep() int {
	if t.ttl <= 0 {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	cutoff := time.Now().Add(-t.ttl)
	for handle, entry := range t.entries {
		if entry.createdAt.Before(cutoff) {
			delete(t.entries, handle)
			removed++
		}
	}
	return removed
}
