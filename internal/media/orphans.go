package media

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Orphan is a stored file that no record references and whose delete failed.
type Orphan struct {
	StorageID    string       `json:"storageId"`
	ResourceType ResourceType `json:"resourceType"`
	Reason       string       `json:"reason"`
	LastError    string       `json:"lastError"`
	Attempts     int          `json:"attempts"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type OrphanLog interface {
	// Record adds o, or bumps Attempts and LastError when it is already known.
	Record(ctx context.Context, o Orphan) error
	// List returns up to limit orphans, oldest first.
	List(ctx context.Context, limit int) ([]Orphan, error)
	Remove(ctx context.Context, storageID string, rt ResourceType) error
}

type orphanKey struct {
	id string
	rt ResourceType
}

type MemoryOrphanLog struct {
	mu      sync.RWMutex
	orphans map[orphanKey]Orphan
}

func NewMemoryOrphanLog() *MemoryOrphanLog {
	return &MemoryOrphanLog{orphans: map[orphanKey]Orphan{}}
}

func (l *MemoryOrphanLog) Record(ctx context.Context, o Orphan) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now().UTC()
	key := orphanKey{o.StorageID, o.ResourceType}
	if existing, ok := l.orphans[key]; ok {
		existing.Attempts++
		existing.LastError = o.LastError
		existing.UpdatedAt = now
		l.orphans[key] = existing
		return nil
	}
	if o.Attempts == 0 {
		o.Attempts = 1
	}
	o.CreatedAt, o.UpdatedAt = now, now
	l.orphans[key] = o
	return nil
}

func (l *MemoryOrphanLog) List(ctx context.Context, limit int) ([]Orphan, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Orphan, 0, len(l.orphans))
	for _, o := range l.orphans {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].StorageID < out[j].StorageID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (l *MemoryOrphanLog) Remove(ctx context.Context, storageID string, rt ResourceType) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.orphans, orphanKey{storageID, rt})
	return nil
}
