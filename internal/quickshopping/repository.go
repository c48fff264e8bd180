package quickshopping

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Repository stores at most one arrangement per admin.
type Repository interface {
	Get(ctx context.Context, adminID uuid.UUID) (Record, bool, error)
	// Upsert replaces the admin's arrangement wholesale and reports whether
	// one already existed.
	Upsert(ctx context.Context, r Record) (Record, bool, error)
	// Delete reports whether there was an arrangement to delete.
	Delete(ctx context.Context, adminID uuid.UUID) (bool, error)
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Record
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{records: map[uuid.UUID]Record{}}
}

func (r *InMemoryRepository) Get(ctx context.Context, adminID uuid.UUID) (Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[adminID]
	rec.CategoryOrder = rec.CategoryOrder.Clone()
	return rec, ok, nil
}

func (r *InMemoryRepository) Upsert(ctx context.Context, rec Record) (Record, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.records[rec.AdminID]
	if ok {
		rec.CreatedAt = existing.CreatedAt
	}
	rec.CategoryOrder = rec.CategoryOrder.Clone()
	r.records[rec.AdminID] = rec
	rec.CategoryOrder = rec.CategoryOrder.Clone()
	return rec, ok, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, adminID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[adminID]
	delete(r.records, adminID)
	return ok, nil
}
