package pricelist

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
)

var (
	ErrNotFound = apperr.NotFound("Price list not found")
	ErrExists   = apperr.Conflict("A price list already exists. Please delete the existing one before uploading a new one.")
)

type Repository interface {
	List(ctx context.Context, f Filter) ([]PriceList, error)
	Count(ctx context.Context, f Filter) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (PriceList, error)
	// Create fails with ErrExists when a price list is already stored.
	Create(ctx context.Context, p PriceList) error
	Update(ctx context.Context, p PriceList) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []PriceList
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) matching(f Filter) []PriceList {
	search := strings.ToLower(f.Search)
	out := make([]PriceList, 0, len(r.storage))
	for _, p := range r.storage {
		if f.IsActive != nil && p.IsActive != *f.IsActive {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.DocumentName), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *InMemoryRepository) List(ctx context.Context, f Filter) ([]PriceList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.matching(f)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	start := f.offset()
	if start >= len(out) {
		return []PriceList{}, nil
	}
	out = out[start:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *InMemoryRepository) Count(ctx context.Context, f Filter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matching(f)), nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (PriceList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.ID == id {
			return p, nil
		}
	}
	return PriceList{}, ErrNotFound
}

func (r *InMemoryRepository) Create(ctx context.Context, p PriceList) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.storage) > 0 {
		return ErrExists
	}
	r.storage = append(r.storage, p)
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, p PriceList) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == p.ID {
			r.storage[i] = p
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage = append(r.storage[:i], r.storage[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
