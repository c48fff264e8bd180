package banner

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
)

var ErrNotFound = apperr.NotFound("Banner not found")

// Repository provides access to banners.
type Repository interface {
	// List returns banners newest first. An empty t lists every type.
	List(ctx context.Context, t Type) ([]Banner, error)
	GetByID(ctx context.Context, id uuid.UUID) (Banner, error)
	// CreateMany stores all banners or none.
	CreateMany(ctx context.Context, banners []Banner) error
	Update(ctx context.Context, b Banner) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Banner
}

func NewInMemoryRepository(seed []Banner) *InMemoryRepository {
	return &InMemoryRepository{storage: append([]Banner{}, seed...)}
}

func (r *InMemoryRepository) List(ctx context.Context, t Type) ([]Banner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Banner, 0, len(r.storage))
	for _, b := range r.storage {
		if t == "" || b.Type == t {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (Banner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.storage {
		if b.ID == id {
			return b, nil
		}
	}
	return Banner{}, ErrNotFound
}

func (r *InMemoryRepository) CreateMany(ctx context.Context, banners []Banner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage = append(r.storage, banners...)
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, b Banner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == b.ID {
			r.storage[i] = b
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
