package product

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
)

var (
	ErrNotFound   = apperr.NotFound("Product not found")
	ErrCodeExists = apperr.Conflict("Product code already exists")
)

type Repository interface {
	List(ctx context.Context, f Filter) ([]Product, error)
	Count(ctx context.Context, f Filter) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (Product, error)
	// GetByIDs skips ids that do not exist.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	// CodeExists ignores the product excludeID, so an update can keep its code.
	CodeExists(ctx context.Context, code string, excludeID uuid.UUID) (bool, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, p Product) (Product, error)
	SetFlags(ctx context.Context, id uuid.UUID, featured, bestSeller bool, at time.Time) (Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByCategory(ctx context.Context) (map[uuid.UUID]int, error)
	// BackfillFeatured sets featured=false where it was never set.
	BackfillFeatured(ctx context.Context) (int64, error)
}

// InMemoryRepository is a simple in-memory implementation useful for tests and
// seeding local data.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Product
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Product, 0, len(seed))}
	r.storage = append(r.storage, seed...)
	return r
}

func (r *InMemoryRepository) matching(f Filter) []Product {
	out := make([]Product, 0, len(r.storage))
	search := strings.ToLower(f.Search)
	for _, p := range r.storage {
		switch {
		case f.CategoryID != nil && p.CategoryID != *f.CategoryID:
		case f.SubcategoryID != nil && p.SubcategoryID != *f.SubcategoryID:
		case f.BestSeller != nil && p.BestSeller != *f.BestSeller:
		case f.Featured != nil && p.Featured != *f.Featured:
		case f.IsActive != nil && p.IsActive != *f.IsActive:
		case f.InStock != nil && p.InStock != *f.InStock:
		case f.Tag != "" && !containsString(p.Tags, f.Tag):
		case search != "" && !strings.Contains(strings.ToLower(p.Name), search):
		default:
			out = append(out, p)
		}
	}
	return out
}

func (r *InMemoryRepository) List(ctx context.Context, f Filter) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.matching(f)
	if f.SortByName {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}

	start := f.offset()
	if start >= len(out) {
		return []Product{}, nil
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

func (r *InMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]Product, 0, len(ids))
	for _, p := range r.storage {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) CodeExists(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.ProductCode == code && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.storage {
		if existing.ProductCode == p.ProductCode {
			return Product{}, ErrCodeExists
		}
	}
	r.storage = append(r.storage, p)
	return p, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := -1
	for i := range r.storage {
		if r.storage[i].ID == p.ID {
			idx = i
		} else if r.storage[i].ProductCode == p.ProductCode {
			return Product{}, ErrCodeExists
		}
	}
	if idx < 0 {
		return Product{}, ErrNotFound
	}
	p.CreatedAt = r.storage[idx].CreatedAt
	r.storage[idx] = p
	return p, nil
}

func (r *InMemoryRepository) SetFlags(ctx context.Context, id uuid.UUID, featured, bestSeller bool, at time.Time) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage[i].Featured = featured
			r.storage[i].BestSeller = bestSeller
			r.storage[i].UpdatedAt = at
			return r.storage[i], nil
		}
	}
	return Product{}, ErrNotFound
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

func (r *InMemoryRepository) CountByCategory(ctx context.Context) (map[uuid.UUID]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[uuid.UUID]int{}
	for _, p := range r.storage {
		out[p.CategoryID]++
	}
	return out, nil
}

// BackfillFeatured is a no-op in memory; the field always has a value.
func (r *InMemoryRepository) BackfillFeatured(ctx context.Context) (int64, error) {
	return 0, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
