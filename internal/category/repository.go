package category

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
)

var (
	ErrNotFound            = apperr.NotFound("Category not found")
	ErrSubcategoryNotFound = apperr.NotFound("Subcategory not found")
	ErrInUse               = apperr.Conflict("Category is still referenced")
	ErrSubcategoryInUse    = apperr.Conflict("Subcategory is still referenced")
)

type Repository interface {
	// List returns every category ordered by name.
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (Category, error)
	// GetByIDs skips ids that do not exist.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Category, error)
	Create(ctx context.Context, c Category) (Category, error)
	Update(ctx context.Context, c Category) (Category, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]Subcategory, error)
	GetSubcategory(ctx context.Context, id uuid.UUID) (Subcategory, error)
	CreateSubcategory(ctx context.Context, s Subcategory) (Subcategory, error)
	UpdateSubcategory(ctx context.Context, s Subcategory) (Subcategory, error)
	DeleteSubcategory(ctx context.Context, id uuid.UUID) error
}

// InMemoryRepository is used by tests and local seeding.
type InMemoryRepository struct {
	mu            sync.RWMutex
	categories    []Category
	subcategories []Subcategory
}

func NewInMemoryRepository(categories []Category, subcategories []Subcategory) *InMemoryRepository {
	r := &InMemoryRepository{}
	r.categories = append(r.categories, categories...)
	r.subcategories = append(r.subcategories, subcategories...)
	return r
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, ErrNotFound
}

func (r *InMemoryRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]Category, 0, len(ids))
	for _, c := range r.categories {
		if want[c.ID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, c Category) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories = append(r.categories, c)
	return c, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, c Category) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.categories {
		if r.categories[i].ID == c.ID {
			c.CreatedAt = r.categories[i].CreatedAt
			r.categories[i] = c
			return c, nil
		}
	}
	return Category{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subcategories {
		if s.CategoryID == id {
			return ErrInUse
		}
	}
	for i := range r.categories {
		if r.categories[i].ID == id {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]Subcategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Subcategory, 0, len(r.subcategories))
	for _, s := range r.subcategories {
		if categoryID != nil && s.CategoryID != *categoryID {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *InMemoryRepository) GetSubcategory(ctx context.Context, id uuid.UUID) (Subcategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.subcategories {
		if s.ID == id {
			return s, nil
		}
	}
	return Subcategory{}, ErrSubcategoryNotFound
}

func (r *InMemoryRepository) CreateSubcategory(ctx context.Context, s Subcategory) (Subcategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subcategories = append(r.subcategories, s)
	return s, nil
}

func (r *InMemoryRepository) UpdateSubcategory(ctx context.Context, s Subcategory) (Subcategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.subcategories {
		if r.subcategories[i].ID == s.ID {
			s.CreatedAt = r.subcategories[i].CreatedAt
			r.subcategories[i] = s
			return s, nil
		}
	}
	return Subcategory{}, ErrSubcategoryNotFound
}

func (r *InMemoryRepository) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.subcategories {
		if r.subcategories[i].ID == id {
			r.subcategories = append(r.subcategories[:i], r.subcategories[i+1:]...)
			return nil
		}
	}
	return ErrSubcategoryNotFound
}
