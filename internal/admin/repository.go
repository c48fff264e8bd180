package admin

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
)

var (
	ErrNotFound           = apperr.NotFound("Admin not found")
	ErrEmailExists        = apperr.Conflict("Email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDisabled           = errors.New("admin is disabled")
	ErrInvalidClaims      = errors.New("token does not name an admin")
)

type Repository interface {
	List(ctx context.Context) ([]Admin, error)
	GetByID(ctx context.Context, id uuid.UUID) (Admin, error)
	GetByEmail(ctx context.Context, email string) (Admin, error)
	Create(ctx context.Context, a Admin) (Admin, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	admins []Admin
}

func NewInMemoryRepository(seed []Admin) *InMemoryRepository {
	r := &InMemoryRepository{admins: make([]Admin, 0, len(seed))}
	r.admins = append(r.admins, seed...)
	return r
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Admin, len(r.admins))
	copy(out, r.admins)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.admins {
		if a.ID == id {
			return a, nil
		}
	}
	return Admin{}, ErrNotFound
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.admins {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return Admin{}, ErrNotFound
}

func (r *InMemoryRepository) Create(ctx context.Context, a Admin) (Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.admins {
		if strings.EqualFold(existing.Email, a.Email) {
			return Admin{}, ErrEmailExists
		}
	}
	r.admins = append(r.admins, a)
	return a, nil
}
