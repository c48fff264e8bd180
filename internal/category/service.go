package category

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wichananm65/catalog-admin-backend/internal/validation"
)

// Service provides business logic for categories and subcategories.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(r Repository) *Service {
	return &Service{repo: r, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Category, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *Service) Create(ctx context.Context, in CategoryInput) (Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return Category{}, err
	}
	now := s.now().UTC()
	return s.repo.Create(ctx, Category{ID: uuid.New(), Name: in.Name, CreatedAt: now, UpdatedAt: now})
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in CategoryInput) (Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return Category{}, err
	}
	return s.repo.Update(ctx, Category{ID: id, Name: in.Name, UpdatedAt: s.now().UTC()})
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]Subcategory, error) {
	return s.repo.ListSubcategories(ctx, categoryID)
}

func (s *Service) GetSubcategory(ctx context.Context, id uuid.UUID) (Subcategory, error) {
	return s.repo.GetSubcategory(ctx, id)
}

// CreateSubcategory fails with not found when the parent category is unknown.
func (s *Service) CreateSubcategory(ctx context.Context, in SubcategoryInput) (Subcategory, error) {
	parent, err := s.validateSubcategory(ctx, &in)
	if err != nil {
		return Subcategory{}, err
	}
	now := s.now().UTC()
	return s.repo.CreateSubcategory(ctx, Subcategory{
		ID:         uuid.New(),
		Name:       in.Name,
		CategoryID: parent,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (s *Service) UpdateSubcategory(ctx context.Context, id uuid.UUID, in SubcategoryInput) (Subcategory, error) {
	parent, err := s.validateSubcategory(ctx, &in)
	if err != nil {
		return Subcategory{}, err
	}
	return s.repo.UpdateSubcategory(ctx, Subcategory{
		ID:         id,
		Name:       in.Name,
		CategoryID: parent,
		UpdatedAt:  s.now().UTC(),
	})
}

func (s *Service) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteSubcategory(ctx, id)
}

// ValidateClassification checks that subcategoryID exists and belongs to categoryID.
func (s *Service) ValidateClassification(ctx context.Context, categoryID, subcategoryID uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, categoryID); err != nil {
		return err
	}
	sub, err := s.repo.GetSubcategory(ctx, subcategoryID)
	if err != nil {
		return err
	}
	if sub.CategoryID != categoryID {
		return validation.Merge(nil, map[string]string{"subcategoryId": "subcategoryId does not belong to categoryId"})
	}
	return nil
}

func (s *Service) validateSubcategory(ctx context.Context, in *SubcategoryInput) (uuid.UUID, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	if err := validation.Struct(*in); err != nil {
		return uuid.Nil, err
	}
	parent := uuid.MustParse(in.CategoryID)
	if _, err := s.repo.GetByID(ctx, parent); err != nil {
		return uuid.Nil, err
	}
	return parent, nil
}
