package quickshopping

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
	"github.com/wichananm65/catalog-admin-backend/internal/category"
	"github.com/wichananm65/catalog-admin-backend/internal/product"
	"github.com/wichananm65/catalog-admin-backend/internal/validation"
)

// concurrent category lookups while building the default arrangement
const fetchLimit = 8

type Categories interface {
	List(ctx context.Context) ([]category.Category, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]category.Category, error)
}

type Products interface {
	ListActiveByCategory(ctx context.Context, categoryID uuid.UUID) ([]product.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]product.Product, error)
}

type Service struct {
	repo       Repository
	categories Categories
	products   Products
	log        *zap.Logger
	now        func() time.Time
}

func NewService(repo Repository, categories Categories, products Products, log *zap.Logger) *Service {
	return &Service{repo: repo, categories: categories, products: products, log: log, now: time.Now}
}

// DefaultArrangement lists categories by name, each with its active products
// by name. Categories without active products are left out.
func (s *Service) DefaultArrangement(ctx context.Context) ([]CategoryView, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]CategoryView, len(cats))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchLimit)
	for i, c := range cats {
		g.Go(func() error {
			products, err := s.products.ListActiveByCategory(gctx, c.ID)
			if err != nil {
				return err
			}
			summaries := make([]ProductSummary, 0, len(products))
			for _, p := range products {
				summaries = append(summaries, summarize(p))
			}
			views[i] = CategoryView{ID: c.ID, Name: c.Name, Products: summaries}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]CategoryView, 0, len(views))
	for _, v := range views {
		if len(v.Products) > 0 {
			out = append(out, v)
		}
	}
	return out, nil
}

// SavedArrangement returns the admin's saved arrangement exactly as stored.
// ok is false when the admin uses the default arrangement.
func (s *Service) SavedArrangement(ctx context.Context, adminID uuid.UUID) (Record, bool, error) {
	return s.repo.Get(ctx, adminID)
}

// SaveArrangement replaces the admin's arrangement and reports whether an
// earlier one was overwritten.
func (s *Service) SaveArrangement(ctx context.Context, adminID uuid.UUID, branch string, req SaveRequest) (Record, bool, error) {
	if req.CategoryOrder == nil {
		return Record{}, false, apperr.Validation("Category order is required and must be an array",
			map[string]string{"categoryOrder": "categoryOrder is required"})
	}
	if err := validation.Struct(req); err != nil {
		return Record{}, false, err
	}
	arrangement, err := parseArrangement(req)
	if err != nil {
		return Record{}, false, err
	}

	now := s.now().UTC()
	rec, isUpdate, err := s.repo.Upsert(ctx, Record{
		AdminID:       adminID,
		Branch:        branch,
		CategoryOrder: arrangement,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return Record{}, false, err
	}
	s.log.Info("quick shopping order saved",
		zap.String("admin_id", adminID.String()),
		zap.Int("categories", len(arrangement)),
		zap.Bool("is_update", isUpdate),
	)
	return rec, isUpdate, nil
}

// ResetArrangement deletes the saved arrangement. It reports false when the
// admin was already on the default arrangement.
func (s *Service) ResetArrangement(ctx context.Context, adminID uuid.UUID) (bool, error) {
	return s.repo.Delete(ctx, adminID)
}

// Resolve fills in names and product details for a saved arrangement in its
// saved order.
func (s *Service) Resolve(ctx context.Context, a Arrangement) (Resolved, error) {
	var categoryIDs, productIDs []uuid.UUID
	for _, co := range a {
		categoryIDs = append(categoryIDs, co.CategoryID)
		for _, p := range co.Products {
			productIDs = append(productIDs, p.ProductID)
		}
	}

	var (
		cats     []category.Category
		products []product.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cats, err = s.categories.GetByIDs(gctx, categoryIDs)
		return err
	})
	g.Go(func() (err error) {
		products, err = s.products.GetByIDs(gctx, productIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return Resolved{}, err
	}

	catByID := make(map[uuid.UUID]category.Category, len(cats))
	for _, c := range cats {
		catByID[c.ID] = c
	}
	productByID := make(map[uuid.UUID]product.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}

	res := Resolved{Categories: make([]CategoryView, 0, len(a))}
	for _, co := range a {
		c, ok := catByID[co.CategoryID]
		if !ok {
			res.DroppedCategories++
			res.DroppedProducts += len(co.Products)
			continue
		}
		view := CategoryView{ID: c.ID, Name: c.Name, Products: make([]ProductSummary, 0, len(co.Products))}
		for _, ref := range co.Products {
			p, ok := productByID[ref.ProductID]
			if !ok {
				res.DroppedProducts++
				continue
			}
			view.Products = append(view.Products, summarize(p))
		}
		res.Categories = append(res.Categories, view)
	}

	if res.DroppedCategories > 0 || res.DroppedProducts > 0 {
		s.log.Warn("quick shopping order has dangling references",
			zap.Int("dropped_categories", res.DroppedCategories),
			zap.Int("dropped_products", res.DroppedProducts),
		)
	}
	return res, nil
}

func parseArrangement(req SaveRequest) (Arrangement, error) {
	out := make(Arrangement, 0, len(req.CategoryOrder))
	seen := make(map[uuid.UUID]bool, len(req.CategoryOrder))
	for _, co := range req.CategoryOrder {
		// ids were checked by validation
		categoryID := uuid.MustParse(co.CategoryID)
		if seen[categoryID] {
			return nil, apperr.Validation("Validation error.",
				map[string]string{"categoryOrder": "category " + co.CategoryID + " appears more than once"})
		}
		seen[categoryID] = true

		refs := make([]ProductRef, 0, len(co.Products))
		for _, p := range co.Products {
			refs = append(refs, ProductRef{ProductID: uuid.MustParse(p.ProductID)})
		}
		out = append(out, CategoryOrder{CategoryID: categoryID, Products: refs})
	}
	return out, nil
}
