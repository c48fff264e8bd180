package product

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wichananm65/catalog-admin-backend/internal/category"
	"github.com/wichananm65/catalog-admin-backend/internal/httpx"
	"github.com/wichananm65/catalog-admin-backend/internal/inventory"
	"github.com/wichananm65/catalog-admin-backend/internal/media"
	"github.com/wichananm65/catalog-admin-backend/internal/pricing"
	"github.com/wichananm65/catalog-admin-backend/internal/validation"
)

const imageFolder = "products"

// Catalog is the part of the category service products depend on.
type Catalog interface {
	ValidateClassification(ctx context.Context, categoryID, subcategoryID uuid.UUID) error
	List(ctx context.Context) ([]category.Category, error)
}

type Service struct {
	repo    Repository
	catalog Catalog
	media   *media.Janitor
	log     *zap.Logger
	now     func() time.Time
}

func NewService(repo Repository, catalog Catalog, janitor *media.Janitor, log *zap.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, media: janitor, log: log, now: time.Now}
}

func (s *Service) List(ctx context.Context, f Filter) (Page, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 10
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return Page{}, err
	}
	products, err := s.repo.List(ctx, f)
	if err != nil {
		return Page{}, err
	}
	return Page{Products: products, Total: total, Page: f.Page, Pages: httpx.Pages(total, f.Limit)}, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error) {
	return s.repo.GetByIDs(ctx, ids)
}

// ListActiveByCategory returns the active products of a category by name.
func (s *Service) ListActiveByCategory(ctx context.Context, categoryID uuid.UUID) ([]Product, error) {
	active := true
	return s.repo.List(ctx, Filter{CategoryID: &categoryID, IsActive: &active, SortByName: true})
}

// CodeAvailable reports whether code is free. The code is upper-cased first.
func (s *Service) CodeAvailable(ctx context.Context, code string) (string, bool, error) {
	code = normalizeCode(code)
	if err := validation.Struct(struct {
		ProductCode string `json:"productCode" validate:"required,alphanum,max=50"`
	}{code}); err != nil {
		return code, false, err
	}
	exists, err := s.repo.CodeExists(ctx, code, uuid.Nil)
	if err != nil {
		return code, false, err
	}
	return code, !exists, nil
}

func (s *Service) Create(ctx context.Context, in Input, images []media.File) (Product, error) {
	normalize(&in)
	if err := validation.Merge(validation.Struct(in), checkInput(in)); err != nil {
		return Product{}, err
	}
	if err := media.ValidateImages("images", images, MinImages, MaxImages); err != nil {
		return Product{}, err
	}

	now := s.now().UTC()
	p := Product{ID: uuid.New(), CreatedAt: now, InStock: true, IsActive: true}
	if err := s.apply(ctx, &p, in, now); err != nil {
		return Product{}, err
	}

	assets, err := s.media.UploadAll(ctx, images, media.UploadOptions{Folder: imageFolder, ResourceType: media.ResourceImage})
	if err != nil {
		return Product{}, err
	}
	p.Images = toImages(assets)

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		s.media.Discard(ctx, "product create failed", assets...)
		return Product{}, err
	}
	s.log.Info("product created", zap.String("product_id", created.ID.String()), zap.String("product_code", created.ProductCode))
	return created, nil
}

// Update replaces every editable field. When images is non-empty the new set
// replaces the old one and the old files are released after the save.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input, images []media.File) (Product, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, err
	}

	normalize(&in)
	if err := validation.Merge(validation.Struct(in), checkInput(in)); err != nil {
		return Product{}, err
	}
	if len(images) > 0 {
		if err := media.ValidateImages("images", images, MinImages, MaxImages); err != nil {
			return Product{}, err
		}
	}

	p := existing
	now := s.now().UTC()
	if err := s.apply(ctx, &p, in, now); err != nil {
		return Product{}, err
	}

	var uploaded []media.Asset
	if len(images) > 0 {
		uploaded, err = s.media.UploadAll(ctx, images, media.UploadOptions{Folder: imageFolder, ResourceType: media.ResourceImage})
		if err != nil {
			return Product{}, err
		}
		p.Images = toImages(uploaded)
	}

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		s.media.Discard(ctx, "product update failed", uploaded...)
		return Product{}, err
	}
	if len(uploaded) > 0 {
		s.media.Discard(ctx, "product images replaced", toAssets(existing.Images)...)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.media.Discard(ctx, "product deleted", toAssets(p.Images)...)
	return nil
}

// ToggleFeatured flips featured. Turning it on clears bestSeller.
func (s *Service) ToggleFeatured(ctx context.Context, id uuid.UUID) (Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	featured := !p.Featured
	bestSeller := p.BestSeller && !featured
	return s.repo.SetFlags(ctx, id, featured, bestSeller, s.now().UTC())
}

// ToggleBestSeller flips bestSeller. Turning it on clears featured.
func (s *Service) ToggleBestSeller(ctx context.Context, id uuid.UUID) (Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	bestSeller := !p.BestSeller
	featured := p.Featured && !bestSeller
	return s.repo.SetFlags(ctx, id, featured, bestSeller, s.now().UTC())
}

func (s *Service) DashboardStats(ctx context.Context) (DashboardStats, error) {
	yes, no := true, false
	var (
		stats DashboardStats
		err   error
	)
	if stats.TotalProducts, err = s.repo.Count(ctx, Filter{}); err != nil {
		return DashboardStats{}, err
	}
	if stats.BestSellers, err = s.repo.Count(ctx, Filter{BestSeller: &yes}); err != nil {
		return DashboardStats{}, err
	}
	if stats.Featured, err = s.repo.Count(ctx, Filter{Featured: &yes}); err != nil {
		return DashboardStats{}, err
	}
	if stats.OutOfStock, err = s.repo.Count(ctx, Filter{InStock: &no}); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}

// CountsByCategory lists every category with its product count, by name.
func (s *Service) CountsByCategory(ctx context.Context) ([]CategoryCount, error) {
	counts, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	cats, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryCount, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryCount{CategoryID: c.ID, CategoryName: c.Name, Count: counts[c.ID]})
	}
	return out, nil
}

func (s *Service) BackfillFeatured(ctx context.Context) (int64, error) {
	return s.repo.BackfillFeatured(ctx)
}

// apply copies in onto p and recomputes every derived field.
func (s *Service) apply(ctx context.Context, p *Product, in Input, now time.Time) error {
	prices, err := pricing.Compute(in.BasePrice, in.ProfitMarginPercentage, in.DiscountPercentage)
	if err != nil {
		return err
	}

	categoryID := uuid.MustParse(in.CategoryID)
	subcategoryID := uuid.MustParse(in.SubcategoryID)
	if err := s.catalog.ValidateClassification(ctx, categoryID, subcategoryID); err != nil {
		return err
	}

	exists, err := s.repo.CodeExists(ctx, in.ProductCode, p.ID)
	if err != nil {
		return err
	}
	if exists {
		return ErrCodeExists
	}

	p.ProductCode = in.ProductCode
	p.Name = in.Name
	p.Description = in.Description
	p.Tags = in.Tags
	p.BasePrice = in.BasePrice
	p.ProfitMarginPercentage = in.ProfitMarginPercentage
	p.DiscountPercentage = in.DiscountPercentage
	p.ProfitMarginPrice = prices.ProfitMarginPrice
	p.CalculatedOriginalPrice = prices.CalculatedOriginalPrice
	p.OfferPrice = prices.OfferPrice
	p.Price = prices.CalculatedOriginalPrice

	p.ReceivedDate = in.ReceivedDate
	p.CaseQuantity = in.CaseQuantity
	p.ReceivedCase = in.ReceivedCase
	p.TotalAvailableQuantity = inventory.TotalQuantity(in.ReceivedCase, in.CaseQuantity)
	p.StockQuantity = p.TotalAvailableQuantity
	if in.StockQuantity != nil {
		p.StockQuantity = *in.StockQuantity
	}
	p.MaxQuantityPerCustomer = in.MaxQuantityPerCustomer

	p.CategoryID = categoryID
	p.SubcategoryID = subcategoryID
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	p.BestSeller = in.BestSeller
	p.Featured = in.Featured
	p.UpdatedAt = now

	return pricing.Verify(p.PricingInput(), p.PricingResult())
}

func normalize(in *Input) {
	in.ProductCode = normalizeCode(in.ProductCode)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.CaseQuantity = strings.TrimSpace(in.CaseQuantity)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	in.SubcategoryID = strings.TrimSpace(in.SubcategoryID)

	prices := pricing.RoundInput(pricing.Input{
		BasePrice:              in.BasePrice,
		ProfitMarginPercentage: in.ProfitMarginPercentage,
		DiscountPercentage:     in.DiscountPercentage,
	})
	in.BasePrice = prices.BasePrice
	in.ProfitMarginPercentage = prices.ProfitMarginPercentage
	in.DiscountPercentage = prices.DiscountPercentage

	tags := make([]string, 0, len(in.Tags))
	seen := map[string]bool{}
	for _, t := range in.Tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	in.Tags = tags
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func checkInput(in Input) map[string]string {
	errs := map[string]string{}
	if in.Featured && in.BestSeller {
		errs["featured"] = "a product cannot be both featured and a best seller"
	}
	return errs
}

func toImages(assets []media.Asset) []Image {
	out := make([]Image, 0, len(assets))
	for _, a := range assets {
		out = append(out, Image{URL: a.URL, StorageID: a.StorageID})
	}
	return out
}

func toAssets(images []Image) []media.Asset {
	out := make([]media.Asset, 0, len(images))
	for _, img := range images {
		out = append(out, media.Asset{URL: img.URL, StorageID: img.StorageID, ResourceType: media.ResourceImage})
	}
	return out
}
