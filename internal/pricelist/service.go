package pricelist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
	"github.com/wichananm65/catalog-admin-backend/internal/httpx"
	"github.com/wichananm65/catalog-admin-backend/internal/media"
	"github.com/wichananm65/catalog-admin-backend/internal/validation"
)

const (
	folder           = "price-lists"
	maxDocumentName  = 100
	defaultPageLimit = 10
)

type Service struct {
	repo  Repository
	media *media.Janitor
	log   *zap.Logger
	now   func() time.Time
}

func NewService(repo Repository, janitor *media.Janitor, log *zap.Logger) *Service {
	return &Service{repo: repo, media: janitor, log: log, now: time.Now}
}

// Upload stores the PDF and records it. Only one price list may exist.
func (s *Service) Upload(ctx context.Context, documentName string, file *media.File, uploadedBy uuid.UUID) (PriceList, error) {
	documentName = strings.TrimSpace(documentName)
	if documentName == "" {
		return PriceList{}, apperr.Validation("Document name is required", map[string]string{"documentName": "documentName is required"})
	}
	if len([]rune(documentName)) > maxDocumentName {
		return PriceList{}, apperr.Validation("Document name cannot exceed 100 characters", map[string]string{"documentName": "documentName must be at most 100"})
	}

	n, err := s.repo.Count(ctx, Filter{})
	if err != nil {
		return PriceList{}, err
	}
	if n > 0 {
		return PriceList{}, ErrExists
	}

	if file == nil {
		return PriceList{}, apperr.Validation("PDF file is required", map[string]string{"pdf": "required"})
	}
	if err := media.ValidatePDF("pdf", *file); err != nil {
		return PriceList{}, err
	}

	now := s.now().UTC()
	asset, err := s.uploadPDF(ctx, *file, now)
	if err != nil {
		return PriceList{}, err
	}

	p := PriceList{
		ID:            uuid.New(),
		DocumentName:  documentName,
		PDFURL:        asset.URL,
		StorageID:     asset.StorageID,
		FileSizeBytes: file.Size,
		IsActive:      true,
		UploadedBy:    &Uploader{ID: uploadedBy},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.media.Discard(ctx, "price list create failed", asset)
		return PriceList{}, err
	}
	s.log.Info("price list uploaded",
		zap.String("price_list_id", p.ID.String()),
		zap.Int64("bytes", p.FileSizeBytes),
		zap.String("uploaded_by", uploadedBy.String()),
	)
	return s.repo.GetByID(ctx, p.ID)
}

// List returns one page of price lists and its pagination block.
func (s *Service) List(ctx context.Context, f Filter) ([]PriceList, Pagination, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultPageLimit
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, Pagination{}, err
	}
	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, Pagination{}, err
	}
	return items, Pagination{
		CurrentPage:  f.Page,
		TotalPages:   httpx.Pages(total, f.Limit),
		TotalItems:   total,
		ItemsPerPage: f.Limit,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (PriceList, error) {
	return s.repo.GetByID(ctx, id)
}

// Update edits the name and status. A new file replaces the stored PDF and
// the old one is released after the save.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Update, file *media.File) (PriceList, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PriceList{}, err
	}

	if in.DocumentName != nil {
		name := strings.TrimSpace(*in.DocumentName)
		in.DocumentName = &name
	}
	if err := validation.Struct(in); err != nil {
		return PriceList{}, err
	}
	if file != nil {
		if err := media.ValidatePDF("pdf", *file); err != nil {
			return PriceList{}, err
		}
	}

	now := s.now().UTC()
	if in.DocumentName != nil {
		p.DocumentName = *in.DocumentName
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	p.UpdatedAt = now

	var old, uploaded *media.Asset
	if file != nil {
		asset, err := s.uploadPDF(ctx, *file, now)
		if err != nil {
			return PriceList{}, err
		}
		uploaded = &asset
		old = &media.Asset{URL: p.PDFURL, StorageID: p.StorageID, ResourceType: media.ResourceRaw}
		p.PDFURL = asset.URL
		p.StorageID = asset.StorageID
		p.FileSizeBytes = file.Size
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if uploaded != nil {
			s.media.Discard(ctx, "price list update failed", *uploaded)
		}
		return PriceList{}, err
	}
	if old != nil {
		s.media.Discard(ctx, "price list replaced", *old)
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.media.Discard(ctx, "price list deleted", media.Asset{URL: p.PDFURL, StorageID: p.StorageID, ResourceType: media.ResourceRaw})
	return nil
}

func (s *Service) ToggleStatus(ctx context.Context, id uuid.UUID) (PriceList, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PriceList{}, err
	}
	p.IsActive = !p.IsActive
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return PriceList{}, err
	}
	return p, nil
}

func (s *Service) uploadPDF(ctx context.Context, f media.File, at time.Time) (media.Asset, error) {
	asset, err := s.media.Upload(ctx, f, media.UploadOptions{
		Folder:       folder,
		PublicID:     fmt.Sprintf("price-list-%d", at.UnixMilli()),
		ResourceType: media.ResourceRaw,
		Format:       "pdf",
	})
	if err != nil {
		return media.Asset{}, err
	}
	asset.ResourceType = media.ResourceRaw
	return asset, nil
}
