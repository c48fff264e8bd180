package banner

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
	"github.com/wichananm65/catalog-admin-backend/internal/media"
)

const imageFolder = "banners"

// Service provides business logic for banners.
type Service struct {
	repo  Repository
	media *media.Janitor
	log   *zap.Logger
	now   func() time.Time
}

func NewService(r Repository, janitor *media.Janitor, log *zap.Logger) *Service {
	return &Service{repo: r, media: janitor, log: log, now: time.Now}
}

// ParseType maps an optional raw value to a Type. Empty means def.
func ParseType(raw string, def Type) (Type, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return def, nil
	}
	t := Type(raw)
	if !t.Valid() {
		return "", apperr.Validation("Validation error.", map[string]string{"type": "type must be one of [landscape portrait]"})
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, t Type) ([]Banner, error) {
	return s.repo.List(ctx, t)
}

// Upload stores up to MaxPerUpload images as banners of type t. Either every
// banner is saved or none is, and no uploaded image is left behind.
func (s *Service) Upload(ctx context.Context, t Type, files []media.File) ([]Banner, error) {
	if len(files) == 0 {
		return nil, apperr.Validation("No images uploaded", map[string]string{"banners": "required"})
	}
	if err := media.ValidateImages("banners", files, 1, MaxPerUpload); err != nil {
		return nil, err
	}

	assets, err := s.media.UploadAll(ctx, files, media.UploadOptions{Folder: imageFolder, ResourceType: media.ResourceImage})
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	banners := make([]Banner, 0, len(assets))
	for _, a := range assets {
		banners = append(banners, Banner{
			ID:        uuid.New(),
			ImageURL:  a.URL,
			StorageID: a.StorageID,
			Type:      t,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := s.repo.CreateMany(ctx, banners); err != nil {
		s.media.Discard(ctx, "banner create failed", assets...)
		return nil, err
	}
	s.log.Info("banners uploaded", zap.Int("count", len(banners)), zap.String("type", string(t)))
	return banners, nil
}

// Replace swaps the image of a banner. The old image is released only after
// the new one is saved.
func (s *Service) Replace(ctx context.Context, id uuid.UUID, file media.File) (Banner, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Banner{}, err
	}
	if err := media.ValidateImage("banner", file); err != nil {
		return Banner{}, err
	}

	asset, err := s.media.Upload(ctx, file, media.UploadOptions{Folder: imageFolder, ResourceType: media.ResourceImage})
	if err != nil {
		return Banner{}, err
	}

	old := media.Asset{URL: b.ImageURL, StorageID: b.StorageID, ResourceType: media.ResourceImage}
	b.ImageURL = asset.URL
	b.StorageID = asset.StorageID
	b.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, b); err != nil {
		s.media.Discard(ctx, "banner update failed", asset)
		return Banner{}, err
	}
	s.media.Discard(ctx, "banner image replaced", old)
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.media.Discard(ctx, "banner deleted", media.Asset{URL: b.ImageURL, StorageID: b.StorageID, ResourceType: media.ResourceImage})
	return nil
}
