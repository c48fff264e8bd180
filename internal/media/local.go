package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
)

// LocalStore keeps files under Dir and serves them from PublicBase. It is
// meant for development; cmd/app mounts Dir as static files.
type LocalStore struct {
	Dir        string
	PublicBase string
}

func NewLocalStore(dir, publicBase string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: local dir: %w", err)
	}
	return &LocalStore{Dir: dir, PublicBase: strings.TrimRight(publicBase, "/")}, nil
}

func (s *LocalStore) Upload(ctx context.Context, r io.Reader, opts UploadOptions) (Asset, error) {
	name := opts.PublicID
	if name == "" {
		name = uuid.NewString()
	}
	if opts.Format != "" {
		name += "." + strings.TrimPrefix(opts.Format, ".")
	}
	storageID := strings.TrimPrefix(path.Clean("/"+path.Join(opts.Folder, name)), "/")

	full, err := s.resolve(storageID)
	if err != nil {
		return Asset{}, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Asset{}, apperr.Dependency("media upload failed", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return Asset{}, apperr.Dependency("media upload failed", err)
	}
	n, err := io.Copy(f, readerWithContext(ctx, r))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return Asset{}, apperr.Dependency("media upload failed", err)
	}

	return Asset{
		URL:          s.PublicBase + "/" + storageID,
		StorageID:    storageID,
		ResourceType: resourceTypeOrDefault(opts.ResourceType),
		Bytes:        n,
	}, nil
}

func (s *LocalStore) Delete(ctx context.Context, storageID string, _ ResourceType) error {
	full, err := s.resolve(storageID)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperr.Dependency("media delete failed", err)
	}
	return nil
}

// resolve maps a storage id to a path inside Dir and rejects ids that escape it.
func (s *LocalStore) resolve(storageID string) (string, error) {
	clean := path.Clean("/" + storageID)
	if clean == "/" {
		return "", apperr.Validation("invalid storage id", nil)
	}
	return filepath.Join(s.Dir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
