package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"sync"

	"github.com/google/uuid"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
)

// MemoryStore is an in-process Store with failure injection, used by tests.
type MemoryStore struct {
	mu        sync.Mutex
	files     map[string][]byte
	uploads   int
	failAfter int
	uploadErr error
	deleteErr error
	deleted   []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: map[string][]byte{}, failAfter: -1}
}

// FailUploadsAfter makes every upload after the first n fail.
func (s *MemoryStore) FailUploadsAfter(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAfter = n
	s.uploadErr = err
}

func (s *MemoryStore) FailDeletes(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteErr = err
}

func (s *MemoryStore) Upload(ctx context.Context, r io.Reader, opts UploadOptions) (Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAfter >= 0 && s.uploads >= s.failAfter {
		return Asset{}, apperr.Dependency("media upload failed", s.uploadErr)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return Asset{}, apperr.Dependency("media upload failed", err)
	}
	s.uploads++

	id := opts.PublicID
	if id == "" {
		id = uuid.NewString()
	}
	id = path.Join(opts.Folder, id)
	s.files[id] = b

	return Asset{
		URL:          fmt.Sprintf("memory://%s", id),
		StorageID:    id,
		ResourceType: resourceTypeOrDefault(opts.ResourceType),
		Bytes:        int64(len(b)),
	}, nil
}

func (s *MemoryStore) Delete(ctx context.Context, storageID string, _ ResourceType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return apperr.Dependency("media delete failed", s.deleteErr)
	}
	delete(s.files, storageID)
	s.deleted = append(s.deleted, storageID)
	return nil
}

func (s *MemoryStore) Has(storageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[storageID]
	return ok
}

// Len is the number of files currently stored.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

func (s *MemoryStore) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.deleted))
	copy(out, s.deleted)
	return out
}
