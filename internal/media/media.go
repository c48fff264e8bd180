// Package media uploads files to the media host and releases them again.
//
// Every write path that uploads before persisting a record goes through
// Janitor, which owns the single compensating-delete policy: deletes are
// best-effort, failures are logged and recorded as orphans, and Reconcile
// retries recorded orphans later.
package media

import (
	"context"
	"io"
)

type ResourceType string

const (
	ResourceImage ResourceType = "image"
	ResourceRaw   ResourceType = "raw"
)

// Asset is a stored file as returned by the media host.
type Asset struct {
	URL          string       `json:"url"`
	StorageID    string       `json:"storageId"`
	ResourceType ResourceType `json:"-"`
	Bytes        int64        `json:"-"`
}

type UploadOptions struct {
	Folder       string
	PublicID     string
	ResourceType ResourceType
	// Format is the file extension to store under, without the dot.
	Format string
}

type Store interface {
	Upload(ctx context.Context, r io.Reader, opts UploadOptions) (Asset, error)
	// Delete must succeed when storageID does not exist.
	Delete(ctx context.Context, storageID string, rt ResourceType) error
}

func resourceTypeOrDefault(rt ResourceType) ResourceType {
	if rt == "" {
		return ResourceImage
	}
	return rt
}
