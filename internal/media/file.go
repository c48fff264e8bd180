package media

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
)

const (
	MaxImageBytes int64 = 1 << 20
	MaxPDFBytes   int64 = 1 << 30
)

var imageExtensions = map[string]bool{"jpg": true, "jpeg": true, "png": true}

// File is an uploaded file before it reaches the media host.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

func FromMultipart(fh *multipart.FileHeader) File {
	return File{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func FromMultipartAll(fhs []*multipart.FileHeader) []File {
	out := make([]File, 0, len(fhs))
	for _, fh := range fhs {
		out = append(out, FromMultipart(fh))
	}
	return out
}

// BytesFile wraps an in-memory payload.
func BytesFile(name, contentType string, b []byte) File {
	return File{
		Name:        name,
		Size:        int64(len(b)),
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(b)), nil
		},
	}
}

// Ext is the lower-cased extension without the dot.
func (f File) Ext() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Name)), ".")
}

// ValidateImage accepts jpg, jpeg and png files up to 1 MiB.
func ValidateImage(field string, f File) error {
	if !imageExtensions[f.Ext()] {
		return apperr.Validation("Only image files are allowed (jpg, jpeg, png).", map[string]string{field: "INVALID_FILE_TYPE"})
	}
	if f.Size > MaxImageBytes {
		return apperr.Validation("File too large. Maximum file size allowed is 1MB.", map[string]string{field: "FILE_TOO_LARGE"})
	}
	return nil
}

// ValidateImages checks the count bounds and every file.
func ValidateImages(field string, files []File, min, max int) error {
	if len(files) < min {
		return apperr.Validation(fmt.Sprintf("At least %d image required", min), map[string]string{field: "required"})
	}
	if len(files) > max {
		return apperr.Validation(fmt.Sprintf("Max %d images allowed", max), map[string]string{field: "TOO_MANY_FILES"})
	}
	for _, f := range files {
		if err := ValidateImage(field, f); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePDF accepts application/pdf files up to 1 GiB.
func ValidatePDF(field string, f File) error {
	if f.ContentType != "application/pdf" {
		return apperr.Validation("Only PDF files are allowed", map[string]string{field: "INVALID_FILE_TYPE"})
	}
	if f.Size > MaxPDFBytes {
		return apperr.Validation("File size cannot exceed 1GB", map[string]string{field: "FILE_TOO_LARGE"})
	}
	return nil
}
