package pricelist

import (
	"time"

	"github.com/google/uuid"
)

// PriceList is the downloadable PDF price list. At most one exists.
type PriceList struct {
	ID            uuid.UUID `json:"_id"`
	DocumentName  string    `json:"documentName"`
	PDFURL        string    `json:"pdfUrl"`
	StorageID     string    `json:"storageId"`
	FileSizeBytes int64     `json:"fileSize"`
	IsActive      bool      `json:"isActive"`
	UploadedBy    *Uploader `json:"uploadedBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Uploader identifies the admin who uploaded the document. Name and Email
// are filled when the admin still exists.
type Uploader struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name,omitempty"`
	Email string    `json:"email,omitempty"`
}

type Filter struct {
	IsActive *bool
	// Search is a case-insensitive substring match on the document name.
	Search string
	Page   int
	Limit  int
}

func (f Filter) offset() int {
	if f.Page <= 1 || f.Limit <= 0 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// Update carries the optional fields of an edit. Nil leaves a field as is.
type Update struct {
	DocumentName *string `json:"documentName" validate:"omitempty,min=1,max=100"`
	IsActive     *bool   `json:"isActive"`
}

type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}
