package banner

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	Landscape Type = "landscape"
	Portrait  Type = "portrait"
)

const MaxPerUpload = 5

func (t Type) Valid() bool {
	return t == Landscape || t == Portrait
}

// Banner is a promotional image shown on the storefront.
type Banner struct {
	ID        uuid.UUID `json:"_id"`
	ImageURL  string    `json:"imageUrl"`
	StorageID string    `json:"storageId"`
	Type      Type      `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
