package category

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `json:"_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Subcategory always belongs to exactly one Category.
type Subcategory struct {
	ID         uuid.UUID `json:"_id"`
	Name       string    `json:"name"`
	CategoryID uuid.UUID `json:"categoryId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CategoryInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

type SubcategoryInput struct {
	Name       string `json:"name" validate:"required,max=100"`
	CategoryID string `json:"categoryId" validate:"required,uuid"`
}
