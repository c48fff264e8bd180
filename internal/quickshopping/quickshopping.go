// Package quickshopping resolves the category and product arrangement shown
// on the quick shopping screen. An admin's saved arrangement replaces the
// default alphabetical one until it is reset.
package quickshopping

import (
	"time"

	"github.com/google/uuid"

	"github.com/wichananm65/catalog-admin-backend/internal/product"
)

type ProductRef struct {
	ProductID uuid.UUID `json:"productId"`
}

type CategoryOrder struct {
	CategoryID uuid.UUID    `json:"categoryId"`
	Products   []ProductRef `json:"products"`
}

type Arrangement []CategoryOrder

// Clone returns a deep copy of a.
func (a Arrangement) Clone() Arrangement {
	if a == nil {
		return nil
	}
	out := make(Arrangement, len(a))
	for i, co := range a {
		out[i] = CategoryOrder{CategoryID: co.CategoryID}
		if co.Products != nil {
			out[i].Products = append(make([]ProductRef, 0, len(co.Products)), co.Products...)
		}
	}
	return out
}

// Record is the stored arrangement of one admin.
type Record struct {
	AdminID       uuid.UUID   `json:"adminId"`
	Branch        string      `json:"branch"`
	CategoryOrder Arrangement `json:"categoryOrder"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type ProductSummary struct {
	ID                 uuid.UUID       `json:"_id"`
	Name               string          `json:"name"`
	ProductCode        string          `json:"productCode"`
	Price              float64         `json:"price"`
	OfferPrice         float64         `json:"offerPrice"`
	BasePrice          float64         `json:"basePrice"`
	ProfitMarginPrice  float64         `json:"profitMarginPrice"`
	DiscountPercentage float64         `json:"discountPercentage"`
	Images             []product.Image `json:"images"`
}

type CategoryView struct {
	ID       uuid.UUID        `json:"_id"`
	Name     string           `json:"name"`
	Products []ProductSummary `json:"products"`
}

// Resolved is a saved arrangement with names filled in. References to
// categories or products that no longer exist are dropped and counted.
type Resolved struct {
	Categories        []CategoryView `json:"categories"`
	DroppedCategories int            `json:"droppedCategories"`
	DroppedProducts   int            `json:"droppedProducts"`
}

// SaveRequest is the body of a save. IDs are validated before they are parsed.
type SaveRequest struct {
	CategoryOrder []CategoryOrderInput `json:"categoryOrder" validate:"required,dive"`
}

type CategoryOrderInput struct {
	CategoryID string            `json:"categoryId" validate:"required,uuid"`
	Products   []ProductRefInput `json:"products" validate:"dive"`
}

type ProductRefInput struct {
	ProductID string `json:"productId" validate:"required,uuid"`
}

func summarize(p product.Product) ProductSummary {
	return ProductSummary{
		ID:                 p.ID,
		Name:               p.Name,
		ProductCode:        p.ProductCode,
		Price:              p.Price,
		OfferPrice:         p.OfferPrice,
		BasePrice:          p.BasePrice,
		ProfitMarginPrice:  p.ProfitMarginPrice,
		DiscountPercentage: p.DiscountPercentage,
		Images:             p.Images,
	}
}
