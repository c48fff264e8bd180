package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/wichananm65/catalog-admin-backend/internal/pricing"
)

const (
	MinImages = 1
	MaxImages = 3
)

type Image struct {
	URL       string `json:"url"`
	StorageID string `json:"storageId"`
}

// Product is a catalog item. The derived price fields always match
// BasePrice, ProfitMarginPercentage and DiscountPercentage, and Price is the
// calculated original price shown as the "was" price.
type Product struct {
	ID          uuid.UUID `json:"_id"`
	ProductCode string    `json:"productCode"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`

	BasePrice               float64 `json:"basePrice"`
	ProfitMarginPercentage  float64 `json:"profitMarginPercentage"`
	DiscountPercentage      float64 `json:"discountPercentage"`
	ProfitMarginPrice       float64 `json:"profitMarginPrice"`
	CalculatedOriginalPrice float64 `json:"calculatedOriginalPrice"`
	OfferPrice              float64 `json:"offerPrice"`
	Price                   float64 `json:"price"`

	ReceivedDate           *time.Time `json:"receivedDate"`
	CaseQuantity           string     `json:"caseQuantity"`
	ReceivedCase           int        `json:"receivedCase"`
	TotalAvailableQuantity int        `json:"totalAvailableQuantity"`
	StockQuantity          int        `json:"stockQuantity"`
	MaxQuantityPerCustomer *int       `json:"maxQuantityPerCustomer"`

	CategoryID    uuid.UUID `json:"categoryId"`
	SubcategoryID uuid.UUID `json:"subcategoryId"`
	Images        []Image   `json:"images"`

	InStock    bool `json:"inStock"`
	IsActive   bool `json:"isActive"`
	BestSeller bool `json:"bestSeller"`
	Featured   bool `json:"featured"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p Product) PricingInput() pricing.Input {
	return pricing.Input{
		BasePrice:              p.BasePrice,
		ProfitMarginPercentage: p.ProfitMarginPercentage,
		DiscountPercentage:     p.DiscountPercentage,
	}
}

func (p Product) PricingResult() pricing.Result {
	return pricing.Result{
		ProfitMarginPrice:       p.ProfitMarginPrice,
		CalculatedOriginalPrice: p.CalculatedOriginalPrice,
		OfferPrice:              p.OfferPrice,
	}
}

// Input is the editable part of a product as sent by the admin UI.
type Input struct {
	ProductCode            string     `json:"productCode" validate:"required,alphanum,max=50"`
	Name                   string     `json:"name" validate:"required,max=200"`
	Description            string     `json:"description" validate:"max=5000"`
	Tags                   []string   `json:"tags"`
	BasePrice              float64    `json:"basePrice"`
	ProfitMarginPercentage float64    `json:"profitMarginPercentage" validate:"gte=0,lte=1000"`
	DiscountPercentage     float64    `json:"discountPercentage" validate:"gte=0"`
	ReceivedDate           *time.Time `json:"receivedDate"`
	CaseQuantity           string     `json:"caseQuantity" validate:"max=100"`
	ReceivedCase           int        `json:"receivedCase" validate:"gte=0"`
	StockQuantity          *int       `json:"stockQuantity" validate:"omitempty,gte=0"`
	MaxQuantityPerCustomer *int       `json:"maxQuantityPerCustomer" validate:"omitempty,gte=1"`
	CategoryID             string     `json:"categoryId" validate:"required,uuid"`
	SubcategoryID          string     `json:"subcategoryId" validate:"required,uuid"`
	InStock                *bool      `json:"inStock"`
	IsActive               *bool      `json:"isActive"`
	BestSeller             bool       `json:"bestSeller"`
	Featured               bool       `json:"featured"`
}

// Filter narrows List and Count. Nil fields do not filter.
type Filter struct {
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID
	Tag           string
	BestSeller    *bool
	Featured      *bool
	IsActive      *bool
	InStock       *bool
	// Search is a case-insensitive substring match on the name.
	Search string
	Page   int
	Limit  int
	// SortByName orders by name ascending instead of newest first.
	SortByName bool
}

func (f Filter) offset() int {
	if f.Page <= 1 || f.Limit <= 0 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

type Page struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}

type DashboardStats struct {
	TotalProducts int `json:"totalProducts"`
	BestSellers   int `json:"bestSellers"`
	Featured      int `json:"featured"`
	OutOfStock    int `json:"outOfStock"`
}

type CategoryCount struct {
	CategoryID   uuid.UUID `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	Count        int       `json:"count"`
}
