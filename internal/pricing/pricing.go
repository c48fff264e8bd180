// Package pricing derives the selling prices of a product from its base price,
// profit margin and displayed discount.
//
// The profit-margin price is what the customer pays. The calculated original
// price is a synthetic "was" price chosen so that the configured discount is
// shown correctly against the profit-margin price.
package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
)

// Places is the number of decimal places prices are rounded to.
const Places = 2

var hundred = decimal.NewFromInt(100)

type Input struct {
	BasePrice              float64
	ProfitMarginPercentage float64
	DiscountPercentage     float64
}

type Result struct {
	ProfitMarginPrice       float64 `json:"profitMarginPrice"`
	CalculatedOriginalPrice float64 `json:"calculatedOriginalPrice"`
	OfferPrice              float64 `json:"offerPrice"`
}

// Compute returns the derived price tuple. The inputs are first rounded to
// Places, the precision they are stored at, so basePrice must be positive and
// discountPercentage below 100 after rounding; anything else fails with a
// domain error.
func Compute(basePrice, profitMarginPercentage, discountPercentage float64) (Result, error) {
	for _, v := range []float64{basePrice, profitMarginPercentage, discountPercentage} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{}, apperr.Domain("prices must be finite numbers")
		}
	}

	base := decimal.NewFromFloat(basePrice).Round(Places)
	margin := decimal.NewFromFloat(profitMarginPercentage).Round(Places)
	discount := decimal.NewFromFloat(discountPercentage).Round(Places)

	if !base.IsPositive() {
		return Result{}, apperr.Domain("basePrice must be greater than 0")
	}
	if discount.GreaterThanOrEqual(hundred) {
		return Result{}, apperr.Domain("discountPercentage must be less than 100")
	}

	pm := base.Mul(decimal.NewFromInt(1).Add(margin.Div(hundred)))
	original := pm.Div(decimal.NewFromInt(1).Sub(discount.Div(hundred)))

	pmRounded := pm.Round(Places).InexactFloat64()
	return Result{
		ProfitMarginPrice:       pmRounded,
		CalculatedOriginalPrice: original.Round(Places).InexactFloat64(),
		OfferPrice:              pmRounded,
	}, nil
}

// Round rounds v half away from zero to Places.
func Round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(Places).InexactFloat64()
}

// RoundInput rounds every field of in to Places.
func RoundInput(in Input) Input {
	return Input{
		BasePrice:              Round(in.BasePrice),
		ProfitMarginPercentage: Round(in.ProfitMarginPercentage),
		DiscountPercentage:     Round(in.DiscountPercentage),
	}
}

// ComputeInput is Compute for an Input value.
func ComputeInput(in Input) (Result, error) {
	return Compute(in.BasePrice, in.ProfitMarginPercentage, in.DiscountPercentage)
}

// Verify reports a domain error when got is not the tuple Compute derives
// from in. Stored products must always satisfy it.
func Verify(in Input, got Result) error {
	want, err := ComputeInput(in)
	if err != nil {
		return err
	}
	if !sameCents(want.ProfitMarginPrice, got.ProfitMarginPrice) ||
		!sameCents(want.CalculatedOriginalPrice, got.CalculatedOriginalPrice) ||
		!sameCents(want.OfferPrice, got.OfferPrice) {
		return apperr.Domain("derived prices are inconsistent with basePrice, profitMarginPercentage and discountPercentage")
	}
	return nil
}

func sameCents(a, b float64) bool {
	return decimal.NewFromFloat(a).Round(Places).Equal(decimal.NewFromFloat(b).Round(Places))
}
