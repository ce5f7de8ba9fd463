package pricing

import (
	"errors"
	"fmt"

	"github.com/fotomarket/printcore/internal/catalog"
)

// ErrInvalidSelection is returned when a selection references an unknown
// product type, size, or provider, or a quantity outside [MinQuantity, MaxQuantity].
var ErrInvalidSelection = errors.New("pricing: invalid selection")

// Quantity bounds for a single line item.
const (
	MinQuantity = 1
	MaxQuantity = 100
)

// Quantity discount tiers: inclusive lower bound, rate applied once to the
// gross total when the final tier is reached. No blending between tiers.
var discountTiers = []struct {
	minQuantity int
	rate        float64
}{
	{20, 0.15},
	{10, 0.10},
	{5, 0.05},
}

// Breakdown contains all intermediate and final values of pricing one
// configured product.
type Breakdown struct {
	UnitBase   float64
	Subtotal   float64
	Commission float64
	Discount   float64
	FinalTotal float64
}

// Engine prices product selections against a read-only catalog. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine returns an Engine bound to a catalog.
func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Price computes the full breakdown for one selection.
//
// unitBase = basePrice * sizeMultiplier + materialSurcharge
// subtotal = unitBase * quantity
// commission = subtotal * provider.CommissionRate
// discount = tier rate * (subtotal + commission), once the quantity reaches a tier
//
// The final total never drops below the subtotal (the discount eats into the
// commission, not into raw cost) and never below zero.
//
// Unknown materials are tolerated as zero surcharge; unknown product type,
// size, or provider, or a quantity outside bounds, yield ErrInvalidSelection.
func (e *Engine) Price(productTypeID, sizeID, materialID, providerID string, quantity int) (Breakdown, error) {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return Breakdown{}, fmt.Errorf("%w: quantity %d outside [%d, %d]", ErrInvalidSelection, quantity, MinQuantity, MaxQuantity)
	}

	pt, err := e.catalog.ProductType(productTypeID)
	if err != nil {
		return Breakdown{}, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}

	multiplier, err := e.catalog.SizeMultiplier(productTypeID, sizeID)
	if err != nil {
		return Breakdown{}, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}

	provider, err := e.catalog.Provider(providerID)
	if err != nil {
		return Breakdown{}, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}

	unitBase := pt.BasePrice*multiplier + e.catalog.MaterialSurcharge(materialID)
	subtotal := unitBase * float64(quantity)
	commission := subtotal * provider.CommissionRate
	grossTotal := subtotal + commission

	discount := discountRate(quantity) * grossTotal
	finalTotal := grossTotal - discount
	if finalTotal < subtotal {
		finalTotal = subtotal
	}
	if finalTotal < 0 {
		finalTotal = 0
	}
	// Keep the identity finalTotal = grossTotal - discount after clamping.
	discount = grossTotal - finalTotal

	return Breakdown{
		UnitBase:   unitBase,
		Subtotal:   subtotal,
		Commission: commission,
		Discount:   discount,
		FinalTotal: finalTotal,
	}, nil
}

func discountRate(quantity int) float64 {
	for _, tier := range discountTiers {
		if quantity >= tier.minQuantity {
			return tier.rate
		}
	}
	return 0
}
