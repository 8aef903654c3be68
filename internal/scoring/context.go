// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import "github.com/pdiddy/affiliate-research/pkg/types"

// Fallback aggregates used when the fetched set supplies no signal, keeping
// the scoring formula well-defined on an empty or sparse niche.
const (
	fallbackAvgPrice        = 100.0
	fallbackAvgCommission   = 5.0
	fallbackAvgSearchVolume = 1000.0
)

// BuildNicheContext aggregates the full pre-truncation product set into the
// averages the scoring engine normalizes against. Zero-valued fields are
// excluded from their averages; a field with no observations falls back to
// its default.
func BuildNicheContext(products []types.Product, query types.ResearchQuery) types.NicheContext {
	ctx := types.NicheContext{
		AvgPrice:        fallbackAvgPrice,
		AvgCommission:   fallbackAvgCommission,
		AvgSearchVolume: fallbackAvgSearchVolume,
		TotalProducts:   len(products),
		Niche:           query.Niche,
		Category:        query.ProductCategory,
	}
	if len(products) == 0 {
		return ctx
	}

	var priceSum, commissionSum, volumeSum float64
	var priceN, commissionN, volumeN int
	minPrice, maxPrice := 0.0, 0.0

	for _, p := range products {
		if p.Price > 0 {
			priceSum += p.Price
			priceN++
			if priceN == 1 || p.Price < minPrice {
				minPrice = p.Price
			}
			if p.Price > maxPrice {
				maxPrice = p.Price
			}
		}
		if p.CommissionRate > 0 {
			commissionSum += p.CommissionRate
			commissionN++
		}
		if p.SearchVolume != nil && *p.SearchVolume > 0 {
			volumeSum += float64(*p.SearchVolume)
			volumeN++
		}
	}

	if priceN > 0 {
		ctx.AvgPrice = priceSum / float64(priceN)
		ctx.PriceRange = types.PriceRange{Min: minPrice, Max: maxPrice}
	} else {
		ctx.PriceRange = types.PriceRange{Min: 0, Max: 1000}
	}
	if commissionN > 0 {
		ctx.AvgCommission = commissionSum / float64(commissionN)
	}
	if volumeN > 0 {
		ctx.AvgSearchVolume = volumeSum / float64(volumeN)
	}
	return ctx
}
