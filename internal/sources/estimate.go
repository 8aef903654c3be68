// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import "strings"

// commissionEntry maps a category substring to a commission rate. The table
// is an ordered slice, not a map: iteration order matters because the first
// substring match wins, so more specific keys must precede broader ones
// ("luxury beauty" before "beauty").
type commissionEntry struct {
	key  string
	rate float64
}

// marketplaceCommissionTable holds typical marketplace associate rates by
// category keyword.
var marketplaceCommissionTable = []commissionEntry{
	{"luxury beauty", 10.0},
	{"amazon coins", 10.0},
	{"digital music", 10.0},
	{"physical music", 8.0},
	{"handmade", 8.0},
	{"digital video games", 8.0},
	{"physical video games", 6.0},
	{"pc components", 5.0},
	{"headphones", 4.0},
	{"beauty", 4.0},
	{"musical instruments", 4.0},
	{"business products", 4.0},
	{"wireless products", 4.0},
	{"electronics", 3.0},
	{"cameras", 3.0},
	{"toys", 3.0},
	{"kitchen", 3.0},
	{"automotive", 3.0},
	{"sports", 3.0},
}

const defaultMarketplaceRate = 3.0

// marketplaceCommissionRate looks up the estimated commission percent for a
// marketplace category. The category is lowercased and scanned against the
// table in order; the first entry whose key is a substring wins.
func marketplaceCommissionRate(category string) float64 {
	lower := strings.ToLower(category)
	for _, e := range marketplaceCommissionTable {
		if strings.Contains(lower, e.key) {
			return e.rate
		}
	}
	return defaultMarketplaceRate
}

// midTierRetailers are store names that pay a flat 4% in typical affiliate
// programs.
var midTierRetailers = []string{"walmart", "target", "best buy", "bestbuy", "home depot", "lowe's", "lowes"}

// lowRateMarketplaces are auction and handmade marketplaces with lower flat
// referral rates.
var lowRateMarketplaces = []string{"ebay", "etsy"}

const defaultShoppingRate = 4.0

// shoppingCommissionRate estimates the commission percent for a shopping
// search result. A recognized store name takes precedence over the category
// lookup: a marketplace listing delegates to the marketplace category
// table, mid-tier retailers map to a flat 4%, and auction or handmade
// marketplaces map to a flat 3%. Anything else defaults to 4%.
func shoppingCommissionRate(store, category string) float64 {
	lower := strings.ToLower(store)
	if strings.Contains(lower, "amazon") {
		return marketplaceCommissionRate(category)
	}
	for _, name := range midTierRetailers {
		if strings.Contains(lower, name) {
			return 4.0
		}
	}
	for _, name := range lowRateMarketplaces {
		if strings.Contains(lower, name) {
			return 3.0
		}
	}
	return defaultShoppingRate
}

// trendingSignals are the raw per-item inputs to the trending heuristic.
type trendingSignals struct {
	rating      *float64
	reviewCount *int
	badges      []string
	discounted  bool
}

// estimateTrending derives a 0-100 popularity-momentum score. Baseline 50;
// a rating shifts it by (rating-3)*10, review volume adds up to 20, a
// "choice"/"bestseller" badge adds 15, a visible discount adds 10.
func estimateTrending(s trendingSignals) float64 {
	score := 50.0

	if s.rating != nil {
		score += (*s.rating - 3.0) * 10
	}

	if s.reviewCount != nil {
		switch {
		case *s.reviewCount > 1000:
			score += 20
		case *s.reviewCount > 100:
			score += 10
		}
	}

	for _, badge := range s.badges {
		lower := strings.ToLower(badge)
		if strings.Contains(lower, "choice") || strings.Contains(lower, "bestseller") {
			score += 15
			break
		}
	}

	if s.discounted {
		score += 10
	}

	return clampScore(score)
}

// competitionSignals are the raw per-item inputs to the competition
// heuristic.
type competitionSignals struct {
	reviewCount *int
	// listingCount is the number of sellers/offers observed for the item.
	listingCount int
	rating       *float64
	// ratingSaturation enables the rating>4.5 saturation signal, used by
	// sources without seller counts.
	ratingSaturation bool
}

// estimateCompetition derives a 0-100 market-saturation score (higher means
// more contested). Baseline 50; review volume adds up to 30 (highest
// threshold wins), multiple sellers add 15, and optionally a rating above
// 4.5 adds 10 as a saturation signal.
func estimateCompetition(s competitionSignals) float64 {
	score := 50.0

	if s.reviewCount != nil {
		switch {
		case *s.reviewCount > 5000:
			score += 30
		case *s.reviewCount > 1000:
			score += 20
		case *s.reviewCount > 100:
			score += 10
		}
	}

	if s.listingCount > 1 {
		score += 15
	}

	if s.ratingSaturation && s.rating != nil && *s.rating > 4.5 {
		score += 10
	}

	return clampScore(score)
}
