// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources queries external commerce APIs and normalizes their
// disparate response shapes into the common Product record. Each adapter
// (marketplace, shopping search, GraphQL catalog, offline sample data)
// implements the Source interface per the Strategy pattern.
package sources

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/affiliate-research/pkg/types"
)

// Source fetches products from a single external commerce API.
type Source interface {
	Name() string

	// Available reports whether the source has the credentials it needs.
	// An unavailable source is skipped without counting as an attempted
	// source; this is distinct from an available source returning zero
	// results.
	Available() bool

	// Search runs the query and returns normalized products in the order
	// the external source returned them. Per-item parse failures are
	// recorded in the result's Skipped list, never raised. A total failure
	// (network error, non-2xx response) returns an error; callers degrade
	// it to an empty result.
	Search(ctx context.Context, query types.ResearchQuery) (Result, error)
}

// Result holds one adapter fetch outcome.
type Result struct {
	// Products lists the parsed records that passed the criteria filter.
	Products []types.Product

	// Skipped records raw items that failed to parse, for observability.
	Skipped []Diagnostic

	// Calls counts the external requests this fetch made. Batch-capable
	// sources make one call per search; per-item sources make one per
	// fetched identifier.
	Calls int
}

// Diagnostic identifies one skipped raw item and why it was dropped.
type Diagnostic struct {
	ItemRef string `json:"item_ref"`
	Reason  string `json:"reason"`
}

// meetsCriteria applies the adapter-local acceptance filter: minimum
// commission rate, minimum trending score, and the inclusive price range.
// It runs before a product leaves the adapter and is not applied again
// downstream.
func meetsCriteria(p types.Product, q types.ResearchQuery) bool {
	if p.CommissionRate < q.MinCommissionRate {
		return false
	}
	if p.TrendingScore < q.MinTrendingScore {
		return false
	}
	if p.Price < q.PriceRange.Min || p.Price > q.PriceRange.Max {
		return false
	}
	return true
}

// cleanPrice parses a price string that may carry currency symbols and
// thousands separators ("$1,299.99"), keeping only digits and the first
// decimal point. A string that still fails to parse is treated as price 0,
// not an error.
func cleanPrice(s string) float64 {
	var b strings.Builder
	seenDot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot:
			b.WriteRune(r)
			seenDot = true
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "." {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// titleKeywords lowercases the title, splits on whitespace, and returns the
// first 10 tokens.
func titleKeywords(title string) []string {
	tokens := strings.Fields(strings.ToLower(title))
	if len(tokens) > 10 {
		tokens = tokens[:10]
	}
	return tokens
}

// resolveCategory prefers the source's own category field, then the query's
// requested category, then the literal "General".
func resolveCategory(sourceCategory, queryCategory string) string {
	if sourceCategory != "" {
		return sourceCategory
	}
	if queryCategory != "" {
		return queryCategory
	}
	return "General"
}

// productTags returns the lowercased category and niche.
func productTags(category, niche string) []string {
	return []string{strings.ToLower(category), strings.ToLower(niche)}
}

// commissionAmount returns price * rate / 100, rounded to cents.
func commissionAmount(price, rate float64) float64 {
	return math.Round(price*rate) / 100
}

// clampScore bounds a heuristic score to [0, 100].
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
