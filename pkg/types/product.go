// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the affiliate-research
// pipeline: the normalized Product record every source adapter produces, the
// ResearchQuery input, the NicheContext scoring aggregate, and the
// ResultEnvelope the orchestrator emits.
package types

import (
	"fmt"
	"strings"
)

// Product is the normalized record produced by every source adapter. Raw API
// shapes never cross the adapter boundary; each adapter maps its response
// into this type immediately. A Product is mutated in place by the
// enrichment stage (SearchVolume, Difficulty, CompetitionScore) and by the
// scoring engine (ResearchScore), and is immutable once the orchestrator
// emits the final envelope.
type Product struct {
	// Title is the listing title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Description is a short blurb assembled from the source's feature text.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Brand is the vendor or brand name, when the source supplies one.
	Brand string `json:"brand,omitempty" yaml:"brand,omitempty"`

	// Category is the resolved product category: the source's own category
	// field, falling back to the query's requested category, then "General".
	Category string `json:"category" yaml:"category"`

	// Niche is the topical niche the query was researching.
	Niche string `json:"niche" yaml:"niche"`

	// Price is the current listing price in major currency units (>= 0).
	Price float64 `json:"price" yaml:"price"`

	// OriginalPrice is the pre-discount price, when the listing is on sale.
	// When present it is >= Price.
	OriginalPrice *float64 `json:"original_price,omitempty" yaml:"original_price,omitempty"`

	// CommissionRate is the estimated affiliate commission in percent (>= 0).
	CommissionRate float64 `json:"commission_rate" yaml:"commission_rate"`

	// CommissionAmount is Price * CommissionRate / 100, rounded to cents.
	CommissionAmount float64 `json:"commission_amount" yaml:"commission_amount"`

	// ProductURL is the canonical listing URL.
	ProductURL string `json:"product_url" yaml:"product_url"`

	// AffiliateURL is the tagged referral URL, when one can be built.
	AffiliateURL string `json:"affiliate_url,omitempty" yaml:"affiliate_url,omitempty"`

	// ImageURL is the primary listing image, when the source supplies one.
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`

	// Rating is the average customer rating in [0, 5], when known.
	Rating *float64 `json:"rating,omitempty" yaml:"rating,omitempty"`

	// ReviewCount is the number of customer reviews, when known.
	ReviewCount *int `json:"review_count,omitempty" yaml:"review_count,omitempty"`

	// SalesRank is the source's sales rank, when known.
	SalesRank *int `json:"sales_rank,omitempty" yaml:"sales_rank,omitempty"`

	// TrendingScore is the 0-100 popularity-momentum heuristic.
	TrendingScore float64 `json:"trending_score" yaml:"trending_score"`

	// CompetitionScore is the 0-100 market-saturation heuristic.
	CompetitionScore float64 `json:"competition_score" yaml:"competition_score"`

	// ResearchScore is the final 0-100 composite score set by the scoring
	// engine. Zero until the scoring step runs.
	ResearchScore float64 `json:"research_score" yaml:"research_score"`

	// SearchVolume is the estimated monthly search volume, set by the
	// enrichment stage when available.
	SearchVolume *int `json:"search_volume,omitempty" yaml:"search_volume,omitempty"`

	// Difficulty is the 0-100 SEO difficulty estimate, set by the
	// enrichment stage when available.
	Difficulty *int `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`

	// Keywords holds up to 10 lowercase tokens derived from the title.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// ExternalID is the source's identifier for the item (ASIN, product ID).
	ExternalID string `json:"external_id" yaml:"external_id"`

	// SourceName identifies which adapter produced this record.
	SourceName string `json:"source_name" yaml:"source_name"`

	// Tags holds the lowercased category and niche.
	Tags []string `json:"tags" yaml:"tags"`
}

// PriceRange is an inclusive [Min, Max] price filter.
type PriceRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Default query parameter values applied by Normalize.
const (
	DefaultMinCommissionRate = 3.0
	DefaultMinTrendingScore  = 50.0
	DefaultMaxResults        = 50
	MaxResultsCap            = 50
	DefaultPriceRangeMax     = 10000
)

// ResearchQuery holds the parameters for one product research run.
type ResearchQuery struct {
	// Niche is the topical product category being researched (required).
	Niche string `json:"niche" yaml:"niche"`

	// ProductCategory narrows the search to a specific category (optional).
	ProductCategory string `json:"product_category,omitempty" yaml:"product_category,omitempty"`

	// MinCommissionRate rejects products below this commission percent.
	MinCommissionRate float64 `json:"min_commission_rate" yaml:"min_commission_rate"`

	// MinTrendingScore rejects products below this trending score.
	MinTrendingScore float64 `json:"min_trending_score" yaml:"min_trending_score"`

	// MaxResults caps the number of products returned (hard cap 50).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// TargetKeywords are additional search terms, in priority order.
	TargetKeywords []string `json:"target_keywords,omitempty" yaml:"target_keywords,omitempty"`

	// PriceRange is the inclusive price filter.
	PriceRange PriceRange `json:"price_range" yaml:"price_range"`
}

// Normalize fills zero-valued parameters with their defaults and enforces
// the hard result cap.
func (q *ResearchQuery) Normalize() {
	if q.MinCommissionRate <= 0 {
		q.MinCommissionRate = DefaultMinCommissionRate
	}
	if q.MinTrendingScore <= 0 {
		q.MinTrendingScore = DefaultMinTrendingScore
	}
	if q.MaxResults <= 0 {
		q.MaxResults = DefaultMaxResults
	}
	if q.MaxResults > MaxResultsCap {
		q.MaxResults = MaxResultsCap
	}
	if q.PriceRange.Min == 0 && q.PriceRange.Max == 0 {
		q.PriceRange.Max = DefaultPriceRangeMax
	}
}

// Validate reports whether the query is usable.
func (q ResearchQuery) Validate() error {
	if strings.TrimSpace(q.Niche) == "" {
		return fmt.Errorf("niche is required")
	}
	if q.PriceRange.Min > q.PriceRange.Max {
		return fmt.Errorf("invalid price range: min %.2f exceeds max %.2f",
			q.PriceRange.Min, q.PriceRange.Max)
	}
	return nil
}

// NicheContext aggregates the fetched product set into the averages the
// scoring engine normalizes against. It is computed once per invocation,
// over all pre-truncation products, and never mutated afterward.
type NicheContext struct {
	AvgPrice        float64    `json:"avg_price" yaml:"avg_price"`
	AvgCommission   float64    `json:"avg_commission" yaml:"avg_commission"`
	AvgSearchVolume float64    `json:"avg_search_volume" yaml:"avg_search_volume"`
	PriceRange      PriceRange `json:"price_range" yaml:"price_range"`
	TotalProducts   int        `json:"total_products" yaml:"total_products"`
	Niche           string     `json:"niche" yaml:"niche"`
	Category        string     `json:"category,omitempty" yaml:"category,omitempty"`
}

// SessionData holds the summary statistics for one research run.
type SessionData struct {
	// SessionID uniquely identifies this run.
	SessionID string `json:"session_id" yaml:"session_id"`

	// TotalProductsFound is the pre-truncation product count.
	TotalProductsFound int `json:"total_products_found" yaml:"total_products_found"`

	// ProductsReturned is the post-truncation product count.
	ProductsReturned int `json:"products_returned" yaml:"products_returned"`

	// AverageScore is the mean research score of the returned products.
	AverageScore float64 `json:"average_score" yaml:"average_score"`

	// TopProduct is the highest-scored product, when any were returned.
	TopProduct *Product `json:"top_product,omitempty" yaml:"top_product,omitempty"`

	// APICallsMade approximates external request usage: one per adapter
	// fetch call plus one per enriched product.
	APICallsMade int `json:"api_calls_made" yaml:"api_calls_made"`

	// APISources lists the sources actually consulted, in order, once each.
	APISources []string `json:"api_sources" yaml:"api_sources"`

	// ResearchDurationMS is wall-clock elapsed time for the run.
	ResearchDurationMS int64 `json:"research_duration_ms" yaml:"research_duration_ms"`

	// NicheInsights is the aggregate context the scoring engine used.
	NicheInsights NicheContext `json:"niche_insights" yaml:"niche_insights"`
}

// ResultEnvelope is the orchestrator's output: the ranked products plus
// session statistics, or an error with zeroed statistics.
type ResultEnvelope struct {
	Products    []Product   `json:"products" yaml:"products"`
	SessionData SessionData `json:"session_data" yaml:"session_data"`
	Error       string      `json:"error,omitempty" yaml:"error,omitempty"`
}
