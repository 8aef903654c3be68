// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scoring computes the 0-100 composite research score for a product
// against its niche context, and derives that context from the fetched
// product set.
package scoring

import (
	"math"
	"strings"

	"github.com/pdiddy/affiliate-research/pkg/types"
)

// Component weights for the composite score. They sum to 1.00.
const (
	weightCommission  = 0.25
	weightTrending    = 0.20
	weightCompetition = 0.15
	weightRating      = 0.15
	weightVolume      = 0.10
	weightPrice       = 0.10
	weightReview      = 0.05
)

// techBonus multiplies the weighted sum for conversion-friendly niches.
const techBonus = 1.1

// techNiches are the niches that earn the bonus, matched case-insensitively.
var techNiches = map[string]bool{
	"tech":        true,
	"electronics": true,
	"software":    true,
}

// Defaults substituted for absent product signals.
const (
	defaultRating       = 3.0
	defaultSearchVolume = 1000
)

// Engine is the scoring engine. It is stateless; the zero value is ready
// to use.
type Engine struct{}

// Score returns the composite research score for p in [0, 100]. Every
// sub-score is independently clamped to [0, 100] before weighting, so
// out-of-range raw inputs (a 7-star rating, a negative review count) cannot
// push the composite outside its bounds.
func (Engine) Score(p types.Product, niche types.NicheContext) float64 {
	s := subscores(p, niche)

	total := s.commission*weightCommission +
		s.trending*weightTrending +
		s.competition*weightCompetition +
		s.rating*weightRating +
		s.volume*weightVolume +
		s.price*weightPrice +
		s.review*weightReview

	if techNiches[strings.ToLower(p.Niche)] {
		total *= techBonus
	}

	return math.Min(total, 100)
}

// componentScores holds the seven clamped sub-scores.
type componentScores struct {
	commission  float64
	trending    float64
	competition float64
	rating      float64
	volume      float64
	price       float64
	review      float64
}

func subscores(p types.Product, niche types.NicheContext) componentScores {
	var s componentScores

	// 10% commission maxes the component.
	s.commission = clamp(p.CommissionRate * 10)

	s.trending = clamp(p.TrendingScore)

	// Inverted: lower competition is better.
	s.competition = clamp(100 - p.CompetitionScore)

	rating := defaultRating
	if p.Rating != nil {
		rating = *p.Rating
	}
	s.rating = clamp(rating / 5.0 * 100)

	volume := float64(defaultSearchVolume)
	if p.SearchVolume != nil {
		volume = float64(*p.SearchVolume)
	}
	avgVolume := niche.AvgSearchVolume
	if avgVolume <= 0 {
		avgVolume = defaultSearchVolume
	}
	s.volume = clamp(volume / avgVolume * 50)

	s.price = priceScore(p.Price)

	reviews := 0
	if p.ReviewCount != nil && *p.ReviewCount > 0 {
		reviews = *p.ReviewCount
	}
	s.review = clamp(float64(reviews) / 100)

	return s
}

// priceScore rates how well a price fits affiliate conversion bands: the
// 20-200 sweet spot scores 100, the wider 10-500 band 80, anything at or
// under 10 scores 30, and above 500 the score decays from 60 toward a
// floor of 20.
func priceScore(price float64) float64 {
	switch {
	case price >= 20 && price <= 200:
		return 100
	case price >= 10 && price <= 500:
		return 80
	case price <= 10:
		return 30
	default:
		return math.Max(60-(price-500)/100, 20)
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Round2 rounds a score to two decimals for presentation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
