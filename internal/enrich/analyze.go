// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import "strings"

// authorityDomains raise SERP difficulty when they hold top positions.
var authorityDomains = []string{"amazon.com", "wikipedia.org", "reddit.com"}

// commercialTerms signal commercial intent in a result title.
var commercialTerms = []string{"buy", "best", "top", "review", "price"}

// affiliateDomains are affiliate-heavy storefronts whose presence in the
// top results signals contested keywords.
var affiliateDomains = []string{"amazon.com", "bestbuy.com", "walmart.com", "target.com"}

// reviewIndicators mark review/comparison content in a result title.
var reviewIndicators = []string{"review", "best", "top", "comparison", "vs"}

const (
	searchVolumeCap = 50000
	baseDifficulty  = 30
	maxDifficulty   = 100

	// competitionSignalCap bounds how much one refinement pass can add to
	// a product's competition score.
	competitionSignalCap = 50.0
)

// estimateVolume derives a monthly search-volume estimate from the raw
// total-results count: one thousandth of it, capped at 50000.
func estimateVolume(totalResults int64) int {
	v := totalResults / 1000
	if v > searchVolumeCap {
		v = searchVolumeCap
	}
	return int(v)
}

// serpDifficulty scores how hard a keyword is to rank for, from the top 10
// organic results: base 30, plus (10 - position) for each result hosted on
// an authority domain (position 0-based, so the #1 slot adds 10), plus 5
// for each title carrying a commercial-intent term. Capped at 100.
func serpDifficulty(organic []OrganicResult) int {
	difficulty := baseDifficulty

	top := organic
	if len(top) > 10 {
		top = top[:10]
	}
	for i, r := range top {
		title := strings.ToLower(r.Title)
		link := strings.ToLower(r.Link)

		for _, domain := range authorityDomains {
			if strings.Contains(link, domain) {
				difficulty += 10 - i
				break
			}
		}
		for _, term := range commercialTerms {
			if strings.Contains(title, term) {
				difficulty += 5
				break
			}
		}
	}

	if difficulty > maxDifficulty {
		difficulty = maxDifficulty
	}
	return difficulty
}

// competitionSignal scans the top 10 organic results of a "<keywords>
// review" query: 5 points per result on an affiliate-heavy domain, 3 per
// title with a review/comparison term, capped at 50.
func competitionSignal(organic []OrganicResult) float64 {
	signal := 0.0

	top := organic
	if len(top) > 10 {
		top = top[:10]
	}
	for _, r := range top {
		title := strings.ToLower(r.Title)
		link := strings.ToLower(r.Link)

		for _, domain := range affiliateDomains {
			if strings.Contains(link, domain) {
				signal += 5
				break
			}
		}
		for _, term := range reviewIndicators {
			if strings.Contains(title, term) {
				signal += 3
				break
			}
		}
	}

	if signal > competitionSignalCap {
		signal = competitionSignalCap
	}
	return signal
}
