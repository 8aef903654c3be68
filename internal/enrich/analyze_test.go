// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import "testing"

func TestEstimateVolume(t *testing.T) {
	tests := []struct {
		name         string
		totalResults int64
		want         int
	}{
		{"typical result count", 2_500_000, 2500},
		{"capped at 50000", 100_000_000, 50000},
		{"small result count", 999, 0},
		{"zero results", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := estimateVolume(tt.totalResults)
			if got != tt.want {
				t.Errorf("estimateVolume(%d) = %d, want %d", tt.totalResults, got, tt.want)
			}
		})
	}
}

func TestSerpDifficulty(t *testing.T) {
	tests := []struct {
		name    string
		organic []OrganicResult
		want    int
	}{
		{"no results baseline", nil, 30},
		{
			"authority domain at top position",
			[]OrganicResult{{Title: "Earbuds", Link: "https://www.amazon.com/dp/B01"}},
			40, // base 30 + (10 - 0)
		},
		{
			"authority domain at lower position",
			[]OrganicResult{
				{Title: "Earbuds", Link: "https://example.com/a"},
				{Title: "Earbuds", Link: "https://example.com/b"},
				{Title: "Earbuds", Link: "https://en.wikipedia.org/wiki/Earbuds"},
			},
			38, // base 30 + (10 - 2)
		},
		{
			"commercial term in title",
			[]OrganicResult{{Title: "Best Earbuds 2024", Link: "https://example.com"}},
			35, // base 30 + 5
		},
		{
			"authority and commercial combined",
			[]OrganicResult{{Title: "Buy Earbuds", Link: "https://www.amazon.com/s"}},
			45, // base 30 + 10 + 5
		},
		{
			"commercial term counted once per result",
			[]OrganicResult{{Title: "Best Top Review Price", Link: "https://example.com"}},
			35,
		},
		{
			"capped at 100",
			[]OrganicResult{
				{Title: "Best", Link: "https://amazon.com/1"},
				{Title: "Best", Link: "https://amazon.com/2"},
				{Title: "Best", Link: "https://amazon.com/3"},
				{Title: "Best", Link: "https://amazon.com/4"},
				{Title: "Best", Link: "https://amazon.com/5"},
				{Title: "Best", Link: "https://amazon.com/6"},
				{Title: "Best", Link: "https://amazon.com/7"},
				{Title: "Best", Link: "https://amazon.com/8"},
				{Title: "Best", Link: "https://amazon.com/9"},
				{Title: "Best", Link: "https://amazon.com/10"},
			},
			100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serpDifficulty(tt.organic)
			if got != tt.want {
				t.Errorf("serpDifficulty() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSerpDifficultyIgnoresPastTopTen(t *testing.T) {
	organic := make([]OrganicResult, 15)
	for i := range organic {
		organic[i] = OrganicResult{Title: "plain", Link: "https://example.com"}
	}
	// An authority hit at position 12 is outside the scored window.
	organic[12].Link = "https://www.amazon.com/dp/B01"

	if got := serpDifficulty(organic); got != 30 {
		t.Errorf("serpDifficulty() = %d, want 30 (position 12 outside window)", got)
	}
}

func TestCompetitionSignal(t *testing.T) {
	tests := []struct {
		name    string
		organic []OrganicResult
		want    float64
	}{
		{"no results", nil, 0},
		{
			"affiliate domain",
			[]OrganicResult{{Title: "Earbuds", Link: "https://www.bestbuy.com/p/1"}},
			5,
		},
		{
			"review indicator in title",
			[]OrganicResult{{Title: "Earbuds Comparison Guide", Link: "https://example.com"}},
			3,
		},
		{
			"both signals on one result",
			[]OrganicResult{{Title: "Earbuds Review", Link: "https://www.amazon.com/s"}},
			8,
		},
		{
			"capped at 50",
			[]OrganicResult{
				{Title: "Best Review", Link: "https://amazon.com/1"},
				{Title: "Best Review", Link: "https://walmart.com/2"},
				{Title: "Best Review", Link: "https://target.com/3"},
				{Title: "Best Review", Link: "https://bestbuy.com/4"},
				{Title: "Best Review", Link: "https://amazon.com/5"},
				{Title: "Best Review", Link: "https://walmart.com/6"},
				{Title: "Best Review", Link: "https://target.com/7"},
			},
			50, // 7 * 8 = 56, capped
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := competitionSignal(tt.organic)
			if got != tt.want {
				t.Errorf("competitionSignal() = %v, want %v", got, tt.want)
			}
		})
	}
}
