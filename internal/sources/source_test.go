// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"reflect"
	"testing"

	"github.com/pdiddy/affiliate-research/pkg/types"
)

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"$1,299.99", 1299.99},
		{"$49.99", 49.99},
		{"USD 45", 45},
		{"1299", 1299},
		{"", 0},
		{"N/A", 0},
		{".", 0},
		{"$.99", 0.99},
		{"1.2.3", 1.23}, // second dot dropped
		{"price: 19.99 (was 29.99)", 19.992999}, // digits concatenate; garbage in, number out
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := cleanPrice(tt.input)
			if got != tt.want {
				t.Errorf("cleanPrice(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTitleKeywords(t *testing.T) {
	got := titleKeywords("Wireless Bluetooth Earbuds Pro")
	want := []string{"wireless", "bluetooth", "earbuds", "pro"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("titleKeywords() = %v, want %v", got, want)
	}

	long := "One Two Three Four Five Six Seven Eight Nine Ten Eleven Twelve"
	got = titleKeywords(long)
	if len(got) != 10 {
		t.Errorf("len(keywords) = %d, want 10", len(got))
	}
	if got[9] != "ten" {
		t.Errorf("keywords[9] = %q, want %q", got[9], "ten")
	}

	if got := titleKeywords(""); len(got) != 0 {
		t.Errorf("titleKeywords(\"\") = %v, want empty", got)
	}
}

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		source string
		query  string
		want   string
	}{
		{"Electronics", "Kitchen", "Electronics"},
		{"", "Kitchen", "Kitchen"},
		{"", "", "General"},
	}
	for _, tt := range tests {
		got := resolveCategory(tt.source, tt.query)
		if got != tt.want {
			t.Errorf("resolveCategory(%q, %q) = %q, want %q", tt.source, tt.query, got, tt.want)
		}
	}
}

func TestProductTags(t *testing.T) {
	got := productTags("Electronics", "Tech")
	want := []string{"electronics", "tech"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("productTags() = %v, want %v", got, want)
	}
}

func TestCommissionAmount(t *testing.T) {
	tests := []struct {
		price float64
		rate  float64
		want  float64
	}{
		{100, 3.0, 3.0},
		{79.99, 4.0, 3.2},   // 319.96 rounds to 320 cents
		{33.33, 3.0, 1.0},   // 99.99 rounds to 100 cents
		{0, 10.0, 0},
	}
	for _, tt := range tests {
		got := commissionAmount(tt.price, tt.rate)
		if got != tt.want {
			t.Errorf("commissionAmount(%v, %v) = %v, want %v", tt.price, tt.rate, got, tt.want)
		}
	}
}

func TestMeetsCriteria(t *testing.T) {
	query := types.ResearchQuery{
		MinCommissionRate: 3.0,
		MinTrendingScore:  50.0,
		PriceRange:        types.PriceRange{Min: 10, Max: 500},
	}

	base := types.Product{
		CommissionRate: 4.0,
		TrendingScore:  60.0,
		Price:          99.99,
	}

	tests := []struct {
		name   string
		mutate func(p *types.Product)
		want   bool
	}{
		{"passes all", func(p *types.Product) {}, true},
		{"commission below minimum", func(p *types.Product) { p.CommissionRate = 2.9 }, false},
		{"commission at minimum", func(p *types.Product) { p.CommissionRate = 3.0 }, true},
		{"trending below minimum", func(p *types.Product) { p.TrendingScore = 49.9 }, false},
		{"trending at minimum", func(p *types.Product) { p.TrendingScore = 50.0 }, true},
		{"price below range", func(p *types.Product) { p.Price = 9.99 }, false},
		{"price at range min", func(p *types.Product) { p.Price = 10 }, true},
		{"price at range max", func(p *types.Product) { p.Price = 500 }, true},
		{"price above range", func(p *types.Product) { p.Price = 500.01 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			if got := meetsCriteria(p, query); got != tt.want {
				t.Errorf("meetsCriteria() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClampScore(t *testing.T) {
	if got := clampScore(-5); got != 0 {
		t.Errorf("clampScore(-5) = %v, want 0", got)
	}
	if got := clampScore(150); got != 100 {
		t.Errorf("clampScore(150) = %v, want 100", got)
	}
	if got := clampScore(42.5); got != 42.5 {
		t.Errorf("clampScore(42.5) = %v, want 42.5", got)
	}
}

// testQuery returns a normalized query that accepts typical fixture products.
func testQuery(niche string) types.ResearchQuery {
	q := types.ResearchQuery{Niche: niche}
	q.Normalize()
	return q
}
