// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/affiliate-research/pkg/types"
)

func TestSampleSourceDeterministic(t *testing.T) {
	s := &SampleSource{Config: types.SampleConfig{Enabled: true, Seed: 42}}
	query := testQuery("fitness")

	first, err := s.Search(context.Background(), query)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	second, err := s.Search(context.Background(), query)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(first.Products) == 0 {
		t.Fatal("expected generated products")
	}
	if !reflect.DeepEqual(first.Products, second.Products) {
		t.Error("same seed should generate identical products")
	}
}

func TestSampleSourceGeneratesForNiche(t *testing.T) {
	s := &SampleSource{Config: types.SampleConfig{Enabled: true, Seed: 1}}
	result, err := s.Search(context.Background(), testQuery("pets"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Calls != 1 {
		t.Errorf("Calls = %d, want 1", result.Calls)
	}
	if len(result.Products) == 0 {
		t.Fatal("expected generated products")
	}

	for _, p := range result.Products {
		if p.SourceName != "test_data" {
			t.Errorf("SourceName = %q, want test_data", p.SourceName)
		}
		if p.Niche != "pets" {
			t.Errorf("Niche = %q, want pets", p.Niche)
		}
		if p.Price <= 0 {
			t.Errorf("Price = %v, want positive", p.Price)
		}
		if p.Rating == nil || *p.Rating < 3.5 || *p.Rating > 5.0 {
			t.Errorf("Rating = %v, want in [3.5, 5.0]", p.Rating)
		}
		if p.ReviewCount == nil || *p.ReviewCount < 50 || *p.ReviewCount >= 5000 {
			t.Errorf("ReviewCount = %v, want in [50, 5000)", p.ReviewCount)
		}
		if !strings.HasPrefix(p.ExternalID, "SAMPLE-") {
			t.Errorf("ExternalID = %q, want SAMPLE- prefix", p.ExternalID)
		}
		if p.OriginalPrice != nil && *p.OriginalPrice < p.Price {
			t.Errorf("OriginalPrice %v below Price %v", *p.OriginalPrice, p.Price)
		}
	}
}

func TestSampleSourceUnknownNicheFallsBack(t *testing.T) {
	s := &SampleSource{Config: types.SampleConfig{Enabled: true, Seed: 7}}
	result, err := s.Search(context.Background(), testQuery("quantum gardening"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// Unknown niches generate from the tech template set.
	if len(result.Products) == 0 {
		t.Fatal("expected fallback template products")
	}
}

func TestSampleSourceHonorsCriteria(t *testing.T) {
	s := &SampleSource{Config: types.SampleConfig{Enabled: true, Seed: 3}}
	query := testQuery("home")
	query.MinTrendingScore = 101 // impossible threshold

	result, err := s.Search(context.Background(), query)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Products) != 0 {
		t.Errorf("len(Products) = %d, want 0 with impossible threshold", len(result.Products))
	}
}

func TestSampleSourceHonorsPriceRange(t *testing.T) {
	s := &SampleSource{Config: types.SampleConfig{Enabled: true, Seed: 9}}
	query := testQuery("tech")
	query.PriceRange = types.PriceRange{Min: 10, Max: 60}

	result, err := s.Search(context.Background(), query)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, p := range result.Products {
		if p.Price < 10 || p.Price > 60 {
			t.Errorf("Price = %v, outside [10, 60]", p.Price)
		}
	}
}

func TestSampleSourceAvailable(t *testing.T) {
	s := &SampleSource{Config: types.SampleConfig{Enabled: true}}
	if !s.Available() {
		t.Error("Available() = false when enabled")
	}
	s = &SampleSource{}
	if s.Available() {
		t.Error("Available() = true when disabled")
	}
}

func TestSampleSourceName(t *testing.T) {
	s := &SampleSource{}
	if s.Name() != "test_data" {
		t.Errorf("Name() = %q, want test_data", s.Name())
	}
}
