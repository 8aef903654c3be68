// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pdiddy/affiliate-research/pkg/types"
)

// --- Keyword building ---

func TestBuildMarketplaceKeywords(t *testing.T) {
	tests := []struct {
		name  string
		query types.ResearchQuery
		want  string
	}{
		{
			name:  "niche only",
			query: types.ResearchQuery{Niche: "tech"},
			want:  "tech",
		},
		{
			name:  "niche and category",
			query: types.ResearchQuery{Niche: "tech", ProductCategory: "electronics"},
			want:  "tech electronics",
		},
		{
			name: "keywords capped at three",
			query: types.ResearchQuery{
				Niche:          "tech",
				TargetKeywords: []string{"a", "b", "c", "d", "e"},
			},
			want: "tech a b c",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildMarketplaceKeywords(tt.query)
			if got != tt.want {
				t.Errorf("buildMarketplaceKeywords() = %q, want %q", got, tt.want)
			}
		})
	}
}

// --- Mock marketplace server ---

const sampleMarketplaceJSON = `{
  "SearchResult": {
    "Items": [
      {
        "ASIN": "B08PBJP8B2",
        "ItemInfo": {
          "Title": {"DisplayValue": "Wireless Bluetooth Earbuds"},
          "Features": {"DisplayValues": ["Active noise cancellation", "30 hour battery", "Bluetooth 5.3", "Charging case included"]},
          "ByLineInfo": {"Brand": {"DisplayValue": "Soundly"}},
          "Classifications": {"Binding": {"DisplayValue": "Electronics"}}
        },
        "Offers": {
          "Listings": [
            {"Price": {"Amount": 7999}, "SavingBasis": {"Amount": 9999}}
          ]
        },
        "CustomerReviews": {"StarRating": {"Value": 4.5}, "Count": 1500},
        "BrowseNodeInfo": {"BrowseNodes": [{"DisplayName": "Electronics", "SalesRank": 123}]},
        "Images": {"Primary": {"Large": {"URL": "https://images.example.com/earbuds.jpg"}}}
      }
    ]
  }
}`

func marketplaceTestServer(statusCode int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprint(w, body)
	}))
}

func testMarketplaceSource(client *http.Client) *MarketplaceSource {
	return &MarketplaceSource{
		Client: client,
		Config: types.MarketplaceConfig{
			AccessKey:  "ak",
			SecretKey:  "sk",
			PartnerTag: "mytag-20",
		},
		Log: zerolog.Nop(),
	}
}

// --- Search ---

func TestMarketplaceSourceSearch(t *testing.T) {
	ts := marketplaceTestServer(http.StatusOK, sampleMarketplaceJSON)
	defer ts.Close()

	old := marketplaceAPIBase
	marketplaceAPIBase = ts.URL
	defer func() { marketplaceAPIBase = old }()

	s := testMarketplaceSource(ts.Client())
	result, err := s.Search(context.Background(), testQuery("tech"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Calls != 1 {
		t.Errorf("Calls = %d, want 1", result.Calls)
	}
	if len(result.Products) != 1 {
		t.Fatalf("len(Products) = %d, want 1", len(result.Products))
	}

	p := result.Products[0]
	if p.Title != "Wireless Bluetooth Earbuds" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.ExternalID != "B08PBJP8B2" {
		t.Errorf("ExternalID = %q, want B08PBJP8B2", p.ExternalID)
	}
	if p.SourceName != "amazon" {
		t.Errorf("SourceName = %q, want amazon", p.SourceName)
	}
	// Price arrives as integer cents.
	if p.Price != 79.99 {
		t.Errorf("Price = %v, want 79.99", p.Price)
	}
	if p.OriginalPrice == nil || *p.OriginalPrice != 99.99 {
		t.Errorf("OriginalPrice = %v, want 99.99", p.OriginalPrice)
	}
	if p.Brand != "Soundly" {
		t.Errorf("Brand = %q, want Soundly", p.Brand)
	}
	if p.Category != "Electronics" {
		t.Errorf("Category = %q, want Electronics", p.Category)
	}
	if p.CommissionRate != 3.0 {
		t.Errorf("CommissionRate = %v, want 3.0", p.CommissionRate)
	}
	if p.CommissionAmount != 2.4 {
		t.Errorf("CommissionAmount = %v, want 2.4", p.CommissionAmount)
	}
	if p.Rating == nil || *p.Rating != 4.5 {
		t.Errorf("Rating = %v, want 4.5", p.Rating)
	}
	if p.ReviewCount == nil || *p.ReviewCount != 1500 {
		t.Errorf("ReviewCount = %v, want 1500", p.ReviewCount)
	}
	if p.SalesRank == nil || *p.SalesRank != 123 {
		t.Errorf("SalesRank = %v, want 123", p.SalesRank)
	}
	// Rating 4.5 (+15), reviews over 1000 (+20), discounted (+10).
	if p.TrendingScore != 95 {
		t.Errorf("TrendingScore = %v, want 95", p.TrendingScore)
	}
	// Reviews over 1000 (+20), single listing.
	if p.CompetitionScore != 70 {
		t.Errorf("CompetitionScore = %v, want 70", p.CompetitionScore)
	}
	if p.ProductURL != "https://amazon.com/dp/B08PBJP8B2" {
		t.Errorf("ProductURL = %q", p.ProductURL)
	}
	if p.AffiliateURL != "https://amazon.com/dp/B08PBJP8B2?tag=mytag-20" {
		t.Errorf("AffiliateURL = %q", p.AffiliateURL)
	}
	if p.ImageURL != "https://images.example.com/earbuds.jpg" {
		t.Errorf("ImageURL = %q", p.ImageURL)
	}
	// Description takes the first three feature bullets.
	wantDesc := "Active noise cancellation 30 hour battery Bluetooth 5.3"
	if p.Description != wantDesc {
		t.Errorf("Description = %q, want %q", p.Description, wantDesc)
	}
	if len(p.Keywords) != 3 || p.Keywords[0] != "wireless" {
		t.Errorf("Keywords = %v", p.Keywords)
	}
}

func TestMarketplaceSourceSkipsBadItems(t *testing.T) {
	// One good item, one non-object entry, one without an ASIN, one without
	// a title. The bad three become diagnostics; the batch still succeeds.
	var resp struct {
		SearchResult struct {
			Items []json.RawMessage `json:"Items"`
		} `json:"SearchResult"`
	}
	var good marketplaceSearchResponse
	if err := json.Unmarshal([]byte(sampleMarketplaceJSON), &good); err != nil {
		t.Fatal(err)
	}
	resp.SearchResult.Items = append(resp.SearchResult.Items, good.SearchResult.Items[0])
	resp.SearchResult.Items = append(resp.SearchResult.Items, json.RawMessage(`[1,2,3]`))
	resp.SearchResult.Items = append(resp.SearchResult.Items, json.RawMessage(`{"ItemInfo":{"Title":{"DisplayValue":"No Identifier"}}}`))
	resp.SearchResult.Items = append(resp.SearchResult.Items, json.RawMessage(`{"ASIN":"B000000000"}`))
	body, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}

	ts := marketplaceTestServer(http.StatusOK, string(body))
	defer ts.Close()

	old := marketplaceAPIBase
	marketplaceAPIBase = ts.URL
	defer func() { marketplaceAPIBase = old }()

	s := testMarketplaceSource(ts.Client())
	result, err := s.Search(context.Background(), testQuery("tech"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Products) != 1 {
		t.Errorf("len(Products) = %d, want 1", len(result.Products))
	}
	if len(result.Skipped) != 3 {
		t.Fatalf("len(Skipped) = %d, want 3", len(result.Skipped))
	}
	if result.Skipped[0].ItemRef != "item[1]" {
		t.Errorf("Skipped[0].ItemRef = %q, want item[1]", result.Skipped[0].ItemRef)
	}
	if !strings.Contains(result.Skipped[1].Reason, "ASIN") {
		t.Errorf("Skipped[1].Reason = %q, should mention ASIN", result.Skipped[1].Reason)
	}
	if !strings.Contains(result.Skipped[2].Reason, "title") {
		t.Errorf("Skipped[2].Reason = %q, should mention title", result.Skipped[2].Reason)
	}
}

func TestMarketplaceSourceCriteriaFilter(t *testing.T) {
	ts := marketplaceTestServer(http.StatusOK, sampleMarketplaceJSON)
	defer ts.Close()

	old := marketplaceAPIBase
	marketplaceAPIBase = ts.URL
	defer func() { marketplaceAPIBase = old }()

	s := testMarketplaceSource(ts.Client())
	query := testQuery("tech")
	query.MinTrendingScore = 96 // fixture item scores 95

	result, err := s.Search(context.Background(), query)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Products) != 0 {
		t.Errorf("len(Products) = %d, want 0 (filtered)", len(result.Products))
	}
	if len(result.Skipped) != 0 {
		t.Errorf("len(Skipped) = %d, want 0 (filtered is not skipped)", len(result.Skipped))
	}
}

func TestMarketplaceSourceHTTPError(t *testing.T) {
	ts := marketplaceTestServer(http.StatusInternalServerError, "")
	defer ts.Close()

	old := marketplaceAPIBase
	marketplaceAPIBase = ts.URL
	defer func() { marketplaceAPIBase = old }()

	s := testMarketplaceSource(ts.Client())
	result, err := s.Search(context.Background(), testQuery("tech"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "HTTP 500") {
		t.Errorf("error = %q, should mention HTTP 500", err.Error())
	}
	// The failed request still counts against the call budget.
	if result.Calls != 1 {
		t.Errorf("Calls = %d, want 1", result.Calls)
	}
}

func TestMarketplaceSourceRequestShape(t *testing.T) {
	var gotAccessKey, gotContentType string
	var gotBody marketplaceSearchRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccessKey = r.Header.Get("X-Access-Key")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"SearchResult":{"Items":[]}}`)
	}))
	defer ts.Close()

	old := marketplaceAPIBase
	marketplaceAPIBase = ts.URL
	defer func() { marketplaceAPIBase = old }()

	s := testMarketplaceSource(ts.Client())
	query := testQuery("tech")
	query.MaxResults = 10
	if _, err := s.Search(context.Background(), query); err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotAccessKey != "ak" {
		t.Errorf("X-Access-Key = %q, want ak", gotAccessKey)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotBody.Keywords != "tech" {
		t.Errorf("Keywords = %q, want tech", gotBody.Keywords)
	}
	if gotBody.ItemCount != 10 {
		t.Errorf("ItemCount = %d, want 10", gotBody.ItemCount)
	}
	if gotBody.PartnerTag != "mytag-20" {
		t.Errorf("PartnerTag = %q, want mytag-20", gotBody.PartnerTag)
	}
	if len(gotBody.Resources) == 0 {
		t.Error("Resources should not be empty")
	}
}

// --- Availability ---

func TestMarketplaceSourceAvailable(t *testing.T) {
	tests := []struct {
		name   string
		config types.MarketplaceConfig
		want   bool
	}{
		{"all credentials", types.MarketplaceConfig{AccessKey: "a", SecretKey: "s", PartnerTag: "t"}, true},
		{"missing access key", types.MarketplaceConfig{SecretKey: "s", PartnerTag: "t"}, false},
		{"missing secret key", types.MarketplaceConfig{AccessKey: "a", PartnerTag: "t"}, false},
		{"missing partner tag", types.MarketplaceConfig{AccessKey: "a", SecretKey: "s"}, false},
		{"no credentials", types.MarketplaceConfig{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &MarketplaceSource{Config: tt.config}
			if got := s.Available(); got != tt.want {
				t.Errorf("Available() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMarketplaceSourceName(t *testing.T) {
	s := &MarketplaceSource{}
	if s.Name() != "amazon" {
		t.Errorf("Name() = %q, want amazon", s.Name())
	}
}
