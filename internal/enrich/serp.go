// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich augments already-fetched products with search-volume,
// difficulty, and competition signals derived from web-search results. The
// per-product loop is strictly sequential with a paced inter-call delay as
// a rate-limit courtesy to the external API.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/affiliate-research/internal/httputil"
	"github.com/pdiddy/affiliate-research/pkg/types"
)

// serpAPIBase is the web-search endpoint. Declared as a var so tests can
// substitute an httptest server.
var serpAPIBase = "https://serpapi.com/search"

// SERPClient issues one web-search query and returns organic results plus
// result-count metadata.
type SERPClient interface {
	Search(ctx context.Context, query string, count int) (*SERPPage, error)
}

// SERPPage is the slice of a results page the analyzers consume.
type SERPPage struct {
	TotalResults int64
	Organic      []OrganicResult
}

// OrganicResult is one organic search hit.
type OrganicResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
}

// HTTPSERPClient queries the web-search API over HTTP.
type HTTPSERPClient struct {
	Client *http.Client
	Config types.EnrichmentConfig
}

// Search runs one google-engine query.
func (c *HTTPSERPClient) Search(ctx context.Context, query string, count int) (*SERPPage, error) {
	region := c.Config.Region
	if region == "" {
		region = "us"
	}

	params := url.Values{
		"engine":  {"google"},
		"q":       {query},
		"gl":      {region},
		"hl":      {"en"},
		"api_key": {c.Config.APIKey},
	}
	if count > 0 {
		params.Set("num", fmt.Sprintf("%d", count))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serpAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("search API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned HTTP %d", resp.StatusCode)
	}

	var sr serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	return &SERPPage{
		TotalResults: sr.SearchInformation.TotalResults,
		Organic:      sr.OrganicResults,
	}, nil
}

// Web-search API JSON structures.
type serpResponse struct {
	SearchInformation struct {
		TotalResults int64 `json:"total_results"`
	} `json:"search_information"`
	OrganicResults []OrganicResult `json:"organic_results"`
}
