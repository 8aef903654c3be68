// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/pdiddy/affiliate-research/internal/httputil"
	"github.com/pdiddy/affiliate-research/pkg/types"
)

// shoppingAPIBase is the shopping-results search endpoint. Declared as a
// var so tests can substitute an httptest server.
var shoppingAPIBase = "https://serpapi.com/search"

// ShoppingSource queries a web-search API's shopping-results engine.
type ShoppingSource struct {
	Client *http.Client
	Config types.ShoppingConfig
	Log    zerolog.Logger
}

// Name returns the source identifier.
func (s *ShoppingSource) Name() string { return "shopping" }

// Available reports whether the search API key is configured.
func (s *ShoppingSource) Available() bool { return s.Config.APIKey != "" }

// Search runs one shopping-results query and normalizes the listings.
func (s *ShoppingSource) Search(ctx context.Context, query types.ResearchQuery) (Result, error) {
	q := query.Niche
	if query.ProductCategory != "" {
		q += " " + query.ProductCategory
	}

	limit := query.MaxResults
	if limit <= 0 || limit > types.MaxResultsCap {
		limit = types.MaxResultsCap
	}

	region := s.Config.Region
	if region == "" {
		region = "us"
	}

	params := url.Values{
		"engine":  {"google_shopping"},
		"q":       {q},
		"gl":      {region},
		"hl":      {"en"},
		"num":     {fmt.Sprintf("%d", limit)},
		"api_key": {s.Config.APIKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, shoppingAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return Result{Calls: 1}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return Result{Calls: 1}, fmt.Errorf("shopping API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Calls: 1}, fmt.Errorf("shopping API returned HTTP %d", resp.StatusCode)
	}

	var sr shoppingResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return Result{Calls: 1}, fmt.Errorf("parsing shopping response: %w", err)
	}

	result := Result{Calls: 1}
	for i, rawItem := range sr.ShoppingResults {
		var item shoppingResult
		if err := json.Unmarshal(rawItem, &item); err != nil {
			result.Skipped = append(result.Skipped, Diagnostic{
				ItemRef: fmt.Sprintf("shopping_results[%d]", i),
				Reason:  fmt.Sprintf("malformed result: %v", err),
			})
			s.Log.Debug().Int("index", i).Err(err).Msg("skipping malformed shopping result")
			continue
		}
		if item.Title == "" {
			result.Skipped = append(result.Skipped, Diagnostic{
				ItemRef: fmt.Sprintf("shopping_results[%d]", i),
				Reason:  "missing title",
			})
			continue
		}

		product := s.parseResult(item, i, query)
		if meetsCriteria(product, query) {
			result.Products = append(result.Products, product)
		}
	}
	return result, nil
}

// parseResult maps one raw shopping listing into the normalized Product.
func (s *ShoppingSource) parseResult(item shoppingResult, index int, query types.ResearchQuery) types.Product {
	// Prefer the API's pre-extracted numeric price; otherwise clean the
	// display string ("$1,299.99") down to digits and one decimal point.
	price := item.ExtractedPrice
	if price == 0 {
		price = cleanPrice(item.Price)
	}

	var originalPrice *float64
	if item.OldPrice != "" {
		old := cleanPrice(item.OldPrice)
		if old >= price && old > 0 {
			originalPrice = &old
		}
	}

	category := resolveCategory("", query.ProductCategory)

	badges := make([]string, 0, len(item.Extensions)+1)
	if item.Tag != "" {
		badges = append(badges, item.Tag)
	}
	badges = append(badges, item.Extensions...)

	rate := shoppingCommissionRate(item.Source, category)
	trending := estimateTrending(trendingSignals{
		rating:      item.Rating,
		reviewCount: item.Reviews,
		badges:      badges,
		discounted:  originalPrice != nil,
	})
	// Shopping results carry no seller counts, so the rating saturation
	// signal stands in for the multi-seller check.
	competition := estimateCompetition(competitionSignals{
		reviewCount:      item.Reviews,
		rating:           item.Rating,
		ratingSaturation: true,
	})

	externalID := item.ProductID
	if externalID == "" {
		externalID = fmt.Sprintf("shopping-%d", index+1)
	}

	link := item.Link
	if link == "" {
		link = item.ProductLink
	}

	return types.Product{
		Title:            item.Title,
		Brand:            item.Source,
		Category:         category,
		Niche:            query.Niche,
		Price:            price,
		OriginalPrice:    originalPrice,
		CommissionRate:   rate,
		CommissionAmount: commissionAmount(price, rate),
		ProductURL:       link,
		ImageURL:         item.Thumbnail,
		Rating:           item.Rating,
		ReviewCount:      item.Reviews,
		TrendingScore:    trending,
		CompetitionScore: competition,
		Keywords:         titleKeywords(item.Title),
		ExternalID:       externalID,
		SourceName:       s.Name(),
		Tags:             productTags(category, query.Niche),
	}
}

// Shopping API JSON structures. Results decode individually so one
// malformed listing does not reject the whole page.
type shoppingResponse struct {
	ShoppingResults []json.RawMessage `json:"shopping_results"`
}

type shoppingResult struct {
	Position       int      `json:"position"`
	ProductID      string   `json:"product_id"`
	Title          string   `json:"title"`
	Link           string   `json:"link"`
	ProductLink    string   `json:"product_link"`
	Source         string   `json:"source"`
	Price          string   `json:"price"`
	ExtractedPrice float64  `json:"extracted_price"`
	OldPrice       string   `json:"old_price"`
	Rating         *float64 `json:"rating"`
	Reviews        *int     `json:"reviews"`
	Thumbnail      string   `json:"thumbnail"`
	Tag            string   `json:"tag"`
	Extensions     []string `json:"extensions"`
}
