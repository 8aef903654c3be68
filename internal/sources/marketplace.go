// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/affiliate-research/pkg/types"
)

// marketplaceAPIBase is the marketplace item-search endpoint. Declared as a
// var so tests can substitute an httptest server.
var marketplaceAPIBase = "https://webservices.amazon.com/paapi5/searchitems"

// marketplaceResources lists the item fields requested from the API.
var marketplaceResources = []string{
	"ItemInfo.Title",
	"ItemInfo.Features",
	"ItemInfo.ByLineInfo",
	"ItemInfo.Classifications",
	"Offers.Listings.Price",
	"Offers.Listings.SavingBasis",
	"Images.Primary.Large",
	"CustomerReviews.StarRating",
	"CustomerReviews.Count",
	"BrowseNodeInfo.BrowseNodes",
}

// MarketplaceSource queries the retail marketplace product API.
type MarketplaceSource struct {
	Client *http.Client
	Config types.MarketplaceConfig
	Log    zerolog.Logger
}

// Name returns the source identifier.
func (s *MarketplaceSource) Name() string { return "amazon" }

// Available reports whether the marketplace credentials are configured.
func (s *MarketplaceSource) Available() bool {
	return s.Config.AccessKey != "" && s.Config.SecretKey != "" && s.Config.PartnerTag != ""
}

// Search runs one item-search call and normalizes the returned items.
func (s *MarketplaceSource) Search(ctx context.Context, query types.ResearchQuery) (Result, error) {
	keywords := buildMarketplaceKeywords(query)

	limit := query.MaxResults
	if limit <= 0 || limit > types.MaxResultsCap {
		limit = types.MaxResultsCap
	}

	raw, err := s.searchItems(ctx, keywords, limit)
	if err != nil {
		return Result{Calls: 1}, fmt.Errorf("marketplace search: %w", err)
	}

	result := Result{Calls: 1}
	for i, rawItem := range raw.SearchResult.Items {
		var item marketplaceItem
		if err := json.Unmarshal(rawItem, &item); err != nil {
			result.Skipped = append(result.Skipped, Diagnostic{
				ItemRef: fmt.Sprintf("item[%d]", i),
				Reason:  fmt.Sprintf("malformed item: %v", err),
			})
			s.Log.Debug().Int("index", i).Err(err).Msg("skipping malformed marketplace item")
			continue
		}

		product, err := s.parseItem(item, query)
		if err != nil {
			result.Skipped = append(result.Skipped, Diagnostic{
				ItemRef: item.ASIN,
				Reason:  err.Error(),
			})
			s.Log.Debug().Str("asin", item.ASIN).Err(err).Msg("skipping marketplace item")
			continue
		}

		if meetsCriteria(product, query) {
			result.Products = append(result.Products, product)
		}
	}
	return result, nil
}

// searchItems issues the item-search call: keywords, item count, and the
// resource fields to populate.
func (s *MarketplaceSource) searchItems(ctx context.Context, keywords string, limit int) (*marketplaceSearchResponse, error) {
	body := marketplaceSearchRequest{
		Keywords:   keywords,
		ItemCount:  limit,
		PartnerTag: s.Config.PartnerTag,
		Resources:  marketplaceResources,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, marketplaceAPIBase, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.Config.UserAgent)
	req.Header.Set("X-Access-Key", s.Config.AccessKey)
	req.Header.Set("X-Secret-Key", s.Config.SecretKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("marketplace API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("marketplace API returned HTTP %d", resp.StatusCode)
	}

	var sr marketplaceSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing marketplace response: %w", err)
	}
	return &sr, nil
}

// parseItem maps one raw marketplace item into the normalized Product.
func (s *MarketplaceSource) parseItem(item marketplaceItem, query types.ResearchQuery) (types.Product, error) {
	if item.ASIN == "" {
		return types.Product{}, fmt.Errorf("missing ASIN")
	}
	title := item.ItemInfo.Title.DisplayValue
	if title == "" {
		return types.Product{}, fmt.Errorf("missing title")
	}

	// Monetary amounts arrive as integer cents.
	var price float64
	var originalPrice *float64
	var listingCount int
	if len(item.Offers.Listings) > 0 {
		listingCount = len(item.Offers.Listings)
		first := item.Offers.Listings[0]
		price = float64(first.Price.Amount) / 100
		if first.SavingBasis != nil && first.SavingBasis.Amount > 0 {
			basis := float64(first.SavingBasis.Amount) / 100
			if basis >= price {
				originalPrice = &basis
			}
		}
	}

	var rating *float64
	var reviewCount *int
	if item.CustomerReviews.StarRating != nil {
		v := item.CustomerReviews.StarRating.Value
		rating = &v
	}
	if item.CustomerReviews.Count != nil {
		reviewCount = item.CustomerReviews.Count
	}

	sourceCategory := ""
	var salesRank *int
	if len(item.BrowseNodeInfo.BrowseNodes) > 0 {
		node := item.BrowseNodeInfo.BrowseNodes[0]
		sourceCategory = node.DisplayName
		salesRank = node.SalesRank
	}
	category := resolveCategory(sourceCategory, query.ProductCategory)

	var badges []string
	for _, c := range item.ItemInfo.Classifications {
		badges = append(badges, c.DisplayValue)
	}

	description := ""
	if features := item.ItemInfo.Features.DisplayValues; len(features) > 0 {
		if len(features) > 3 {
			features = features[:3]
		}
		description = strings.Join(features, " ")
	}

	rate := marketplaceCommissionRate(category)
	trending := estimateTrending(trendingSignals{
		rating:      rating,
		reviewCount: reviewCount,
		badges:      badges,
		discounted:  originalPrice != nil,
	})
	competition := estimateCompetition(competitionSignals{
		reviewCount:  reviewCount,
		listingCount: listingCount,
	})

	imageURL := ""
	if item.Images.Primary.Large != nil {
		imageURL = item.Images.Primary.Large.URL
	}

	return types.Product{
		Title:            title,
		Description:      description,
		Brand:            item.ItemInfo.ByLineInfo.Brand.DisplayValue,
		Category:         category,
		Niche:            query.Niche,
		Price:            price,
		OriginalPrice:    originalPrice,
		CommissionRate:   rate,
		CommissionAmount: commissionAmount(price, rate),
		ProductURL:       fmt.Sprintf("https://amazon.com/dp/%s", item.ASIN),
		AffiliateURL:     fmt.Sprintf("https://amazon.com/dp/%s?tag=%s", item.ASIN, s.Config.PartnerTag),
		ImageURL:         imageURL,
		Rating:           rating,
		ReviewCount:      reviewCount,
		SalesRank:        salesRank,
		TrendingScore:    trending,
		CompetitionScore: competition,
		Keywords:         titleKeywords(title),
		ExternalID:       item.ASIN,
		SourceName:       s.Name(),
		Tags:             productTags(category, query.Niche),
	}, nil
}

// buildMarketplaceKeywords combines the niche, category, and up to three
// target keywords into the search string.
func buildMarketplaceKeywords(q types.ResearchQuery) string {
	terms := []string{q.Niche}
	if q.ProductCategory != "" {
		terms = append(terms, q.ProductCategory)
	}
	kws := q.TargetKeywords
	if len(kws) > 3 {
		kws = kws[:3]
	}
	terms = append(terms, kws...)
	return strings.Join(terms, " ")
}

// Marketplace API JSON structures. Items decode individually so one
// malformed item does not reject the whole batch.
type marketplaceSearchRequest struct {
	Keywords   string   `json:"Keywords"`
	ItemCount  int      `json:"ItemCount"`
	PartnerTag string   `json:"PartnerTag"`
	Resources  []string `json:"Resources"`
}

type marketplaceSearchResponse struct {
	SearchResult struct {
		Items []json.RawMessage `json:"Items"`
	} `json:"SearchResult"`
}

type marketplaceItem struct {
	ASIN     string `json:"ASIN"`
	ItemInfo struct {
		Title struct {
			DisplayValue string `json:"DisplayValue"`
		} `json:"Title"`
		Features struct {
			DisplayValues []string `json:"DisplayValues"`
		} `json:"Features"`
		ByLineInfo struct {
			Brand struct {
				DisplayValue string `json:"DisplayValue"`
			} `json:"Brand"`
		} `json:"ByLineInfo"`
		Classifications map[string]marketplaceDisplayValue `json:"Classifications"`
	} `json:"ItemInfo"`
	Offers struct {
		Listings []marketplaceListing `json:"Listings"`
	} `json:"Offers"`
	CustomerReviews struct {
		StarRating *struct {
			Value float64 `json:"Value"`
		} `json:"StarRating"`
		Count *int `json:"Count"`
	} `json:"CustomerReviews"`
	BrowseNodeInfo struct {
		BrowseNodes []struct {
			DisplayName string `json:"DisplayName"`
			SalesRank   *int   `json:"SalesRank"`
		} `json:"BrowseNodes"`
	} `json:"BrowseNodeInfo"`
	Images struct {
		Primary struct {
			Large *struct {
				URL string `json:"URL"`
			} `json:"Large"`
		} `json:"Primary"`
	} `json:"Images"`
}

type marketplaceDisplayValue struct {
	DisplayValue string `json:"DisplayValue"`
}

type marketplaceListing struct {
	Price struct {
		Amount int64 `json:"Amount"`
	} `json:"Price"`
	SavingBasis *struct {
		Amount int64 `json:"Amount"`
	} `json:"SavingBasis"`
}
