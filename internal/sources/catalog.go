// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/machinebox/graphql"
	"github.com/rs/zerolog"

	"github.com/pdiddy/affiliate-research/pkg/types"
)

// catalogAPIBase is the GraphQL product catalog endpoint. Declared as a var
// so tests can substitute an httptest server.
var catalogAPIBase = "https://graphql.api.rye.com/v1/query"

// catalogBatchLimit caps one batch lookup at 25 ids, the API's maximum.
const catalogBatchLimit = 25

// catalogProductQuery fetches one product by external identifier.
const catalogProductQuery = `
query GetProduct($input: ProductByIDInput!) {
	productByID(input: $input) {
		id
		title
		vendor
		url
		isAvailable
		images {
			url
		}
		price {
			value
			displayValue
			currency
		}
		marketplace
		... on AmazonProduct {
			ASIN
			categories {
				name
			}
			featureBullets
			ratingsTotal
			reviewsTotal
		}
	}
}`

// catalogSampleIDs maps niche keywords to known product identifiers. The
// catalog API has no keyword search; lookups go through curated id sets,
// matched by the first key contained in the niche.
var catalogSampleIDs = []struct {
	key string
	ids []string
}{
	{"gaming", []string{"B08N5WRWNW", "B07VGRJDFY", "B08KHG4X7Q"}},
	{"wireless headphones", []string{"B08PBJP8B2", "B0756CYWWD", "B07Q9MJKBV"}},
	{"laptops", []string{"B08N5WRWNW", "B08BNZVZBM", "B09DPBWNJ9"}},
}

var catalogDefaultIDs = []string{"B07H2V5YLH", "B08N5WRWNW", "B08PBJP8B2"}

// CatalogSource queries the GraphQL product catalog API.
type CatalogSource struct {
	Config types.CatalogConfig
	Log    zerolog.Logger

	client *graphql.Client
}

// NewCatalogSource builds a catalog source with its GraphQL client.
func NewCatalogSource(cfg types.CatalogConfig, log zerolog.Logger) *CatalogSource {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &CatalogSource{
		Config: cfg,
		Log:    log,
		client: graphql.NewClient(catalogAPIBase, graphql.WithHTTPClient(httpClient)),
	}
}

// Name returns the source identifier.
func (s *CatalogSource) Name() string { return "catalog" }

// Available reports whether the catalog API key is configured.
func (s *CatalogSource) Available() bool { return s.Config.APIKey != "" }

// Search looks up the curated id set for the query's niche. The API has no
// batch endpoint, so each id is one call; a failed id is skipped and the
// rest still resolve.
func (s *CatalogSource) Search(ctx context.Context, query types.ResearchQuery) (Result, error) {
	ids := sampleIDsFor(query.Niche)
	if query.MaxResults > 0 && len(ids) > query.MaxResults {
		ids = ids[:query.MaxResults]
	}
	return s.lookup(ctx, ids, query)
}

// LookupBatch fetches up to 25 known product ids, the batch variant of the
// catalog contract.
func (s *CatalogSource) LookupBatch(ctx context.Context, ids []string, query types.ResearchQuery) (Result, error) {
	if len(ids) == 0 {
		return Result{}, fmt.Errorf("product id list is empty")
	}
	if len(ids) > catalogBatchLimit {
		s.Log.Warn().Int("requested", len(ids)).Int("limit", catalogBatchLimit).
			Msg("truncating catalog batch")
		ids = ids[:catalogBatchLimit]
	}
	return s.lookup(ctx, ids, query)
}

func (s *CatalogSource) lookup(ctx context.Context, ids []string, query types.ResearchQuery) (Result, error) {
	var result Result
	for _, id := range ids {
		result.Calls++

		raw, err := s.fetchProduct(ctx, id)
		if err != nil {
			result.Skipped = append(result.Skipped, Diagnostic{ItemRef: id, Reason: err.Error()})
			s.Log.Debug().Str("id", id).Err(err).Msg("skipping catalog product")
			continue
		}
		if raw == nil {
			result.Skipped = append(result.Skipped, Diagnostic{ItemRef: id, Reason: "product not found"})
			continue
		}

		product, err := s.parseProduct(*raw, query)
		if err != nil {
			result.Skipped = append(result.Skipped, Diagnostic{ItemRef: id, Reason: err.Error()})
			continue
		}
		if meetsCriteria(product, query) {
			result.Products = append(result.Products, product)
		}
	}

	// All ids failing is a total adapter failure, not a per-item one.
	if len(result.Products) == 0 && len(result.Skipped) == len(ids) && len(ids) > 0 {
		allNetwork := true
		for _, d := range result.Skipped {
			if d.Reason == "product not found" {
				allNetwork = false
				break
			}
		}
		if allNetwork {
			return result, fmt.Errorf("catalog lookup failed for all %d ids", len(ids))
		}
	}
	return result, nil
}

// fetchProduct runs the productByID query for one identifier.
func (s *CatalogSource) fetchProduct(ctx context.Context, id string) (*catalogProduct, error) {
	req := graphql.NewRequest(catalogProductQuery)
	req.Var("input", map[string]string{"id": id, "marketplace": "AMAZON"})
	req.Header.Set("Authorization", "Basic "+s.Config.APIKey)
	req.Header.Set("Rye-Shopper-IP", s.shopperIP())

	var resp struct {
		ProductByID *catalogProduct `json:"productByID"`
	}
	if err := s.client.Run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("catalog query: %w", err)
	}
	return resp.ProductByID, nil
}

func (s *CatalogSource) shopperIP() string {
	if s.Config.ShopperIP != "" {
		return s.Config.ShopperIP
	}
	return "127.0.0.1"
}

// parseProduct maps one raw catalog product into the normalized Product.
func (s *CatalogSource) parseProduct(raw catalogProduct, query types.ResearchQuery) (types.Product, error) {
	if raw.Title == "" {
		return types.Product{}, fmt.Errorf("missing title")
	}

	// Price value arrives as integer minor units.
	price := float64(raw.Price.Value) / 100

	sourceCategory := ""
	if len(raw.Categories) > 0 {
		sourceCategory = raw.Categories[0].Name
	}
	category := resolveCategory(sourceCategory, query.ProductCategory)

	// A marketplace listing delegates to the category table; other
	// storefronts get the flat shopping default.
	var rate float64
	if strings.EqualFold(raw.Marketplace, "AMAZON") {
		rate = marketplaceCommissionRate(category)
	} else {
		rate = defaultShoppingRate
	}

	trending := estimateTrending(trendingSignals{
		rating:      raw.RatingsTotal,
		reviewCount: raw.ReviewsTotal,
	})
	competition := estimateCompetition(competitionSignals{
		reviewCount:      raw.ReviewsTotal,
		rating:           raw.RatingsTotal,
		ratingSaturation: true,
	})

	externalID := raw.ASIN
	if externalID == "" {
		externalID = raw.ID
	}

	imageURL := ""
	if len(raw.Images) > 0 {
		imageURL = raw.Images[0].URL
	}

	description := ""
	if len(raw.FeatureBullets) > 0 {
		bullets := raw.FeatureBullets
		if len(bullets) > 3 {
			bullets = bullets[:3]
		}
		description = strings.Join(bullets, " ")
	}

	return types.Product{
		Title:            raw.Title,
		Description:      description,
		Brand:            raw.Vendor,
		Category:         category,
		Niche:            query.Niche,
		Price:            price,
		CommissionRate:   rate,
		CommissionAmount: commissionAmount(price, rate),
		ProductURL:       raw.URL,
		ImageURL:         imageURL,
		Rating:           raw.RatingsTotal,
		ReviewCount:      raw.ReviewsTotal,
		TrendingScore:    trending,
		CompetitionScore: competition,
		Keywords:         titleKeywords(raw.Title),
		ExternalID:       externalID,
		SourceName:       s.Name(),
		Tags:             productTags(category, query.Niche),
	}, nil
}

// sampleIDsFor picks the curated id set whose key appears in the niche.
func sampleIDsFor(niche string) []string {
	lower := strings.ToLower(niche)
	for _, set := range catalogSampleIDs {
		if strings.Contains(lower, set.key) {
			return set.ids
		}
	}
	return catalogDefaultIDs
}

// Catalog API GraphQL response structures.
type catalogProduct struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Vendor      string `json:"vendor"`
	URL         string `json:"url"`
	IsAvailable bool   `json:"isAvailable"`
	Images      []struct {
		URL string `json:"url"`
	} `json:"images"`
	Price struct {
		Value        int64  `json:"value"`
		DisplayValue string `json:"displayValue"`
		Currency     string `json:"currency"`
	} `json:"price"`
	Marketplace    string   `json:"marketplace"`
	ASIN           string   `json:"ASIN"`
	FeatureBullets []string `json:"featureBullets"`
	Categories     []struct {
		Name string `json:"name"`
	} `json:"categories"`
	RatingsTotal *float64 `json:"ratingsTotal"`
	ReviewsTotal *int     `json:"reviewsTotal"`
}
