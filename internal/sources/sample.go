// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/pdiddy/affiliate-research/pkg/types"
)

// sampleTemplate is one synthetic listing blueprint.
type sampleTemplate struct {
	title     string
	category  string
	basePrice float64
}

// sampleCatalog holds listing blueprints per niche. Unknown niches fall
// back to the tech set.
var sampleCatalog = map[string][]sampleTemplate{
	"fitness": {
		{"Adjustable Dumbbells Set", "exercise equipment", 199.99},
		{"Resistance Bands Kit", "exercise equipment", 29.99},
		{"Yoga Mat Premium", "exercise equipment", 49.99},
		{"Protein Powder Whey", "supplements", 39.99},
		{"Fitness Tracker Smart", "electronics", 149.99},
		{"Foam Roller Muscle Recovery", "exercise equipment", 24.99},
	},
	"tech": {
		{"Wireless Bluetooth Earbuds", "electronics", 79.99},
		{"Smartphone Stand Adjustable", "accessories", 24.99},
		{"USB-C Fast Charger", "accessories", 19.99},
		{"Mechanical Gaming Keyboard", "electronics", 89.99},
		{"Webcam HD 1080p", "electronics", 49.99},
		{"Bluetooth Speaker Portable", "electronics", 59.99},
	},
	"home": {
		{"Essential Oil Diffuser", "home decor", 45.99},
		{"Memory Foam Pillow", "bedding", 29.99},
		{"LED Strip Lights", "lighting", 22.99},
		{"Coffee Maker Single Serve", "kitchen", 89.99},
		{"Air Purifier HEPA", "appliances", 199.99},
		{"Bamboo Cutting Board", "kitchen", 19.99},
	},
	"beauty": {
		{"Vitamin C Serum Anti-Aging", "skincare", 24.99},
		{"Retinol Cream Night Treatment", "skincare", 34.99},
		{"LED Face Mask Light Therapy", "beauty tools", 129.99},
		{"Makeup Brush Set Professional", "makeup", 29.99},
		{"Hair Growth Serum Natural", "hair care", 39.99},
		{"Jade Roller Face Massage", "beauty tools", 12.99},
	},
	"health": {
		{"Multivitamin Daily Supplement", "supplements", 29.99},
		{"Omega-3 Fish Oil Capsules", "supplements", 24.99},
		{"Probiotics 50 Billion CFU", "supplements", 34.99},
		{"Blood Pressure Monitor Digital", "medical devices", 39.99},
		{"Pulse Oximeter Fingertip", "medical devices", 24.99},
		{"Meditation Cushion Zafu", "wellness", 44.99},
	},
	"outdoor": {
		{"Camping Tent 4 Person", "camping", 149.99},
		{"Hiking Backpack 50L", "hiking", 89.99},
		{"Portable Solar Charger", "electronics", 59.99},
		{"Water Filter Bottle BPA Free", "hydration", 24.99},
		{"Hiking Boots Waterproof", "footwear", 119.99},
		{"Headlamp Rechargeable LED", "lighting", 34.99},
	},
	"pets": {
		{"Dog Food Premium Grain Free", "pet food", 49.99},
		{"Dog Collar GPS Tracker", "pet tech", 89.99},
		{"Pet Camera Treat Dispenser", "pet tech", 149.99},
		{"Dog Bed Memory Foam", "pet furniture", 79.99},
		{"Cat Tree Multi Level", "cat supplies", 129.99},
		{"Dog Grooming Kit Professional", "grooming", 59.99},
	},
}

var sampleSuffixes = []string{"Pro", "Max", "Ultra", "Premium", "Advanced", "2024"}

var sampleBrands = []string{"TopBrand", "ProGear", "EliteChoice", "PremiumTech", "QualityFirst"}

// SampleSource generates deterministic synthetic products for offline runs
// and testing. It honors the same normalization and filtering contract as
// the network-backed sources.
type SampleSource struct {
	Config types.SampleConfig
}

// Name returns the source identifier.
func (s *SampleSource) Name() string { return "test_data" }

// Available reports whether the sample source is enabled in configuration.
func (s *SampleSource) Available() bool { return s.Config.Enabled }

// Search generates up to 2x the requested result count so that criteria
// filtering still leaves a full page.
func (s *SampleSource) Search(_ context.Context, query types.ResearchQuery) (Result, error) {
	templates := sampleCatalog[strings.ToLower(query.Niche)]
	if templates == nil {
		templates = sampleCatalog["tech"]
	}

	rng := rand.New(rand.NewSource(s.Config.Seed))

	limit := query.MaxResults
	if limit <= 0 || limit > types.MaxResultsCap {
		limit = types.MaxResultsCap
	}
	count := limit * 2
	if count > len(templates)*2 {
		count = len(templates) * 2
	}

	result := Result{Calls: 1}
	for i := 0; i < count; i++ {
		tmpl := templates[rng.Intn(len(templates))]
		suffix := sampleSuffixes[rng.Intn(len(sampleSuffixes))]
		title := tmpl.title + " " + suffix

		price := math.Round(tmpl.basePrice*(0.8+rng.Float64()*0.5)*100) / 100
		rating := math.Round((3.5+rng.Float64()*1.5)*10) / 10
		reviews := 50 + rng.Intn(4950)

		var originalPrice *float64
		if rng.Float64() < 0.3 {
			orig := math.Round(price*1.25*100) / 100
			originalPrice = &orig
		}

		category := tmpl.category
		if query.ProductCategory != "" {
			category = query.ProductCategory
		}

		rate := marketplaceCommissionRate(category)
		trending := estimateTrending(trendingSignals{
			rating:      &rating,
			reviewCount: &reviews,
			discounted:  originalPrice != nil,
		})
		competition := estimateCompetition(competitionSignals{
			reviewCount:      &reviews,
			rating:           &rating,
			ratingSaturation: true,
		})

		id := fmt.Sprintf("SAMPLE-%04d", i+1)
		product := types.Product{
			Title:            title,
			Description:      fmt.Sprintf("High-quality %s perfect for %s enthusiasts.", strings.ToLower(tmpl.title), query.Niche),
			Brand:            sampleBrands[rng.Intn(len(sampleBrands))],
			Category:         category,
			Niche:            query.Niche,
			Price:            price,
			OriginalPrice:    originalPrice,
			CommissionRate:   rate,
			CommissionAmount: commissionAmount(price, rate),
			ProductURL:       "https://example.com/products/" + id,
			Rating:           &rating,
			ReviewCount:      &reviews,
			TrendingScore:    trending,
			CompetitionScore: competition,
			Keywords:         titleKeywords(title),
			ExternalID:       id,
			SourceName:       s.Name(),
			Tags:             productTags(category, query.Niche),
		}

		if meetsCriteria(product, query) {
			result.Products = append(result.Products, product)
		}
	}
	return result, nil
}
