// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by adapters that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "affiliate-research/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// MarketplaceConfig holds settings for the retail marketplace adapter.
type MarketplaceConfig struct {
	HTTPConfig `yaml:",inline"`

	// AccessKey and SecretKey authenticate against the marketplace API.
	// The adapter reports itself unavailable when either is empty.
	AccessKey string `json:"access_key,omitempty" yaml:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty" yaml:"secret_key,omitempty"`

	// PartnerTag is the affiliate tag appended to referral URLs.
	PartnerTag string `json:"partner_tag,omitempty" yaml:"partner_tag,omitempty"`

	// Region is the marketplace country code (default "US").
	Region string `json:"region" yaml:"region"`
}

// ShoppingConfig holds settings for the shopping-search adapter.
type ShoppingConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the search API. The adapter reports
	// itself unavailable when empty.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Region is the search locale country code (default "us").
	Region string `json:"region" yaml:"region"`
}

// CatalogConfig holds settings for the GraphQL product catalog adapter.
type CatalogConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the Basic authorization token. The adapter reports itself
	// unavailable when empty.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// ShopperIP is forwarded for the catalog's fraud detection (default
	// "127.0.0.1").
	ShopperIP string `json:"shopper_ip" yaml:"shopper_ip"`
}

// SampleConfig holds settings for the offline sample-data source used when
// no credentials are configured.
type SampleConfig struct {
	// Enabled turns the sample source on as a last-resort fallback.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Seed fixes the generator's randomness so runs are reproducible.
	Seed int64 `json:"seed" yaml:"seed"`
}

// EnrichmentConfig holds settings for the SERP enrichment stage.
type EnrichmentConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the web-search API. Enrichment is
	// skipped when empty.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Region is the search locale country code (default "us").
	Region string `json:"region" yaml:"region"`

	// Delay is the pause between per-product enrichment calls, a rate-limit
	// courtesy to the external API (default 500ms).
	Delay time.Duration `json:"delay" yaml:"delay"`
}

// ResearchConfig groups all adapter and stage configurations for one
// pipeline construction.
type ResearchConfig struct {
	Marketplace MarketplaceConfig `json:"marketplace" yaml:"marketplace"`
	Shopping    ShoppingConfig    `json:"shopping" yaml:"shopping"`
	Catalog     CatalogConfig     `json:"catalog" yaml:"catalog"`
	Enrichment  EnrichmentConfig  `json:"enrichment" yaml:"enrichment"`
	Sample      SampleConfig      `json:"sample" yaml:"sample"`

	// SessionsDir is where session files are written (default "sessions").
	SessionsDir string `json:"sessions_dir" yaml:"sessions_dir"`
}
