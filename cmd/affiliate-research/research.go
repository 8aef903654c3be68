// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/affiliate-research/internal/enrich"
	"github.com/pdiddy/affiliate-research/internal/research"
	"github.com/pdiddy/affiliate-research/internal/sources"
	"github.com/pdiddy/affiliate-research/pkg/types"
)

// stdinMaxResults is the default result count for the stdin JSON entry
// point, lower than the flag entry point's 50.
const stdinMaxResults = 10

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Research affiliate products for a niche",
	Long: `Research fans a query out to the configured commerce sources (primary first,
with one fallback substitution when the primary returns nothing), enriches
the results with search-volume and difficulty signals, scores every product
against the niche averages, and prints the ranked list.

With --stdin the query is read as a JSON object from standard input and the
result envelope is written as JSON to standard output, for use as a process
boundary by other tools.`,
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().String("niche", "", "topical niche to research (required unless --stdin)")
	researchCmd.Flags().String("category", "", "narrow results to a product category")
	researchCmd.Flags().Float64("min-commission", types.DefaultMinCommissionRate, "minimum commission rate percent")
	researchCmd.Flags().Float64("min-trending", types.DefaultMinTrendingScore, "minimum trending score")
	researchCmd.Flags().Int("max-results", types.DefaultMaxResults, "maximum products to return (hard cap 50)")
	researchCmd.Flags().String("keywords", "", "additional search keywords (comma-separated)")
	researchCmd.Flags().Float64("min-price", 0, "minimum product price")
	researchCmd.Flags().Float64("max-price", types.DefaultPriceRangeMax, "maximum product price")
	researchCmd.Flags().Bool("stdin", false, "read the query as JSON from standard input")
	researchCmd.Flags().Bool("json", false, "print the result envelope as JSON")
	researchCmd.Flags().Bool("save", false, "save the session to the sessions directory")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	useStdin, _ := cmd.Flags().GetBool("stdin")
	asJSON, _ := cmd.Flags().GetBool("json")
	save, _ := cmd.Flags().GetBool("save")

	var query types.ResearchQuery
	if useStdin {
		q, err := queryFromStdin(os.Stdin)
		if err != nil {
			// The process boundary always emits valid JSON, even for a
			// request that never parsed.
			env := types.ResultEnvelope{Products: []types.Product{}, Error: err.Error()}
			env.SessionData.APISources = []string{}
			research.FormatJSON(env, os.Stdout)
			return err
		}
		query = q
		asJSON = true
	} else {
		query = queryFromFlags(cmd)
	}

	cfg := buildResearchConfig()
	orch := research.New(buildSources(cfg), buildEnricher(cfg), logger)

	env := orch.Research(cmd.Context(), query)

	if asJSON {
		if err := research.FormatJSON(env, os.Stdout); err != nil {
			return err
		}
	} else {
		research.FormatTable(env, os.Stdout)
	}

	if save && env.Error == "" {
		path := research.SessionFileName(cfg.SessionsDir, query.Niche)
		if err := research.WriteSessionFile(path, query, env); err != nil {
			logger.Warn().Err(err).Msg("could not save session")
		} else {
			fmt.Fprintln(os.Stderr, "Session saved:", path)
		}
	}

	if env.Error != "" {
		return fmt.Errorf("%s", env.Error)
	}
	return nil
}

// queryFromFlags assembles the query from command-line flags.
func queryFromFlags(cmd *cobra.Command) types.ResearchQuery {
	niche, _ := cmd.Flags().GetString("niche")
	category, _ := cmd.Flags().GetString("category")
	minCommission, _ := cmd.Flags().GetFloat64("min-commission")
	minTrending, _ := cmd.Flags().GetFloat64("min-trending")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	keywords, _ := cmd.Flags().GetString("keywords")
	minPrice, _ := cmd.Flags().GetFloat64("min-price")
	maxPrice, _ := cmd.Flags().GetFloat64("max-price")

	return types.ResearchQuery{
		Niche:             niche,
		ProductCategory:   category,
		MinCommissionRate: minCommission,
		MinTrendingScore:  minTrending,
		MaxResults:        maxResults,
		TargetKeywords:    splitKeywords(keywords),
		PriceRange:        types.PriceRange{Min: minPrice, Max: maxPrice},
	}
}

// stdinRequest mirrors the JSON accepted on standard input. Optional fields
// are pointers so an explicit zero is distinguishable from an omitted one.
type stdinRequest struct {
	Niche             string      `json:"niche"`
	ProductCategory   string      `json:"product_category"`
	MinCommissionRate *float64    `json:"min_commission_rate"`
	MinTrendingScore  *float64    `json:"min_trending_score"`
	MaxResults        *int        `json:"max_results"`
	Keywords          keywordList `json:"keywords"`
	MinPrice          *float64    `json:"min_price"`
	MaxPrice          *float64    `json:"max_price"`
}

// keywordList accepts either a JSON array of strings or one comma-separated
// string.
type keywordList []string

func (k *keywordList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*k = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("keywords must be a string or a list of strings")
	}
	*k = splitKeywords(s)
	return nil
}

// queryFromStdin reads and validates the JSON query from r.
func queryFromStdin(r io.Reader) (types.ResearchQuery, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return types.ResearchQuery{}, fmt.Errorf("reading standard input: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return types.ResearchQuery{}, fmt.Errorf("no input data provided")
	}

	var req stdinRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return types.ResearchQuery{}, fmt.Errorf("parsing input JSON: %w", err)
	}

	query := types.ResearchQuery{
		Niche:             req.Niche,
		ProductCategory:   req.ProductCategory,
		MinCommissionRate: types.DefaultMinCommissionRate,
		MinTrendingScore:  types.DefaultMinTrendingScore,
		MaxResults:        stdinMaxResults,
		TargetKeywords:    req.Keywords,
		PriceRange:        types.PriceRange{Min: 0, Max: types.DefaultPriceRangeMax},
	}
	if req.MinCommissionRate != nil {
		query.MinCommissionRate = *req.MinCommissionRate
	}
	if req.MinTrendingScore != nil {
		query.MinTrendingScore = *req.MinTrendingScore
	}
	if req.MaxResults != nil {
		query.MaxResults = *req.MaxResults
	}
	if req.MinPrice != nil {
		query.PriceRange.Min = *req.MinPrice
	}
	if req.MaxPrice != nil {
		query.PriceRange.Max = *req.MaxPrice
	}
	return query, nil
}

func splitKeywords(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// buildResearchConfig assembles the pipeline configuration from viper and
// the loaded secrets.
func buildResearchConfig() types.ResearchConfig {
	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}

	return types.ResearchConfig{
		Marketplace: types.MarketplaceConfig{
			HTTPConfig: httpCfg,
			AccessKey:  credential("marketplace.access_key", "marketplace-access-key"),
			SecretKey:  credential("marketplace.secret_key", "marketplace-secret-key"),
			PartnerTag: credential("marketplace.partner_tag", "marketplace-partner-tag"),
			Region:     viper.GetString("marketplace.region"),
		},
		Shopping: types.ShoppingConfig{
			HTTPConfig: httpCfg,
			APIKey:     credential("shopping.api_key", "serpapi-api-key"),
			Region:     viper.GetString("shopping.region"),
		},
		Catalog: types.CatalogConfig{
			HTTPConfig: httpCfg,
			APIKey:     credential("catalog.api_key", "catalog-api-key"),
			ShopperIP:  viper.GetString("catalog.shopper_ip"),
		},
		Enrichment: types.EnrichmentConfig{
			HTTPConfig: httpCfg,
			APIKey:     credential("enrichment.api_key", "serpapi-api-key"),
			Region:     viper.GetString("enrichment.region"),
			Delay:      viper.GetDuration("enrichment.delay"),
		},
		Sample: types.SampleConfig{
			Enabled: viper.GetBool("sample.enabled"),
			Seed:    viper.GetInt64("sample.seed"),
		},
		SessionsDir: viper.GetString("sessions_dir"),
	}
}

// buildSources constructs the adapters in priority order: the marketplace
// is the primary source, shopping search the fallback, the catalog next,
// and the sample generator last when enabled.
func buildSources(cfg types.ResearchConfig) []sources.Source {
	client := &http.Client{Timeout: cfg.Marketplace.Timeout}
	return []sources.Source{
		&sources.MarketplaceSource{Client: client, Config: cfg.Marketplace, Log: logger},
		&sources.ShoppingSource{Client: &http.Client{Timeout: cfg.Shopping.Timeout}, Config: cfg.Shopping, Log: logger},
		sources.NewCatalogSource(cfg.Catalog, logger),
		&sources.SampleSource{Config: cfg.Sample},
	}
}

// buildEnricher constructs the enrichment stage, or nil when no web-search
// key is configured.
func buildEnricher(cfg types.ResearchConfig) *enrich.Enricher {
	if cfg.Enrichment.APIKey == "" {
		return nil
	}
	return &enrich.Enricher{
		Client: &enrich.HTTPSERPClient{
			Client: &http.Client{Timeout: cfg.Enrichment.Timeout},
			Config: cfg.Enrichment,
		},
		Pacer: enrich.NewPacer(cfg.Enrichment.Delay),
		Log:   logger,
	}
}
