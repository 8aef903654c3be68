// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research sequences the product research pipeline: fetch from the
// primary source with fallback-if-empty, enrich, build the niche context,
// score, rank, truncate, and assemble the result envelope.
package research

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/affiliate-research/internal/enrich"
	"github.com/pdiddy/affiliate-research/internal/scoring"
	"github.com/pdiddy/affiliate-research/internal/sources"
	"github.com/pdiddy/affiliate-research/pkg/types"
)

// Orchestrator runs one research invocation. Construct a fresh one per
// caller; it holds no mutable state across invocations.
type Orchestrator struct {
	sources  []sources.Source
	enricher *enrich.Enricher
	engine   scoring.Engine
	log      zerolog.Logger
}

// New builds an orchestrator over the given sources, consulted in priority
// order. The enricher may be nil when no enrichment backend is configured.
func New(srcs []sources.Source, enricher *enrich.Enricher, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		sources:  srcs,
		enricher: enricher,
		log:      log,
	}
}

// Research runs the full pipeline for one query. It never returns an error:
// every failure mode, including a panic in a pipeline step, is converted
// into an envelope carrying the error string and zero products.
func (o *Orchestrator) Research(ctx context.Context, query types.ResearchQuery) (env types.ResultEnvelope) {
	start := time.Now()
	sessionID := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			o.log.Error().Interface("panic", r).Msg("research pipeline panicked")
			env = errorEnvelope(sessionID, fmt.Sprintf("internal error: %v", r), start)
		}
	}()

	query.Normalize()
	if err := query.Validate(); err != nil {
		return errorEnvelope(sessionID, err.Error(), start)
	}

	// PRIMARY_FETCH and FALLBACK_FETCH: the first available source is the
	// primary; when it yields nothing, the next available source gets one
	// substitution attempt. Unavailable sources are skipped without
	// counting as attempted.
	var all []types.Product
	var apiSources []string
	apiCalls := 0
	attempts := 0

	for _, src := range o.sources {
		if !src.Available() {
			o.log.Debug().Str("source", src.Name()).Msg("source unavailable, skipping")
			continue
		}
		if attempts >= 2 {
			break
		}
		attempts++

		o.log.Info().Str("source", src.Name()).Str("niche", query.Niche).Msg("fetching products")
		result, err := src.Search(ctx, query)
		apiCalls += result.Calls
		apiSources = appendOnce(apiSources, src.Name())

		if err != nil {
			// Total adapter failure degrades to an empty result so the
			// fallback source can substitute.
			o.log.Warn().Str("source", src.Name()).Err(err).Msg("source failed")
			continue
		}
		for _, d := range result.Skipped {
			o.log.Debug().Str("source", src.Name()).Str("item", d.ItemRef).
				Str("reason", d.Reason).Msg("item skipped")
		}

		all = append(all, result.Products...)
		if len(all) > 0 {
			break
		}
	}

	if attempts == 0 {
		return errorEnvelope(sessionID, "no data source configured: set marketplace, shopping, or catalog credentials, or enable the sample source", start)
	}

	// ENRICH: sequential, rate-limited, mutates products in place.
	if o.enricher != nil && len(all) > 0 {
		o.log.Info().Int("products", len(all)).Msg("enriching products with search data")
		apiCalls += o.enricher.Enrich(ctx, all)
		apiSources = appendOnce(apiSources, enrich.SourceName)
	}

	// CONTEXT and SCORE over the full pre-truncation set.
	nicheCtx := scoring.BuildNicheContext(all, query)
	for i := range all {
		all[i].ResearchScore = o.engine.Score(all[i], nicheCtx)
	}

	// RANK: stable sort so equal scores keep their fetch order.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ResearchScore > all[j].ResearchScore
	})

	totalFound := len(all)
	final := all
	if len(final) > query.MaxResults {
		final = final[:query.MaxResults]
	}

	avgScore := 0.0
	var top *types.Product
	if len(final) > 0 {
		sum := 0.0
		for _, p := range final {
			sum += p.ResearchScore
		}
		avgScore = scoring.Round2(sum / float64(len(final)))
		top = &final[0]
	}

	return types.ResultEnvelope{
		Products: final,
		SessionData: types.SessionData{
			SessionID:          sessionID,
			TotalProductsFound: totalFound,
			ProductsReturned:   len(final),
			AverageScore:       avgScore,
			TopProduct:         top,
			APICallsMade:       apiCalls,
			APISources:         apiSources,
			ResearchDurationMS: time.Since(start).Milliseconds(),
			NicheInsights:      nicheCtx,
		},
	}
}

// errorEnvelope builds the zero-product failure envelope with the elapsed
// duration so far.
func errorEnvelope(sessionID, msg string, start time.Time) types.ResultEnvelope {
	return types.ResultEnvelope{
		Products: []types.Product{},
		Error:    msg,
		SessionData: types.SessionData{
			SessionID:          sessionID,
			APISources:         []string{},
			ResearchDurationMS: time.Since(start).Milliseconds(),
		},
	}
}

// appendOnce appends name unless it is already present, preserving first
// appearance order.
func appendOnce(list []string, name string) []string {
	for _, n := range list {
		if n == name {
			return list
		}
	}
	return append(list, name)
}
