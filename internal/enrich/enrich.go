// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/affiliate-research/pkg/types"
)

// Enricher runs the sequential enrichment pass over fetched products.
type Enricher struct {
	Client SERPClient
	Pacer  Pacer
	Log    zerolog.Logger
}

// SourceName identifies enrichment in the session's api_sources list.
const SourceName = "serpapi"

// Enrich augments each product in place with an estimated search volume and
// difficulty (from a title query) and a refined competition score (from a
// "<keywords> review" query). A failure on any single product is logged and
// the product forwarded unmodified, never dropped. The returned count is
// the number of products attempted, which is also the call count the
// session accounting uses: one call per product, with the query pair
// counting as one, matching the original request-accounting convention.
func (e *Enricher) Enrich(ctx context.Context, products []types.Product) int {
	attempted := 0
	for i := range products {
		if err := e.Pacer.Wait(ctx); err != nil {
			e.Log.Warn().Err(err).Msg("enrichment cancelled")
			return attempted
		}
		attempted++

		if err := e.enrichOne(ctx, &products[i]); err != nil {
			e.Log.Warn().Str("title", products[i].Title).Err(err).
				Msg("enrichment failed, forwarding product unmodified")
		}
	}
	return attempted
}

func (e *Enricher) enrichOne(ctx context.Context, p *types.Product) error {
	page, err := e.Client.Search(ctx, p.Title, 0)
	if err != nil {
		return err
	}

	volume := estimateVolume(page.TotalResults)
	difficulty := serpDifficulty(page.Organic)
	p.SearchVolume = &volume
	p.Difficulty = &difficulty

	// Second lookup: competition refinement from the top-3 keywords.
	keywords := p.Keywords
	if len(keywords) > 3 {
		keywords = keywords[:3]
	}
	reviewQuery := strings.Join(keywords, " ") + " review"

	reviewPage, err := e.Client.Search(ctx, reviewQuery, 20)
	if err != nil {
		// Volume and difficulty are already set; the refinement failing
		// alone does not undo them.
		e.Log.Debug().Str("query", reviewQuery).Err(err).Msg("competition refinement failed")
		return nil
	}

	signal := competitionSignal(reviewPage.Organic)
	score := p.CompetitionScore + signal
	if score > 100 {
		score = 100
	}
	p.CompetitionScore = score
	return nil
}
