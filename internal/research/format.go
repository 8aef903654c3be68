// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/affiliate-research/pkg/types"
)

// FormatTable writes the envelope as a human-readable table to w.
func FormatTable(env types.ResultEnvelope, w io.Writer) {
	if env.Error != "" {
		fmt.Fprintf(w, "research failed: %s\n", env.Error)
		return
	}
	if len(env.Products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-50s  %-10s  %-6s  %-6s  %-8s  %s\n",
		"Rank", "Title", "Price", "Comm%", "Score", "Source", "Category")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, p := range env.Products {
		title := p.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-50s  $%-9.2f  %-6.1f  %-6.1f  %-8s  %s\n",
			i+1, title, p.Price, p.CommissionRate, p.ResearchScore, p.SourceName, p.Category)
	}

	sd := env.SessionData
	fmt.Fprintf(w, "\n%d of %d products (avg score %.2f) via %s in %dms\n",
		sd.ProductsReturned, sd.TotalProductsFound, sd.AverageScore,
		strings.Join(sd.APISources, ","), sd.ResearchDurationMS)
}

// FormatJSON writes the envelope as indented JSON to w: products plus
// session_data, with error set on failure.
func FormatJSON(env types.ResultEnvelope, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}
