// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/affiliate-research/pkg/types"
)

func TestSessionFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fitness-20260115-120000.yaml")

	query := types.ResearchQuery{
		Niche:             "fitness",
		ProductCategory:   "exercise equipment",
		MinCommissionRate: 3.0,
		MinTrendingScore:  50.0,
		MaxResults:        10,
		PriceRange:        types.PriceRange{Min: 10, Max: 500},
	}
	rating := 4.5
	env := types.ResultEnvelope{
		Products: []types.Product{
			{
				Title:          "Adjustable Dumbbells Set Pro",
				Category:       "exercise equipment",
				Niche:          "fitness",
				Price:          189.99,
				CommissionRate: 3.0,
				Rating:         &rating,
				ResearchScore:  78.25,
				ExternalID:     "SAMPLE-0001",
				SourceName:     "test_data",
			},
		},
		SessionData: types.SessionData{
			SessionID:          "b2a1e6f0-0000-0000-0000-000000000000",
			TotalProductsFound: 12,
			ProductsReturned:   1,
			AverageScore:       78.25,
			APICallsMade:       1,
			APISources:         []string{"test_data"},
		},
	}

	require.NoError(t, WriteSessionFile(path, query, env))

	sf, err := ReadSessionFile(path)
	require.NoError(t, err)

	assert.Equal(t, query, sf.Query)
	assert.Equal(t, env.Products, sf.Result.Products)
	assert.Equal(t, env.SessionData.SessionID, sf.Result.SessionData.SessionID)
	assert.Equal(t, env.SessionData.APISources, sf.Result.SessionData.APISources)
	assert.False(t, sf.Timestamp.IsZero())
}

func TestWriteSessionFileCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "sessions", "run.yaml")

	err := WriteSessionFile(path, types.ResearchQuery{Niche: "tech"}, types.ResultEnvelope{})
	require.NoError(t, err)

	_, err = ReadSessionFile(path)
	assert.NoError(t, err)
}

func TestReadSessionFileMissing(t *testing.T) {
	_, err := ReadSessionFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading session file")
}

func TestReadSessionFileMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{not yaml"), 0o644))

	_, err := ReadSessionFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing session file")
}

func TestSessionFileName(t *testing.T) {
	name := SessionFileName("sessions", "Home Fitness / Gear")
	assert.True(t, strings.HasPrefix(name, filepath.Join("sessions", "home-fitness---gear-")))
	assert.True(t, strings.HasSuffix(name, ".yaml"))
}

func TestSanitizeSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"fitness", "fitness"},
		{"Home Decor", "home-decor"},
		{"a/b\\c_d", "a-b-c-d"},
		{"Tech2024", "tech2024"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeSlug(tt.in), "sanitizeSlug(%q)", tt.in)
	}
}
