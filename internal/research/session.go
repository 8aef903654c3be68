// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/affiliate-research/pkg/types"
)

// SessionFile is the on-disk representation of a completed research run.
// The researcher can save a run to a file and reload it later without
// re-querying APIs.
type SessionFile struct {
	Query     types.ResearchQuery  `yaml:"query"`
	Result    types.ResultEnvelope `yaml:"result"`
	Timestamp time.Time            `yaml:"timestamp"`
}

// WriteSessionFile saves the query and its result envelope to a YAML file,
// creating parent directories as needed.
func WriteSessionFile(path string, query types.ResearchQuery, env types.ResultEnvelope) error {
	sf := SessionFile{
		Query:     query,
		Result:    env,
		Timestamp: time.Now().UTC(),
	}

	data, err := yaml.Marshal(sf)
	if err != nil {
		return fmt.Errorf("encoding session file: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating session directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// ReadSessionFile loads a previously saved session.
func ReadSessionFile(path string) (*SessionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var sf SessionFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing session file %s: %w", path, err)
	}
	return &sf, nil
}

// SessionFileName builds a timestamped file name for a niche under dir.
func SessionFileName(dir, niche string) string {
	stamp := time.Now().UTC().Format("20060102-150405")
	return filepath.Join(dir, fmt.Sprintf("%s-%s.yaml", sanitizeSlug(niche), stamp))
}

// sanitizeSlug lowercases and replaces path-hostile characters so a niche
// string is safe in a file name.
func sanitizeSlug(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ' || r == '/' || r == '\\' || r == '_':
			out = append(out, '-')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
