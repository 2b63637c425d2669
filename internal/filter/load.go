package filter

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// LoadPatterns reads a JSONC file holding an array of glob patterns.
func LoadPatterns(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is from user-supplied config
	if err != nil {
		return nil, fmt.Errorf("reading patterns file %q: %w", path, err)
	}

	var patterns []string
	if err := json.Unmarshal(jsonc.ToJSONInPlace(data), &patterns); err != nil {
		return nil, fmt.Errorf("parsing patterns file %q: %w", path, err)
	}

	return patterns, nil
}

// Build merges CLI patterns with pattern files into a Selection.
func Build(includes, excludes []string, includeFrom, excludeFrom string) (Selection, error) {
	sel := Selection{
		Includes:    append([]string{}, includes...),
		Excludes:    append([]string{}, excludes...),
		HasIncludes: len(includes) > 0 || includeFrom != "",
	}

	if includeFrom != "" {
		patterns, err := LoadPatterns(includeFrom)
		if err != nil {
			return sel, fmt.Errorf("loading include patterns: %w", err)
		}

		sel.Includes = append(sel.Includes, patterns...)
	}

	if excludeFrom != "" {
		patterns, err := LoadPatterns(excludeFrom)
		if err != nil {
			return sel, fmt.Errorf("loading exclude patterns: %w", err)
		}

		sel.Excludes = append(sel.Excludes, patterns...)
	}

	return sel, nil
}
