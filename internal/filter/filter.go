// Package filter selects files based on include/exclude patterns using find -path semantics.
package filter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/idelchi/modelseal/internal/fileutil"
	"github.com/idelchi/modelseal/pkg/pathmatch"
)

// Filter selects files based on include/exclude patterns.
// Empty includes means "match all". Excludes always win.
type Filter struct {
	includes    *pathmatch.Matcher
	excludes    *pathmatch.Matcher
	hasIncludes bool
}

// Selection describes which files to pick up while walking directories.
type Selection struct {
	Includes []string
	Excludes []string
	// HasIncludes reports whether include filtering was requested, even with an empty list.
	HasIncludes bool
}

// NewFilter compiles the selection into a reusable filter.
func NewFilter(sel Selection) (*Filter, error) {
	inc, err := pathmatch.NewMatcher(normalizePatterns(sel.Includes))
	if err != nil {
		return nil, fmt.Errorf("compiling include patterns: %w", err)
	}

	exc, err := pathmatch.NewMatcher(normalizePatterns(sel.Excludes))
	if err != nil {
		return nil, fmt.Errorf("compiling exclude patterns: %w", err)
	}

	return &Filter{includes: inc, excludes: exc, hasIncludes: sel.HasIncludes}, nil
}

// Match reports whether the slash-separated path should be included.
func (f *Filter) Match(path string) bool {
	included := !f.hasIncludes || f.includes.MatchAny(path)

	return included && !f.excludes.MatchAny(path)
}

// normalizePatterns strips leading "./" from patterns so they match cleaned paths.
func normalizePatterns(patterns []string) []string {
	out := make([]string, len(patterns))

	for i, p := range patterns {
		out[i] = strings.TrimPrefix(p, "./")
	}

	return out
}

// Resolve expands positional args (files/directories) into a list of files.
// Files are added directly, bypassing filtering. Directories are walked and filtered.
// Returns matched files and total candidates scanned.
func Resolve(args []string, sel Selection) (files []string, scanned int, err error) {
	flt, err := NewFilter(sel)
	if err != nil {
		return nil, 0, err
	}

	seen := make(map[string]struct{})

	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}

		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, arg := range args {
		arg = filepath.Clean(arg)

		info, err := os.Stat(arg)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, scanned, fmt.Errorf("%w at %q", fileutil.ErrNotFound, arg)
		}

		if err != nil {
			return nil, scanned, fmt.Errorf("stat %q: %w", arg, err)
		}

		if !info.IsDir() {
			scanned++

			add(arg)

			continue
		}

		walked, total, err := walkDir(arg, flt)
		if err != nil {
			return nil, scanned, err
		}

		scanned += total

		for _, path := range walked {
			add(path)
		}
	}

	if len(files) == 0 {
		return nil, scanned, fmt.Errorf("no files matched the provided patterns: %v", args)
	}

	return files, scanned, nil
}

// walkDir walks root recursively, returning files that pass the filter.
func walkDir(root string, flt *Filter) (files []string, total int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		total++

		if flt.Match(filepath.ToSlash(filepath.Clean(path))) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("walking %q: %w", root, err)
	}

	return files, total, nil
}
