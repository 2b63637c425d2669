package logic

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/idelchi/modelseal/internal/config"
	"github.com/idelchi/modelseal/internal/filter"
	"github.com/idelchi/modelseal/pkg/pathmatch"
)

// ErrUnmatchedPatterns is returned by RunCheck when a pattern selects no file.
var ErrUnmatchedPatterns = errors.New("pattern(s) matched no files")

// RunCheck validates that every include/exclude pattern matches at least one file.
func RunCheck(cfg *config.Config, w io.Writer) error {
	sel, err := filter.Build(cfg.Include, cfg.Exclude, cfg.IncludeFrom, cfg.ExcludeFrom)
	if err != nil {
		return err
	}

	if len(sel.Includes) == 0 && len(sel.Excludes) == 0 {
		return errors.New("no include or exclude patterns to check")
	}

	candidates, err := collectFiles(cfg.Files)
	if err != nil {
		return err
	}

	failures := checkPatterns(w, "include", sel.Includes, candidates, cfg.Quiet) +
		checkPatterns(w, "exclude", sel.Excludes, candidates, cfg.Quiet)

	if failures > 0 {
		return fmt.Errorf("%d %w", failures, ErrUnmatchedPatterns)
	}

	return nil
}

// collectFiles walks all positional args and returns every file path found.
func collectFiles(args []string) ([]string, error) {
	var paths []string

	seen := make(map[string]struct{})

	add := func(path string) {
		clean := filepath.ToSlash(filepath.Clean(path))
		if _, ok := seen[clean]; !ok {
			seen[clean] = struct{}{}
			paths = append(paths, clean)
		}
	}

	for _, arg := range args {
		err := filepath.WalkDir(filepath.Clean(arg), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if !d.IsDir() {
				add(path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %q: %w", arg, err)
		}
	}

	return paths, nil
}

// checkPatterns tests each pattern individually against candidates.
// Returns the number of patterns that matched zero files.
func checkPatterns(w io.Writer, kind string, patterns, candidates []string, quiet bool) int {
	var failures int

	for _, pattern := range patterns {
		matcher, err := pathmatch.NewMatcher([]string{strings.TrimPrefix(pattern, "./")})
		if err != nil {
			fmt.Fprintf(w, "%s: %s: invalid pattern: %v\n", kind, pattern, err)

			failures++

			continue
		}

		var count int

		for _, path := range candidates {
			if matcher.MatchAny(path) {
				count++
			}
		}

		switch {
		case count == 0:
			fmt.Fprintf(w, "%s: %s: 0 files (ERROR)\n", kind, pattern)

			failures++
		case !quiet:
			fmt.Fprintf(w, "%s: %s: %d files\n", kind, pattern, count)
		}
	}

	return failures
}
