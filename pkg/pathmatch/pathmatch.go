// Package pathmatch matches slash-separated paths against find -path style globs.
//
// Unlike filepath.Match, wildcards cross directory separators:
//   - * matches any run of characters, including /
//   - ? matches a single character, including /
//   - [...] and [!...] match one character from (or outside) a set
//   - \ quotes the next character
package pathmatch

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

var (
	// ErrUnclosedClass is returned for a [ without a matching ].
	ErrUnclosedClass = errors.New("unclosed character class")
	// ErrTrailingEscape is returned for a pattern ending in a lone backslash.
	ErrTrailingEscape = errors.New("trailing backslash")
)

// Match reports whether path matches pattern.
func Match(pattern, path string) (bool, error) {
	re, err := compile(pattern)
	if err != nil {
		return false, err
	}

	return re.MatchString(path), nil
}

// Matcher holds a set of compiled patterns.
type Matcher struct {
	res []*regexp.Regexp
}

// NewMatcher compiles patterns for repeated matching.
func NewMatcher(patterns []string) (*Matcher, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}

		res = append(res, re)
	}

	return &Matcher{res: res}, nil
}

// MatchAny reports whether path matches at least one pattern.
func (m *Matcher) MatchAny(path string) bool {
	for _, re := range m.res {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

// Len returns the number of compiled patterns.
func (m *Matcher) Len() int {
	return len(m.res)
}

var compiled sync.Map //nolint:gochecknoglobals // process-wide cache of translated patterns

func compile(pattern string) (*regexp.Regexp, error) {
	if cached, ok := compiled.Load(pattern); ok {
		re, _ := cached.(*regexp.Regexp) //nolint:errcheck // only *regexp.Regexp is stored

		return re, nil
	}

	expr, err := translate(pattern)
	if err != nil {
		return nil, err
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}

	compiled.Store(pattern, re)

	return re, nil
}

// translate turns a glob into an anchored regular expression.
func translate(pattern string) (string, error) {
	var out strings.Builder

	out.WriteString("^")

	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			out.WriteString(".*")
		case '?':
			out.WriteString(".")
		case '\\':
			if i+1 == len(pattern) {
				return "", fmt.Errorf("%w in pattern %q", ErrTrailingEscape, pattern)
			}

			i++
			out.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
		case '[':
			end := classEnd(pattern, i)
			if end < 0 {
				return "", fmt.Errorf("%w in pattern %q", ErrUnclosedClass, pattern)
			}

			class := pattern[i : end+1]
			if strings.HasPrefix(class, "[!") && len(class) > 3 {
				class = "[^" + class[2:]
			}

			out.WriteString(class)

			i = end
		default:
			out.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
		}
	}

	out.WriteString("$")

	return out.String(), nil
}

// classEnd returns the index of the ] closing the class opened at start, or -1.
// A ] directly after [ or [! is a literal member of the set.
func classEnd(pattern string, start int) int {
	i := start + 1

	if i < len(pattern) && pattern[i] == '!' {
		i++
	}

	if i < len(pattern) && pattern[i] == ']' {
		i++
	}

	if end := strings.IndexByte(pattern[i:], ']'); end >= 0 {
		return i + end
	}

	return -1
}
