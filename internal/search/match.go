package search

import (
	"regexp"
	"strings"
)

// Matcher tests names for a whole-token, case-insensitive occurrence of a
// term. Token characters are ASCII letters, digits and underscore, so
// "gold" matches "Gold" and "Gold Ring" but not "Goldfish" or "gold_01".
type Matcher struct {
	term string
	re   *regexp.Regexp
}

// NewMatcher returns false for an empty or whitespace-only term.
func NewMatcher(term string) (*Matcher, bool) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, false
	}
	pattern := `(?i)(?:^|\W)` + regexp.QuoteMeta(term) + `(?:\W|$)`
	return &Matcher{term: term, re: regexp.MustCompile(pattern)}, true
}

func (m *Matcher) Term() string {
	return m.term
}

func (m *Matcher) Match(name string) bool {
	return m.re.MatchString(name)
}

// CacheKey is the normalised form of a term used to key cached results.
func CacheKey(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
