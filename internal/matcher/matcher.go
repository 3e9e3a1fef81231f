package matcher

import "regexp"

// Matcher reports which catalog names occur in a text as whole words.
// Duplicate catalog entries collapse to one pattern, so a single textual
// occurrence is never reported twice for the same name.
type Matcher struct {
	names    []string // distinct names, catalog order
	patterns []*regexp.Regexp
}

// New compiles a matcher for the given catalog snapshot. Each entry becomes a
// case-insensitive pattern with the entry text escaped literally and bounded
// by word boundaries on both sides.
func New(catalog []string) *Matcher {
	m := &Matcher{
		names:    make([]string, 0, len(catalog)),
		patterns: make([]*regexp.Regexp, 0, len(catalog)),
	}
	seen := make(map[string]struct{}, len(catalog))
	for _, name := range catalog {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		m.names = append(m.names, name)
		m.patterns = append(m.patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(name)+`\b`))
	}
	return m
}

// Match returns the subset of catalog names present in text, in catalog
// order. Empty text matches nothing. Entries are evaluated independently:
// overlapping catalog names ("O Soto Gari" and "O Soto Gari Gaeshi") are both
// reported for text containing the longer phrase.
func (m *Matcher) Match(text string) []string {
	if text == "" {
		return nil
	}
	var found []string
	for i, pattern := range m.patterns {
		if pattern.MatchString(text) {
			found = append(found, m.names[i])
		}
	}
	return found
}

// Size returns the number of distinct names in the compiled catalog.
func (m *Matcher) Size() int {
	return len(m.names)
}
