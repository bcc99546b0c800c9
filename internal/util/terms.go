package util

import (
	"regexp"
	"strings"
)

// Matcher matches a fixed list of terms against text, case-insensitively
type Matcher struct {
	terms    []string
	patterns []*regexp.Regexp
}

// NewMatcher compiles terms into whole-word patterns: "but" does not match
// "button", and a plain "s" or "es" plural is accepted. Other inflections
// must be listed as terms of their own. Empty terms are skipped.
func NewMatcher(terms []string) *Matcher {
	m := &Matcher{}
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		expr := `(?i)(^|[^\pL\pN])` + regexp.QuoteMeta(term) + `(s|es)?($|[^\pL\pN])`
		m.terms = append(m.terms, term)
		m.patterns = append(m.patterns, regexp.MustCompile(expr))
	}
	return m
}

// Match returns the first term found in text, or "" when none matches
func (m *Matcher) Match(text string) string {
	for i, re := range m.patterns {
		if re.MatchString(text) {
			return m.terms[i]
		}
	}
	return ""
}

// MatchAll returns every term found in text, in term order
func (m *Matcher) MatchAll(text string) []string {
	var found []string
	for i, re := range m.patterns {
		if re.MatchString(text) {
			found = append(found, m.terms[i])
		}
	}
	return found
}

// Len returns the number of compiled terms
func (m *Matcher) Len() int {
	return len(m.terms)
}

// CompilePatterns compiles case-insensitive regular expressions and
// returns the first compile error encountered
func CompilePatterns(exprs []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

// Terms returns a copy of the compiled terms
func (m *Matcher) Terms() []string {
	return append([]string(nil), m.terms...)
}
