package util

import (
	"strings"
	"unicode"
)

var typographic = strings.NewReplacer(
	"‘", "'", "’", "'", "“", `"`, "”", `"`,
	"–", "-", "—", "-", "\u00a0", " ",
)

// NormalizeKey folds case, typographic punctuation and whitespace, and drops
// trailing punctuation, so near-identical renderings share one key
func NormalizeKey(s string) string {
	s = typographic.Replace(strings.ToLower(s))
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
}

// Tokens returns the distinct lower-cased word tokens of s
func Tokens(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ':' && r != '%'
	}) {
		tokens[f] = true
	}
	return tokens
}

// Jaccard returns the token overlap of a and b in [0,1]
func Jaccard(a, b string) float64 {
	ta, tb := Tokens(a), Tokens(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1
	}
	inter := 0
	for t := range ta {
		if tb[t] {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

// DedupeFold removes case-insensitive duplicates, keeping first-seen order and spelling
func DedupeFold(values []string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, v)
	}
	return unique
}

// AppendUnique appends values not already present, preserving order
func AppendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found && v != "" {
			dst = append(dst, v)
		}
	}
	return dst
}

// SplitSentences splits text on sentence terminators followed by whitespace
func SplitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// TrimClause trims whitespace and trailing sentence punctuation
func TrimClause(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ".;, ")
}

// Capitalize upper-cases the first letter of s
func Capitalize(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}
