package validate

import (
	"regexp"
	"strings"
)

// NameDetector finds professionals referred to by personal name instead of
// role or department
type NameDetector struct {
	titleMap      map[string]bool
	titled        *regexp.Regexp
	professionals []*compiledName
}

type compiledName struct {
	pattern *regexp.Regexp
	name    string
}

// NewNameDetector builds a detector from the honorific table and the names of
// the professionals who authored the corpus
func NewNameDetector(titles []string, professionals []string) *NameDetector {
	d := &NameDetector{titleMap: make(map[string]bool)}

	// Build title map
	var quoted []string
	for _, title := range titles {
		title = strings.TrimSuffix(strings.TrimSpace(title), ".")
		if title == "" || d.titleMap[strings.ToLower(title)] {
			continue
		}
		d.titleMap[strings.ToLower(title)] = true
		quoted = append(quoted, regexp.QuoteMeta(title))
	}

	// Title, optional full stop, then a capitalised word
	if len(quoted) > 0 {
		d.titled = regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\.?\s+(\p{Lu}[\p{L}'-]+)`)
	}

	// Compile professional names; each part of a full name is checked on its own
	for _, name := range professionals {
		for _, part := range strings.Fields(name) {
			part = strings.Trim(part, ".,")
			if len([]rune(part)) < 2 || d.titleMap[strings.ToLower(part)] {
				continue
			}
			d.professionals = append(d.professionals, &compiledName{
				pattern: regexp.MustCompile(`(^|[^\pL])` + regexp.QuoteMeta(part) + `($|[^\pL])`),
				name:    part,
			})
		}
	}

	return d
}

// Detect returns the personal names found in text, in order of discovery
func (d *NameDetector) Detect(text string) []string {
	var found []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			found = append(found, name)
		}
	}

	// Check titled names ("Dr Patel", "Mrs. Jones")
	if d.titled != nil {
		for _, m := range d.titled.FindAllStringSubmatch(text, -1) {
			add(m[1] + " " + m[2])
		}
	}

	// Check known professional names
	for _, cn := range d.professionals {
		if cn.pattern.MatchString(text) {
			add(cn.name)
		}
	}

	return found
}
