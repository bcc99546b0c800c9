package render

import (
	"regexp"
	"strings"
)

var (
	fieldLine  = regexp.MustCompile(`^\*\*(.+?):\*\*(.*)$`)
	keyInvalid = regexp.MustCompile(`[^\pL\pN_]`)
	keyRepeat  = regexp.MustCompile(`__+`)
)

// ParseFields extracts every "**Key:** value" field of a rendered section.
// A value runs until the next field, heading or horizontal rule, so ordered
// lists and strength bullets stay attached to their field. Keys are
// sanitised, e.g. "Health Care Need 1" becomes "health_care_need_1".
func ParseFields(markdown string) map[string]string {
	fields := make(map[string]string)

	var (
		key   string
		value []string
	)
	flush := func() {
		if key != "" {
			fields[key] = strings.TrimSpace(strings.Join(value, "\n"))
		}
		key, value = "", nil
	}

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := fieldLine.FindStringSubmatch(trimmed); m != nil {
			flush()
			key = SanitiseKey(m[1])
			value = []string{strings.TrimSpace(m[2])}
			continue
		}
		if strings.HasPrefix(trimmed, "#") || trimmed == "---" {
			flush()
			continue
		}
		if key != "" {
			value = append(value, trimmed)
		}
	}
	flush()
	return fields
}

// SanitiseKey lower-cases a field label and reduces it to word characters
// joined by single underscores
func SanitiseKey(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	key = strings.NewReplacer(" ", "_", "-", "_", "'s", "", "’s", "").Replace(key)
	key = keyInvalid.ReplaceAllString(key, "")
	return keyRepeat.ReplaceAllString(key, "_")
}
