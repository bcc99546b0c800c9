package render

import (
	"regexp"
	"strings"
)

var (
	citationTag      = regexp.MustCompile(`[ \t]*\[SOURCE:[^\]]*\]`)
	citationSources  = regexp.MustCompile(`\[SOURCE:\s*([^\]]*)\]`)
	documentDecorate = regexp.MustCompile(`^\d+_|\.pdf\.txt$|\.docx\.txt$`)
)

// Clean removes every citation tag, leaving the prose
func Clean(markdown string) string {
	return citationTag.ReplaceAllString(markdown, "")
}

// FactMapper shortens document names inside citation tags: numeric upload
// prefixes ("19_") and extracted-text suffixes (".pdf.txt", ".docx.txt")
// are dropped
func FactMapper(markdown string) string {
	return citationSources.ReplaceAllStringFunc(markdown, func(tag string) string {
		inner := citationSources.FindStringSubmatch(tag)[1]
		var names []string
		for _, name := range strings.Split(inner, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, documentDecorate.ReplaceAllString(name, ""))
			}
		}
		return "[SOURCE: " + strings.Join(names, ", ") + "]"
	})
}

// ShortName applies the fact-mapper shortening to a single document name
func ShortName(document string) string {
	return documentDecorate.ReplaceAllString(strings.TrimSpace(document), "")
}
