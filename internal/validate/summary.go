package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/npo/internal/model"
)

// Counts of findings by severity, as read back from a feedback document
type Counts struct {
	Critical int `json:"critical"`
	Standard int `json:"standard"`
}

// Blocking reports whether any critical issue was counted
func (c Counts) Blocking() bool {
	return c.Critical > 0
}

// missingFeedback forces a re-check when feedback could not be produced
var missingFeedback = Counts{Critical: 99, Standard: 99}

var (
	summaryBlock = regexp.MustCompile(`(?s)\[FEEDBACK_SUMMARY\](.*?)\[END_FEEDBACK_SUMMARY\]`)
	summaryCount = regexp.MustCompile(`(\w+):\s*(\d+)`)
)

// Summary renders a feedback document: a machine-readable count block
// followed by one line per finding
func Summary(findings model.Findings) string {
	var b strings.Builder

	b.WriteString("[FEEDBACK_SUMMARY]\n")
	fmt.Fprintf(&b, "Critical: %d\n", findings.Count(model.SeverityCritical))
	fmt.Fprintf(&b, "Standard: %d\n", findings.Count(model.SeverityStandard))
	b.WriteString("[END_FEEDBACK_SUMMARY]\n")

	if len(findings) == 0 {
		b.WriteString("\nNo issues found.\n")
		return b.String()
	}

	b.WriteString("\n")
	for _, f := range findings {
		fmt.Fprintf(&b, "- %s [%s] %s: %s\n", f.Severity, f.Rule, f.Field, f.Message)
	}
	return b.String()
}

// ParseSummary reads the count block of a feedback document. Missing or
// empty feedback, or feedback that starts with "ERROR:", counts as 99
// critical issues. A document without a count block counts as clean.
func ParseSummary(feedback string) Counts {
	trimmed := strings.TrimSpace(feedback)
	if trimmed == "" || strings.HasPrefix(trimmed, "ERROR:") {
		return missingFeedback
	}

	var counts Counts
	m := summaryBlock.FindStringSubmatch(feedback)
	if m == nil {
		return counts
	}
	for _, pair := range summaryCount.FindAllStringSubmatch(m[1], -1) {
		n, err := strconv.Atoi(pair[2])
		if err != nil {
			continue
		}
		switch strings.ToLower(pair[1]) {
		case "critical":
			counts.Critical = n
		case "standard":
			counts.Standard = n
		}
	}
	return counts
}
