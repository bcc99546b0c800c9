package model

// Severity of a validator finding
type Severity string

const (
	SeverityCritical Severity = "CRITICAL" // Gates release of the artifact
	SeverityStandard Severity = "STANDARD" // Advisory
)

// Rule names the validator check that produced a finding
type Rule string

const (
	RuleHallucination  Rule = "hallucination"
	RulePlaceholder    Rule = "placeholder"
	RuleCitation       Rule = "citation"
	RuleAnonymization  Rule = "anonymization"
	RuleMinimumContent Rule = "minimum-content"
	RuleOutcomeDrift   Rule = "outcome-drift"
	RuleLossless       Rule = "lossless"
)

// Finding is one post-hoc observation about an assembled section
type Finding struct {
	Severity Severity `json:"severity"`
	Rule     Rule     `json:"rule"`
	Message  string   `json:"message"`
	Field    string   `json:"field"` // e.g. "Health Care Need 1"
}

// Findings is the validator output
type Findings []Finding

// Count returns the number of findings with the given severity
func (f Findings) Count(severity Severity) int {
	n := 0
	for _, finding := range f {
		if finding.Severity == severity {
			n++
		}
	}
	return n
}

// Blocking reports whether any finding must gate release
func (f Findings) Blocking() bool {
	return f.Count(SeverityCritical) > 0
}
