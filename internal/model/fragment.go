package model

import "strings"

// FragmentKind tells which part of the section a fragment feeds
type FragmentKind string

const (
	KindNeed      FragmentKind = "need"
	KindProvision FragmentKind = "provision"
	KindOutcome   FragmentKind = "outcome"
	KindStrength  FragmentKind = "strength"
)

// Annotation holds quantitative detail extracted upstream
type Annotation struct {
	Personnel string `json:"personnel,omitempty" yaml:"personnel,omitempty"` // Who delivers (e.g., "Speech and Language Therapist")
	Modality  string `json:"modality,omitempty" yaml:"modality,omitempty"`   // Grouping (e.g., "1:1", "small group")
	Frequency string `json:"frequency,omitempty" yaml:"frequency,omitempty"` // Cadence (e.g., "weekly")
	Duration  string `json:"duration,omitempty" yaml:"duration,omitempty"`   // Length (e.g., "30 minutes per session")
	Metric    string `json:"metric,omitempty" yaml:"metric,omitempty"`       // Measure or target (e.g., "80% accuracy by July 2026")
}

// IsZero reports whether no modifier is set
func (a Annotation) IsZero() bool {
	return a == Annotation{}
}

// Values returns every non-empty modifier in canonical order
func (a Annotation) Values() []string {
	var out []string
	for _, v := range []string{a.Personnel, a.Modality, a.Frequency, a.Duration, a.Metric} {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// SourceFragment is one unit of evidence taken from a professional document.
// Fragments are treated as immutable once loaded.
type SourceFragment struct {
	ID             string       `json:"id" yaml:"id"`
	Document       string       `json:"document" yaml:"document"` // Originating document identifier
	Text           string       `json:"text,omitempty" yaml:"text,omitempty"`
	Kind           FragmentKind `json:"kind" yaml:"kind"`
	Need           string       `json:"need,omitempty" yaml:"need,omitempty"`                     // Cluster key shared by fragments of one observation
	Recommendation string       `json:"recommendation,omitempty" yaml:"recommendation,omitempty"` // Groups pieces of one provision/outcome
	CategoryHint   string       `json:"category_hint,omitempty" yaml:"category_hint,omitempty"`   // Upstream professional's own labelling
	Tags           []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	Annotation     *Annotation  `json:"annotation,omitempty" yaml:"annotation,omitempty"`
}

// Modifiers returns the annotation, or a zero value when absent
func (f SourceFragment) Modifiers() Annotation {
	if f.Annotation == nil {
		return Annotation{}
	}
	return *f.Annotation
}

// HasTag reports whether any tag equals or contains one of the given phrases
func (f SourceFragment) HasTag(phrases []string) bool {
	for _, tag := range f.Tags {
		lower := strings.ToLower(strings.TrimSpace(tag))
		for _, p := range phrases {
			p = strings.ToLower(strings.TrimSpace(p))
			if p != "" && strings.Contains(lower, p) {
				return true
			}
		}
	}
	return false
}

// Searchable returns the lower-cased text and annotation values used for matching
func (f SourceFragment) Searchable() string {
	parts := append([]string{f.Text}, f.Modifiers().Values()...)
	return strings.ToLower(strings.Join(parts, " "))
}

// Subject identifies the child the section is written about
type Subject struct {
	Name   string `json:"name" yaml:"name"`
	Gender Gender `json:"gender" yaml:"gender"`
}

// Gender selects the pronoun set used by override templates
type Gender string

const (
	GenderFemale    Gender = "female"
	GenderMale      Gender = "male"
	GenderNonBinary Gender = "nonbinary"
	GenderUnknown   Gender = ""
)

// Pronouns holds the forms needed by templates
type Pronouns struct {
	Subject    string
	Possessive string
}

// Pronouns resolves the pronoun set; ok is false when gender is unknown
func (g Gender) Pronouns() (Pronouns, bool) {
	switch Gender(strings.ToLower(strings.TrimSpace(string(g)))) {
	case GenderFemale, "f", "girl":
		return Pronouns{Subject: "she", Possessive: "her"}, true
	case GenderMale, "m", "boy":
		return Pronouns{Subject: "he", Possessive: "his"}, true
	case GenderNonBinary, "non-binary", "they":
		return Pronouns{Subject: "they", Possessive: "their"}, true
	default:
		return Pronouns{}, false
	}
}

// Corpus is the full input to one run
type Corpus struct {
	Subject       Subject          `json:"subject" yaml:"subject"`
	Professionals []string         `json:"professionals,omitempty" yaml:"professionals,omitempty"` // Names that must never appear in output
	Fragments     []SourceFragment `json:"fragments" yaml:"fragments"`
}

// Fragment looks up a fragment by ID
func (c *Corpus) Fragment(id string) (SourceFragment, bool) {
	for _, f := range c.Fragments {
		if f.ID == id {
			return f, true
		}
	}
	return SourceFragment{}, false
}

// Documents returns the distinct document identifiers in first-appearance order
func (c *Corpus) Documents() []string {
	seen := make(map[string]bool)
	var docs []string
	for _, f := range c.Fragments {
		if f.Document != "" && !seen[f.Document] {
			seen[f.Document] = true
			docs = append(docs, f.Document)
		}
	}
	return docs
}
