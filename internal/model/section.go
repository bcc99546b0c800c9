package model

import (
	"fmt"
	"strings"
)

// Clause is one rendered statement with its provenance
type Clause struct {
	Text      string   `json:"text"`
	Sources   []string `json:"sources,omitempty"`   // Document identifiers, first-appearance order
	Fragments []string `json:"fragments,omitempty"` // Supporting fragment IDs
	Directive string   `json:"directive,omitempty"` // Override directive that sanctioned this text
}

// Statement is the value of one field; several clauses render as an ordered list
type Statement struct {
	Clauses []Clause `json:"clauses,omitempty"`
}

// IsEmpty reports whether the statement has no text
func (s Statement) IsEmpty() bool {
	for _, c := range s.Clauses {
		if strings.TrimSpace(c.Text) != "" {
			return false
		}
	}
	return true
}

// Text joins clause texts without citations (used for comparisons)
func (s Statement) Text() string {
	parts := make([]string, 0, len(s.Clauses))
	for _, c := range s.Clauses {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, "\n")
}

// NeedEntry is an indexed need inside one category
type NeedEntry struct {
	Index       int       `json:"index"`
	Key         string    `json:"key,omitempty"` // Upstream cluster key
	Description Statement `json:"description"`
}

// ProvisionEntry is linked to the need with the same index.
// Social Care uses Statutory/NonStatutory instead of Text.
type ProvisionEntry struct {
	Index        int       `json:"index"`
	Text         Statement `json:"text,omitempty"`
	Statutory    Statement `json:"statutory,omitempty"`
	NonStatutory Statement `json:"non_statutory,omitempty"`
}

// OutcomeEntry is linked to the need with the same index
type OutcomeEntry struct {
	Index int       `json:"index"`
	Key   string    `json:"key,omitempty"` // Dedup identity (recommendation key or normalised text)
	Text  Statement `json:"text"`
}

// Triple links a need to its optional provision and outcome
type Triple struct {
	Need      NeedEntry       `json:"need"`
	Provision *ProvisionEntry `json:"provision,omitempty"`
	Outcome   *OutcomeEntry   `json:"outcome,omitempty"`
}

// StrengthBlock lists validated positive statements for one category
type StrengthBlock struct {
	Statements []Clause `json:"statements,omitempty"`
}

// IsEmpty reports whether the block has no statements
func (b StrengthBlock) IsEmpty() bool {
	return len(b.Statements) == 0
}

// Mode is the per-category path decided once per run
type Mode int

const (
	ModeNormal Mode = iota
	ModeOverridden
)

func (m Mode) String() string {
	if m == ModeOverridden {
		return "overridden"
	}
	return "normal"
}

// MarshalText encodes the mode as a word
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode word
func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "normal":
		*m = ModeNormal
	case "overridden":
		*m = ModeOverridden
	default:
		return fmt.Errorf("unknown mode %q", text)
	}
	return nil
}

// CategoryBlock is the assembled content of one category
type CategoryBlock struct {
	Category  Category      `json:"category"`
	Mode      Mode          `json:"mode"`
	Directive string        `json:"directive,omitempty"` // Active override name when Mode is ModeOverridden
	Strengths StrengthBlock `json:"strengths"`
	Triples   []Triple      `json:"triples,omitempty"`
	Fragments int           `json:"fragments"`         // Fragments routed to this category
	Failure   string        `json:"failure,omitempty"` // Structural error that aborted this category
}

// IsEmpty reports whether nothing would render below the heading
func (b CategoryBlock) IsEmpty() bool {
	return b.Strengths.IsEmpty() && len(b.Triples) == 0
}

// SectionArtifact is the finished Needs, Provisions and Outcomes section.
// It holds no timestamps so identical inputs give identical artifacts.
type SectionArtifact struct {
	Subject Subject                      `json:"subject"`
	Blocks  [CategoryCount]CategoryBlock `json:"blocks"`
}

// NewSectionArtifact creates an artifact with every block keyed to its category
func NewSectionArtifact(subject Subject) *SectionArtifact {
	a := &SectionArtifact{Subject: subject}
	for _, c := range Categories() {
		a.Blocks[c] = CategoryBlock{Category: c}
	}
	return a
}

// Block returns the block of a category
func (a *SectionArtifact) Block(c Category) *CategoryBlock {
	return &a.Blocks[c]
}

