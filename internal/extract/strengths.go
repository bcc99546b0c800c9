// Package extract curates the positive statements shown in each category's
// strengths block.
package extract

import (
	"fmt"
	"regexp"

	"github.com/ppiankov/npo/internal/model"
	"github.com/ppiankov/npo/internal/util"
)

// Rejection reasons reported by Assess
const (
	ReasonAccepted          = "accepted"
	ReasonAbsenceOfNegative = "absence-of-negative"
	ReasonNeutral           = "neutral"
	ReasonQualified         = "qualified"
	ReasonNotPositive       = "not-positive"
)

// StrengthCurator keeps only unconditional positive statements
type StrengthCurator struct {
	positive   *util.Matcher
	neutral    *util.Matcher
	qualifiers *util.Matcher
	absence    []*regexp.Regexp
}

// NewStrengthCurator compiles the strength rule set
func NewStrengthCurator(rules model.StrengthRules) (*StrengthCurator, error) {
	absence, err := util.CompilePatterns(rules.AbsenceOfNegative)
	if err != nil {
		return nil, fmt.Errorf("absence-of-negative pattern: %w", err)
	}
	return &StrengthCurator{
		positive:   util.NewMatcher(rules.Positive),
		neutral:    util.NewMatcher(rules.Neutral),
		qualifiers: util.NewMatcher(rules.Qualifiers),
		absence:    absence,
	}, nil
}

// Assess decides whether one sentence is a valid strength
func (c *StrengthCurator) Assess(sentence string) (bool, string) {
	for _, re := range c.absence {
		if re.MatchString(sentence) {
			return false, ReasonAbsenceOfNegative
		}
	}
	if c.neutral.Match(sentence) != "" {
		return false, ReasonNeutral
	}
	if c.qualifiers.Match(sentence) != "" {
		return false, ReasonQualified
	}
	if c.positive.Match(sentence) == "" {
		return false, ReasonNotPositive
	}
	return true, ReasonAccepted
}

// Curate builds the strengths block for one category from its strength
// fragments. An empty block is a valid result.
func (c *StrengthCurator) Curate(fragments []model.SourceFragment) model.StrengthBlock {
	var block model.StrengthBlock
	index := make(map[string]int)

	for _, f := range fragments {
		if f.Kind != model.KindStrength {
			continue
		}
		for _, sentence := range util.SplitSentences(f.Text) {
			if ok, _ := c.Assess(sentence); !ok {
				continue
			}

			// The same strength reported by several documents is listed once
			key := util.NormalizeKey(sentence)
			if i, seen := index[key]; seen {
				s := &block.Statements[i]
				s.Sources = util.AppendUnique(s.Sources, f.Document)
				s.Fragments = util.AppendUnique(s.Fragments, f.ID)
				continue
			}
			index[key] = len(block.Statements)
			block.Statements = append(block.Statements, model.Clause{
				Text:      sentence,
				Sources:   util.AppendUnique(nil, f.Document),
				Fragments: []string{f.ID},
			})
		}
	}

	return block
}
