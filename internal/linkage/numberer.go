// Package linkage assigns need indices within a category, keeps provisions
// and outcomes aligned to them, and reconciles outcomes shared across
// categories.
package linkage

import (
	"fmt"

	"github.com/ppiankov/npo/internal/model"
	"github.com/ppiankov/npo/internal/util"
)

// Number assigns indices 1..k in identification order. Provisions and
// outcomes take the index of their need; empty ones are dropped rather than
// left partially indexed. An overridden block holds exactly one triple.
func Number(block *model.CategoryBlock, candidates []model.Triple) error {
	if len(candidates) > model.MaxNeeds {
		return &model.CategoryOverflowError{Category: block.Category, Count: len(candidates)}
	}
	if block.Mode == model.ModeOverridden && len(candidates) != 1 {
		return fmt.Errorf("%s: override path produced %d needs, want 1", block.Category, len(candidates))
	}

	var triples []model.Triple
	for i, c := range candidates {
		index := i + 1
		c.Need.Index = index

		if c.Provision != nil {
			p := *c.Provision
			if p.Text.IsEmpty() && p.Statutory.IsEmpty() && p.NonStatutory.IsEmpty() {
				c.Provision = nil
			} else {
				p.Index = index
				c.Provision = &p
			}
		}
		if c.Outcome != nil {
			o := *c.Outcome
			if o.Text.IsEmpty() {
				c.Outcome = nil
			} else {
				o.Index = index
				c.Outcome = &o
			}
		}
		triples = append(triples, c)
	}

	block.Triples = triples
	return nil
}

// Ref addresses one outcome in the artifact
type Ref struct {
	Category model.Category
	Index    int
}

func (r Ref) String() string {
	return fmt.Sprintf("%s Outcome %d", r.Category.Title(), r.Index)
}

// Merge records an outcome whose text was replaced by its canonical twin
type Merge struct {
	Outcome   Ref
	Canonical Ref
}

// DedupOutcomes runs once after every category is synthesized. Outcomes that
// share a recommendation key or normalise to the same text take the text of
// the first occurrence in category then index order, verbatim. Override
// outcomes are sanctioned text and are left alone.
func DedupOutcomes(artifact *model.SectionArtifact) []Merge {
	type canonical struct {
		ref  Ref
		text model.Statement
	}
	byKey := make(map[string]*canonical)
	byText := make(map[string]*canonical)

	var merges []Merge
	for _, c := range model.Categories() {
		block := artifact.Block(c)
		if block.Mode == model.ModeOverridden {
			continue
		}
		for i := range block.Triples {
			outcome := block.Triples[i].Outcome
			if outcome == nil || outcome.Text.IsEmpty() {
				continue
			}
			ref := Ref{Category: c, Index: outcome.Index}
			textKey := util.NormalizeKey(outcome.Text.Text())

			found := byText[textKey]
			if found == nil && outcome.Key != "" {
				found = byKey[outcome.Key]
			}
			if found == nil {
				entry := &canonical{ref: ref, text: outcome.Text}
				byText[textKey] = entry
				if outcome.Key != "" {
					byKey[outcome.Key] = entry
				}
				continue
			}

			outcome.Text = adopt(found.text, outcome.Text)
			if outcome.Key != "" && byKey[outcome.Key] == nil {
				byKey[outcome.Key] = found
			}
			merges = append(merges, Merge{Outcome: ref, Canonical: found.ref})
		}
	}
	return merges
}

// adopt copies the canonical clause texts and keeps the provenance of both
// statements, so every document either side cited stays cited
func adopt(canonical, own model.Statement) model.Statement {
	out := model.Statement{Clauses: make([]model.Clause, len(canonical.Clauses))}
	for i, c := range canonical.Clauses {
		clause := model.Clause{
			Text:      c.Text,
			Directive: c.Directive,
			Sources:   util.AppendUnique(nil, c.Sources...),
			Fragments: util.AppendUnique(nil, c.Fragments...),
		}
		if i < len(own.Clauses) {
			clause.Sources = util.AppendUnique(clause.Sources, own.Clauses[i].Sources...)
			clause.Fragments = util.AppendUnique(clause.Fragments, own.Clauses[i].Fragments...)
		}
		out.Clauses[i] = clause
	}
	return out
}
