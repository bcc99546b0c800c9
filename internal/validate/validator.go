// Package validate performs post-hoc static checks on an assembled section.
// It never mutates the artifact; it only reports findings.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/npo/internal/model"
	"github.com/ppiankov/npo/internal/util"
)

// DriftThreshold is the token overlap above which two distinct outcomes are
// reported as probable wording drift
const DriftThreshold = 0.8

var (
	placeholderToken = regexp.MustCompile(`\{[A-Za-z][A-Za-z0-9_]*\}`)
	numberToken      = regexp.MustCompile(`\d+(?:[.:/]\d+)*%?`)
)

// Validator checks an artifact against the corpus it was built from
type Validator struct {
	titles     []string
	directives map[string]model.Category
}

// NewValidator creates a validator for the given rule tables
func NewValidator(rules model.RulesConfig) *Validator {
	v := &Validator{
		titles:     rules.Anonymization.Titles,
		directives: make(map[string]model.Category),
	}
	for _, d := range rules.Overrides {
		v.directives[d.Name] = d.Category
	}
	return v
}

// field is one rendered clause together with its location
type field struct {
	label    string
	block    *model.CategoryBlock
	clause   model.Clause
	strength bool
}

// Validate runs every check and returns the findings in artifact order
func (v *Validator) Validate(artifact *model.SectionArtifact, corpus *model.Corpus) model.Findings {
	names := NewNameDetector(v.titles, corpus.Professionals)
	fragments := make(map[string]model.SourceFragment, len(corpus.Fragments))
	for _, f := range corpus.Fragments {
		fragments[f.ID] = f
	}

	var findings model.Findings
	for _, c := range model.Categories() {
		block := artifact.Block(c)
		findings = append(findings, v.checkMinimumContent(block)...)

		for _, f := range fieldsOf(block) {
			findings = append(findings, v.checkTrace(f, fragments)...)
			findings = append(findings, checkPlaceholders(f)...)
			findings = append(findings, checkCitation(f, fragments)...)
			findings = append(findings, checkAnonymity(f, names)...)
			findings = append(findings, checkLossless(f, fragments)...)
		}
	}
	findings = append(findings, checkOutcomeDrift(artifact)...)
	return findings
}

// fieldsOf flattens a block into labelled clauses in render order
func fieldsOf(block *model.CategoryBlock) []field {
	title := block.Category.Title()
	var out []field
	add := func(label string, stmt model.Statement) {
		for _, c := range stmt.Clauses {
			out = append(out, field{label: label, block: block, clause: c})
		}
	}

	for _, s := range block.Strengths.Statements {
		out = append(out, field{label: title + " Strengths", block: block, clause: s, strength: true})
	}
	for _, t := range block.Triples {
		add(fmt.Sprintf("%s Need %d", title, t.Need.Index), t.Need.Description)
		if p := t.Provision; p != nil {
			add(fmt.Sprintf("%s Provision %d", title, p.Index), p.Text)
			add(fmt.Sprintf("%s Provision H1 %d", title, p.Index), p.Statutory)
			add(fmt.Sprintf("%s Provision H2 %d", title, p.Index), p.NonStatutory)
		}
		if o := t.Outcome; o != nil {
			add(fmt.Sprintf("%s Outcome %d", title, o.Index), o.Text)
		}
	}
	return out
}

// checkTrace flags clauses that trace to neither a fragment nor the active override
func (v *Validator) checkTrace(f field, fragments map[string]model.SourceFragment) model.Findings {
	if f.clause.Directive != "" {
		category, known := v.directives[f.clause.Directive]
		switch {
		case !known:
			return critical(model.RuleHallucination, f.label, "text attributed to unknown override %q", f.clause.Directive)
		case category != f.block.Category:
			return critical(model.RuleHallucination, f.label, "override %q belongs to %s", f.clause.Directive, category.Title())
		case f.block.Mode != model.ModeOverridden || f.block.Directive != f.clause.Directive:
			return critical(model.RuleHallucination, f.label, "override %q is not active for this category", f.clause.Directive)
		}
		return nil
	}
	if f.block.Mode == model.ModeOverridden && !f.strength {
		return critical(model.RuleHallucination, f.label, "synthesized text inside a category governed by override %q", f.block.Directive)
	}

	var support []string
	for _, id := range f.clause.Fragments {
		if frag, ok := fragments[id]; ok {
			support = append(support, frag.Searchable())
		}
	}
	if len(support) == 0 {
		return critical(model.RuleHallucination, f.label, "no source fragment supports %q", f.clause.Text)
	}

	// Every figure in the clause must come from a supporting fragment
	evidence := strings.Join(support, " ")
	var findings model.Findings
	for _, n := range numberToken.FindAllString(f.clause.Text, -1) {
		if !strings.Contains(evidence, strings.ToLower(n)) {
			findings = append(findings, critical(model.RuleHallucination, f.label, "figure %q does not appear in its sources", n)...)
		}
	}
	return findings
}

func checkPlaceholders(f field) model.Findings {
	var findings model.Findings
	for _, token := range placeholderToken.FindAllString(f.clause.Text, -1) {
		findings = append(findings, critical(model.RulePlaceholder, f.label, "unresolved placeholder %s", token)...)
	}
	return findings
}

// checkCitation compares the declared documents with the documents of the
// supporting fragments and names the correct ones on mismatch
func checkCitation(f field, fragments map[string]model.SourceFragment) model.Findings {
	if f.clause.Directive != "" {
		return nil
	}
	var origin []string
	for _, id := range f.clause.Fragments {
		if frag, ok := fragments[id]; ok {
			origin = util.AppendUnique(origin, frag.Document)
		}
	}
	if len(origin) == 0 || sameSet(origin, f.clause.Sources) {
		return nil
	}
	return standard(model.RuleCitation, f.label, "cited %s, but the text originates from %s",
		describe(f.clause.Sources), strings.Join(origin, ", "))
}

func checkAnonymity(f field, names *NameDetector) model.Findings {
	var findings model.Findings
	for _, name := range names.Detect(f.clause.Text) {
		findings = append(findings, critical(model.RuleAnonymization, f.label, "professional referred to by name (%s); use role or department", name)...)
	}
	return findings
}

// checkLossless flags annotation values of supporting fragments that the
// clause no longer states
func checkLossless(f field, fragments map[string]model.SourceFragment) model.Findings {
	if f.clause.Directive != "" {
		return nil
	}
	text := strings.ToLower(f.clause.Text)
	var findings model.Findings
	for _, id := range f.clause.Fragments {
		frag, ok := fragments[id]
		if !ok {
			continue
		}
		for _, value := range frag.Modifiers().Values() {
			if !strings.Contains(text, strings.ToLower(util.TrimClause(value))) {
				findings = append(findings, standard(model.RuleLossless, f.label, "detail %q from %s is missing", value, frag.Document)...)
			}
		}
	}
	return findings
}

func (v *Validator) checkMinimumContent(block *model.CategoryBlock) model.Findings {
	if !block.IsEmpty() || block.Fragments == 0 {
		return nil
	}
	label := block.Category.Title()
	if block.Failure != "" {
		return critical(model.RuleMinimumContent, label, "%d fragments were routed here but the category failed: %s", block.Fragments, block.Failure)
	}
	return critical(model.RuleMinimumContent, label, "%d fragments were routed here but nothing was rendered", block.Fragments)
}

// checkOutcomeDrift reports near-identical outcomes that did not reconcile
// to the same text
func checkOutcomeDrift(artifact *model.SectionArtifact) model.Findings {
	type outcome struct {
		label string
		text  string
	}
	var outcomes []outcome
	for _, c := range model.Categories() {
		block := artifact.Block(c)
		if block.Mode == model.ModeOverridden {
			continue
		}
		for _, t := range block.Triples {
			if t.Outcome != nil && !t.Outcome.Text.IsEmpty() {
				outcomes = append(outcomes, outcome{
					label: fmt.Sprintf("%s Outcome %d", c.Title(), t.Outcome.Index),
					text:  t.Outcome.Text.Text(),
				})
			}
		}
	}

	var findings model.Findings
	for i := range outcomes {
		for j := i + 1; j < len(outcomes); j++ {
			a, b := outcomes[i], outcomes[j]
			if util.NormalizeKey(a.text) == util.NormalizeKey(b.text) {
				continue
			}
			if util.Jaccard(a.text, b.text) >= DriftThreshold {
				findings = append(findings, standard(model.RuleOutcomeDrift, b.label, "near-identical to %s but worded differently", a.label)...)
			}
		}
	}
	return findings
}

func critical(rule model.Rule, label, format string, args ...any) model.Findings {
	return model.Findings{{Severity: model.SeverityCritical, Rule: rule, Field: label, Message: fmt.Sprintf(format, args...)}}
}

func standard(rule model.Rule, label, format string, args ...any) model.Findings {
	return model.Findings{{Severity: model.SeverityStandard, Rule: rule, Field: label, Message: fmt.Sprintf(format, args...)}}
}

func sameSet(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	other := make(map[string]bool, len(b))
	for _, s := range b {
		if !set[s] {
			return false
		}
		other[s] = true
	}
	return len(other) == len(set)
}

func describe(sources []string) string {
	if len(sources) == 0 {
		return "no document"
	}
	return strings.Join(sources, ", ")
}
