// Package taxonomy maps need statements to exactly one of the six categories
// using the category-assignment rule table.
package taxonomy

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/npo/internal/model"
	"github.com/ppiankov/npo/internal/util"
)

// Resolver classifies fragments into categories
type Resolver struct {
	scopes         []*scope
	disambiguation []*tieBreak
}

type scope struct {
	category model.Category
	keywords *util.Matcher
	patterns []*regexp.Regexp
}

type tieBreak struct {
	between map[model.Category]bool
	choose  model.Category
	when    *util.Matcher
}

// NewResolver compiles the taxonomy and disambiguation tables
func NewResolver(rules []model.CategoryRule, disambiguation []model.DisambiguationRule) (*Resolver, error) {
	r := &Resolver{}

	byCategory := make(map[model.Category]*scope)
	for _, rule := range rules {
		if !rule.Category.Valid() {
			return nil, fmt.Errorf("taxonomy rule: invalid category %d", int(rule.Category))
		}
		patterns, err := util.CompilePatterns(rule.Patterns)
		if err != nil {
			return nil, fmt.Errorf("taxonomy rule %s: %w", rule.Category, err)
		}
		// Several rules for one category extend the same scope
		s, ok := byCategory[rule.Category]
		if !ok {
			s = &scope{category: rule.Category}
			byCategory[rule.Category] = s
		}
		s.keywords = util.NewMatcher(append(termsOf(s.keywords), rule.Keywords...))
		s.patterns = append(s.patterns, patterns...)
	}
	for _, c := range model.Categories() {
		if s, ok := byCategory[c]; ok {
			r.scopes = append(r.scopes, s)
		}
	}

	for _, rule := range disambiguation {
		if len(rule.Between) < 2 {
			return nil, fmt.Errorf("disambiguation rule for %s needs at least two categories", rule.Choose)
		}
		tb := &tieBreak{
			between: make(map[model.Category]bool),
			choose:  rule.Choose,
			when:    util.NewMatcher(rule.When),
		}
		for _, c := range rule.Between {
			tb.between[c] = true
		}
		if !tb.between[rule.Choose] {
			return nil, fmt.Errorf("disambiguation rule chooses %s outside its categories", rule.Choose)
		}
		r.disambiguation = append(r.disambiguation, tb)
	}

	return r, nil
}

// Candidates returns every category whose scope matches text, in category order
func (r *Resolver) Candidates(text string) []model.Category {
	var out []model.Category
	for _, s := range r.scopes {
		if s.matches(text) {
			out = append(out, s.category)
		}
	}
	return out
}

// Resolve assigns one category to a fragment or a cluster of fragments
// describing one observation. It never returns more than one category.
//
// The need statements of a cluster decide its category; who delivers the
// provision does not. The whole cluster is consulted only when it has no need
// fragment, or when its needs match no scope and carry no category label.
func (r *Resolver) Resolve(id string, fragments []model.SourceFragment) (model.Category, error) {
	subject := subjectMatter(fragments)
	text := searchable(subject)
	candidates := r.Candidates(text)

	if len(candidates) == 0 {
		if labelled, ok := hint(fragments, model.Categories()); ok {
			return labelled, nil
		}
		if len(subject) < len(fragments) {
			text = searchable(fragments)
			candidates = r.Candidates(text)
		}
	}

	switch len(candidates) {
	case 0:
		return 0, &model.UnclassifiedError{Fragment: id}
	case 1:
		return candidates[0], nil
	}

	for _, tb := range r.disambiguation {
		if tb.covers(candidates) && (tb.when.Len() == 0 || tb.when.Match(text) != "") {
			return tb.choose, nil
		}
	}

	if hinted, ok := hint(fragments, candidates); ok {
		return hinted, nil
	}

	return 0, &model.AmbiguousCategoryError{Fragment: id, Candidates: candidates}
}

// subjectMatter returns the need fragments of a cluster, or every fragment
// when the cluster states no need
func subjectMatter(fragments []model.SourceFragment) []model.SourceFragment {
	var needs []model.SourceFragment
	for _, f := range fragments {
		if f.Kind == model.KindNeed {
			needs = append(needs, f)
		}
	}
	if len(needs) == 0 {
		return fragments
	}
	return needs
}

func searchable(fragments []model.SourceFragment) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		parts = append(parts, f.Searchable())
	}
	return strings.Join(parts, " ")
}

func (s *scope) matches(text string) bool {
	if s.keywords != nil && s.keywords.Match(text) != "" {
		return true
	}
	for _, re := range s.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// covers reports whether the rule lists exactly the candidate set
func (tb *tieBreak) covers(candidates []model.Category) bool {
	if len(candidates) != len(tb.between) {
		return false
	}
	for _, c := range candidates {
		if !tb.between[c] {
			return false
		}
	}
	return true
}

// hint returns the upstream category label when all labelled fragments agree
// and the label is one of the allowed categories
func hint(fragments []model.SourceFragment, candidates []model.Category) (model.Category, bool) {
	var chosen model.Category
	found := false
	for _, f := range fragments {
		if f.CategoryHint == "" {
			continue
		}
		c, err := model.ParseCategory(f.CategoryHint)
		if err != nil {
			continue
		}
		if found && c != chosen {
			return 0, false
		}
		chosen, found = c, true
	}
	if !found {
		return 0, false
	}
	for _, c := range candidates {
		if c == chosen {
			return chosen, true
		}
	}
	return 0, false
}

func termsOf(m *util.Matcher) []string {
	if m == nil {
		return nil
	}
	return m.Terms()
}
