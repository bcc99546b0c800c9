// Package override decides, once per category, whether a mandatory verbatim
// directive replaces normal synthesis, and resolves its placeholders.
package override

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/npo/internal/model"
	"github.com/ppiankov/npo/internal/util"
)

// Engine evaluates the override directive table
type Engine struct {
	directives map[model.Category][]*directive
}

type directive struct {
	model.OverrideDirective
	phrases *util.Matcher
}

// Activation is a directive whose trigger holds, with placeholders resolved
type Activation struct {
	Directive             string
	Category              model.Category
	Need                  string
	Provision             string
	ProvisionNonStatutory string
	Outcome               string
}

// NewEngine validates the directive table and orders it by priority.
// Directives with equal priority keep their table order.
func NewEngine(directives []model.OverrideDirective) (*Engine, error) {
	e := &Engine{directives: make(map[model.Category][]*directive)}

	for _, d := range directives {
		if !d.Category.Valid() {
			return nil, fmt.Errorf("override %q: invalid category %d", d.Name, int(d.Category))
		}
		if strings.TrimSpace(d.Need) == "" {
			return nil, fmt.Errorf("override %q: need text is required", d.Name)
		}
		switch d.Trigger.Kind {
		case model.TriggerNoNeeds:
		case model.TriggerPhrase:
			if len(d.Trigger.Phrases) == 0 {
				return nil, fmt.Errorf("override %q: phrase trigger without phrases", d.Name)
			}
		default:
			return nil, fmt.Errorf("override %q: unknown trigger kind %q", d.Name, d.Trigger.Kind)
		}
		e.directives[d.Category] = append(e.directives[d.Category], &directive{
			OverrideDirective: d,
			phrases:           util.NewMatcher(d.Trigger.Phrases),
		})
	}

	for _, list := range e.directives {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority < list[j].Priority
		})
	}
	return e, nil
}

// Evaluate inspects the fragments routed to one category. It returns nil when
// no directive fires, so the normal path proceeds. The first directive in
// priority order whose trigger holds wins; the rest are not consulted.
func (e *Engine) Evaluate(category model.Category, fragments []model.SourceFragment, subject model.Subject) (*Activation, error) {
	for _, d := range e.directives[category] {
		if !d.fires(fragments) {
			continue
		}
		return d.activate(subject)
	}
	return nil, nil
}

func (d *directive) fires(fragments []model.SourceFragment) bool {
	switch d.Trigger.Kind {
	case model.TriggerNoNeeds:
		for _, f := range fragments {
			if f.Kind == model.KindNeed {
				return false
			}
		}
		return true
	case model.TriggerPhrase:
		for _, f := range fragments {
			if d.phrases.Match(f.Searchable()) != "" {
				return true
			}
		}
	}
	return false
}

func (d *directive) activate(subject model.Subject) (*Activation, error) {
	pronouns, ok := subject.Gender.Pronouns()
	if !ok {
		return nil, &model.MissingPronounContextError{Subject: subject.Name, Directive: d.Name}
	}
	r := placeholders(subject.Name, pronouns)

	return &Activation{
		Directive:             d.Name,
		Category:              d.Category,
		Need:                  r.Replace(d.Need),
		Provision:             r.Replace(d.Provision),
		ProvisionNonStatutory: r.Replace(d.ProvisionNonStatutory),
		Outcome:               r.Replace(d.Outcome),
	}, nil
}

// Resolve fills the placeholder slots of a single template
func Resolve(template string, subject model.Subject) (string, error) {
	pronouns, ok := subject.Gender.Pronouns()
	if !ok {
		return "", &model.MissingPronounContextError{Subject: subject.Name}
	}
	return placeholders(subject.Name, pronouns).Replace(template), nil
}

func placeholders(name string, p model.Pronouns) *strings.Replacer {
	return strings.NewReplacer(
		"{name}", name,
		"{Name}", util.Capitalize(name),
		"{subjectPronoun}", p.Subject,
		"{SubjectPronoun}", util.Capitalize(p.Subject),
		"{possessivePronoun}", p.Possessive,
		"{PossessivePronoun}", util.Capitalize(p.Possessive),
	)
}

// Triple renders the activation as the single index-1 entry of its category.
// Social Care routes the two provision texts to the statutory and
// non-statutory channels.
func (a *Activation) Triple() model.Triple {
	triple := model.Triple{
		Need: model.NeedEntry{Index: 1, Description: a.statement(a.Need)},
	}

	provision := &model.ProvisionEntry{Index: 1}
	if a.Category == model.SocialCare {
		provision.Statutory = a.statement(a.Provision)
		provision.NonStatutory = a.statement(a.ProvisionNonStatutory)
	} else {
		provision.Text = a.statement(a.Provision)
	}
	if !provision.Text.IsEmpty() || !provision.Statutory.IsEmpty() || !provision.NonStatutory.IsEmpty() {
		triple.Provision = provision
	}

	if outcome := a.statement(a.Outcome); !outcome.IsEmpty() {
		triple.Outcome = &model.OutcomeEntry{Index: 1, Text: outcome}
	}
	return triple
}

func (a *Activation) statement(text string) model.Statement {
	if strings.TrimSpace(text) == "" {
		return model.Statement{}
	}
	return model.Statement{Clauses: []model.Clause{{Text: text, Directive: a.Directive}}}
}
