// Package synth merges scattered source fragments describing one provision or
// outcome into a single statement without dropping or inventing detail.
package synth

import (
	"strings"

	"github.com/ppiankov/npo/internal/model"
	"github.com/ppiankov/npo/internal/util"
)

// Engine performs lossless synthesis
type Engine struct {
	separator string
}

// NewEngine creates a synthesis engine
func NewEngine() *Engine {
	return &Engine{separator: ", "}
}

// Synthesize merges fragments into one statement. Fragments sharing a
// recommendation key are parts of one clause; distinct keys are separate
// recommendations and become separate clauses, in first-appearance order.
func (e *Engine) Synthesize(fragments []model.SourceFragment) model.Statement {
	var order []string
	groups := make(map[string][]model.SourceFragment)
	for _, f := range fragments {
		key := strings.TrimSpace(f.Recommendation)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], f)
	}

	var stmt model.Statement
	for _, key := range order {
		if clause, ok := e.Compose(groups[key]); ok {
			stmt.Clauses = append(stmt.Clauses, clause)
		}
	}
	return stmt
}

// Compose builds one clause: the core action followed by every modifier in
// canonical order (personnel, modality, frequency, duration, metric).
// Missing modifiers are left out, never inferred.
func (e *Engine) Compose(fragments []model.SourceFragment) (model.Clause, bool) {
	var (
		actions, personnel, modality, frequency, duration, metric []string
		clause                                                    model.Clause
	)

	for _, f := range fragments {
		if text := util.TrimClause(f.Text); text != "" {
			actions = append(actions, text)
		}
		m := f.Modifiers()
		personnel = append(personnel, m.Personnel)
		modality = append(modality, m.Modality)
		frequency = append(frequency, m.Frequency)
		duration = append(duration, m.Duration)
		metric = append(metric, m.Metric)

		clause.Sources = util.AppendUnique(clause.Sources, f.Document)
		clause.Fragments = util.AppendUnique(clause.Fragments, f.ID)
	}

	action := strings.Join(util.DedupeFold(actions), "; ")
	segments := []string{}
	if action != "" {
		segments = append(segments, action)
	}
	for _, role := range [][]string{personnel, modality, frequency, duration, metric} {
		if value := joinRole(role, action); value != "" {
			segments = append(segments, value)
		}
	}
	if len(segments) == 0 {
		return model.Clause{}, false
	}

	clause.Text = util.Capitalize(strings.Join(segments, e.separator)) + "."
	return clause, true
}

// joinRole merges the distinct values of one modifier role. Values already
// stated verbatim in the action are not repeated.
func joinRole(values []string, action string) string {
	lowerAction := strings.ToLower(action)
	trimmed := make([]string, 0, len(values))
	for _, v := range values {
		trimmed = append(trimmed, util.TrimClause(v))
	}
	var keep []string
	for _, v := range util.DedupeFold(trimmed) {
		if strings.Contains(lowerAction, strings.ToLower(v)) {
			continue
		}
		keep = append(keep, v)
	}
	return strings.Join(keep, " and ")
}
