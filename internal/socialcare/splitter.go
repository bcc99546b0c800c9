// Package socialcare partitions Social Care provision into the statutory (H1)
// and non-statutory (H2) channels.
package socialcare

import (
	"github.com/ppiankov/npo/internal/model"
	"github.com/ppiankov/npo/internal/synth"
)

// Splitter classifies provision fragments by statutory basis
type Splitter struct {
	tags   []string
	engine *synth.Engine
}

// NewSplitter creates a splitter over the statutory tag table
func NewSplitter(rules model.StatutoryRules, engine *synth.Engine) *Splitter {
	return &Splitter{tags: rules.Tags, engine: engine}
}

// Statutory reports whether a fragment is explicitly tied to a recognised
// statutory basis. Anything else is non-statutory.
func (s *Splitter) Statutory(f model.SourceFragment) bool {
	return f.HasTag(s.tags)
}

// Split synthesizes the two channels of one Social Care provision. It
// returns nil when no provision fragment exists, so a provision is never
// emitted with both channels empty.
func (s *Splitter) Split(fragments []model.SourceFragment) *model.ProvisionEntry {
	var statutory, nonStatutory []model.SourceFragment
	for _, f := range fragments {
		if s.Statutory(f) {
			statutory = append(statutory, f)
		} else {
			nonStatutory = append(nonStatutory, f)
		}
	}

	entry := &model.ProvisionEntry{
		Statutory:    s.engine.Synthesize(statutory),
		NonStatutory: s.engine.Synthesize(nonStatutory),
	}
	if entry.Statutory.IsEmpty() && entry.NonStatutory.IsEmpty() {
		return nil
	}
	return entry
}
