// Package render turns a finished section artifact into Markdown or JSON and
// post-processes rendered Markdown (citation stripping, field parsing).
package render

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/npo/internal/model"
)

// SectionHeading opens the rendered section
const SectionHeading = "## Needs, Provisions and Outcomes"

// Renderer emits the fixed six-category structure
type Renderer struct {
	citations bool
}

// NewRenderer creates a renderer. With citations off, clauses are rendered
// without their [SOURCE: ...] tags.
func NewRenderer(citations bool) *Renderer {
	return &Renderer{citations: citations}
}

// Markdown renders the artifact. Categories always appear in fixed order;
// each lists its strengths, then its triples up to the highest index.
func (r *Renderer) Markdown(a *model.SectionArtifact) string {
	var b strings.Builder

	b.WriteString(SectionHeading + "\n")
	for _, c := range model.Categories() {
		block := a.Block(c)
		title := c.Title()

		fmt.Fprintf(&b, "\n### %s\n\n", title)

		fmt.Fprintf(&b, "**%s Strengths:**\n", title)
		for _, s := range block.Strengths.Statements {
			fmt.Fprintf(&b, "- %s\n", r.clause(s))
		}

		for _, t := range block.Triples {
			b.WriteString("\n")
			r.field(&b, fmt.Sprintf("%s Need %d", title, t.Need.Index), t.Need.Description)

			if p := t.Provision; p != nil {
				if c == model.SocialCare {
					r.field(&b, fmt.Sprintf("%s Provision H1 %d", title, p.Index), p.Statutory)
					r.field(&b, fmt.Sprintf("%s Provision H2 %d", title, p.Index), p.NonStatutory)
				} else {
					r.field(&b, fmt.Sprintf("%s Provision %d", title, p.Index), p.Text)
				}
			}
			if o := t.Outcome; o != nil {
				r.field(&b, fmt.Sprintf("%s Outcome %d", title, o.Index), o.Text)
			}
		}
	}
	return b.String()
}

// field writes "**Key:** value"; several clauses become an ordered list
func (r *Renderer) field(b *strings.Builder, key string, stmt model.Statement) {
	switch len(stmt.Clauses) {
	case 0:
		fmt.Fprintf(b, "**%s:**\n", key)
	case 1:
		fmt.Fprintf(b, "**%s:** %s\n", key, r.clause(stmt.Clauses[0]))
	default:
		fmt.Fprintf(b, "**%s:**\n", key)
		for i, c := range stmt.Clauses {
			fmt.Fprintf(b, "%d. %s\n", i+1, r.clause(c))
		}
	}
}

// clause appends the citation tag. Override text is sanctioned and has no source.
func (r *Renderer) clause(c model.Clause) string {
	if !r.citations || c.Directive != "" || len(c.Sources) == 0 {
		return c.Text
	}
	return fmt.Sprintf("%s [SOURCE: %s]", c.Text, strings.Join(c.Sources, ", "))
}

// JSON encodes any report value with stable indentation
func JSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile writes rendered output, creating or truncating path
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
