package render

import (
	"strings"
	"testing"

	"github.com/ppiankov/npo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func one(text string, sources ...string) model.Statement {
	return model.Statement{Clauses: []model.Clause{{Text: text, Sources: sources}}}
}

func sanctioned(text, directive string) model.Statement {
	return model.Statement{Clauses: []model.Clause{{Text: text, Directive: directive}}}
}

func sampleArtifact() *model.SectionArtifact {
	a := model.NewSectionArtifact(model.Subject{Name: "Maya", Gender: model.GenderFemale})

	ci := a.Block(model.CommunicationInteraction)
	ci.Strengths.Statements = []model.Clause{{Text: "Maya enjoys sharing stories.", Sources: []string{"salt.pdf.txt"}}}
	ci.Triples = []model.Triple{{
		Need:      model.NeedEntry{Index: 1, Description: one("Maya has limited expressive vocabulary.", "salt.pdf.txt")},
		Provision: &model.ProvisionEntry{Index: 1, Text: model.Statement{Clauses: []model.Clause{
			{Text: "SALT recommended, 1:1, weekly, 30 minutes per session.", Sources: []string{"salt.pdf.txt", "school.docx.txt"}},
			{Text: "Word-aware vocabulary programme.", Sources: []string{"school.docx.txt"}},
		}}},
		Outcome: &model.OutcomeEntry{Index: 1, Text: one("Maya will use 50 new words by July 2026.", "salt.pdf.txt")},
	}}

	health := a.Block(model.HealthCare)
	health.Mode = model.ModeOverridden
	health.Directive = "health-no-needs"
	health.Triples = []model.Triple{{
		Need:      model.NeedEntry{Index: 1, Description: sanctioned("Maya has no identified needs for specialist health services at the current time.", "health-no-needs")},
		Provision: &model.ProvisionEntry{Index: 1, Text: sanctioned("Not applicable", "health-no-needs")},
		Outcome:   &model.OutcomeEntry{Index: 1, Text: sanctioned("Not applicable", "health-no-needs")},
	}}

	social := a.Block(model.SocialCare)
	social.Triples = []model.Triple{{
		Need: model.NeedEntry{Index: 1, Description: one("Maya needs help with bathing at home.", "ot.pdf.txt")},
		Provision: &model.ProvisionEntry{
			Index:        1,
			Statutory:    one("Level-access shower to be installed.", "ot.pdf.txt"),
			NonStatutory: model.Statement{},
		},
	}}
	return a
}

const sampleMarkdown = `## Needs, Provisions and Outcomes

### Communication and Interaction

**Communication and Interaction Strengths:**
- Maya enjoys sharing stories. [SOURCE: salt.pdf.txt]

**Communication and Interaction Need 1:** Maya has limited expressive vocabulary. [SOURCE: salt.pdf.txt]
**Communication and Interaction Provision 1:**
1. SALT recommended, 1:1, weekly, 30 minutes per session. [SOURCE: salt.pdf.txt, school.docx.txt]
2. Word-aware vocabulary programme. [SOURCE: school.docx.txt]
**Communication and Interaction Outcome 1:** Maya will use 50 new words by July 2026. [SOURCE: salt.pdf.txt]

### Cognition and Learning

**Cognition and Learning Strengths:**

### Social, Emotional and Mental Health

**Social, Emotional and Mental Health Strengths:**

### Sensory and/or Physical

**Sensory and/or Physical Strengths:**

### Health Care

**Health Care Strengths:**

**Health Care Need 1:** Maya has no identified needs for specialist health services at the current time.
**Health Care Provision 1:** Not applicable
**Health Care Outcome 1:** Not applicable

### Social Care

**Social Care Strengths:**

**Social Care Need 1:** Maya needs help with bathing at home. [SOURCE: ot.pdf.txt]
**Social Care Provision H1 1:** Level-access shower to be installed. [SOURCE: ot.pdf.txt]
**Social Care Provision H2 1:**
`

func TestMarkdown_Layout(t *testing.T) {
	got := NewRenderer(true).Markdown(sampleArtifact())
	assert.Equal(t, sampleMarkdown, got)
}

func TestMarkdown_Deterministic(t *testing.T) {
	r := NewRenderer(true)
	first := r.Markdown(sampleArtifact())
	for i := 0; i < 5; i++ {
		require.Equal(t, first, r.Markdown(sampleArtifact()))
	}
}

func TestMarkdown_NoTrailingIndices(t *testing.T) {
	got := NewRenderer(true).Markdown(sampleArtifact())
	assert.NotContains(t, got, "Need 2")
	assert.NotContains(t, got, "Provision 2")
	assert.NotContains(t, got, "Outcome 2")
}

func TestMarkdown_WithoutCitations(t *testing.T) {
	got := NewRenderer(false).Markdown(sampleArtifact())
	assert.NotContains(t, got, "[SOURCE:")
	assert.Equal(t, Clean(sampleMarkdown), got)
}

func TestJSON(t *testing.T) {
	data, err := JSON(sampleArtifact())
	require.NoError(t, err)

	s := string(data)
	assert.True(t, strings.HasSuffix(s, "\n"))
	assert.Contains(t, s, `"mode": "overridden"`)
	assert.Contains(t, s, `"category": "health_care"`)
	assert.Contains(t, s, `"directive": "health-no-needs"`)
}
