package extract

import (
	"testing"

	"github.com/ppiankov/npo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCurator(t *testing.T) *StrengthCurator {
	t.Helper()
	c, err := NewStrengthCurator(model.DefaultRules().Strengths)
	require.NoError(t, err)
	return c
}

func strength(id, doc, text string) model.SourceFragment {
	return model.SourceFragment{ID: id, Document: doc, Text: text, Kind: model.KindStrength}
}

func TestStrengthCurator_Assess(t *testing.T) {
	c := newCurator(t)

	tests := []struct {
		sentence string
		ok       bool
		reason   string
	}{
		{sentence: "Maya enjoys drawing and painting.", ok: true, reason: ReasonAccepted},
		{sentence: "Her reading has improved since September.", ok: true, reason: ReasonAccepted},
		{sentence: "Maya has improved her reading accuracy.", ok: true, reason: ReasonAccepted},
		{sentence: "She is confident speaking in small groups.", ok: true, reason: ReasonAccepted},
		{sentence: "Her attainment is average for her age.", ok: false, reason: ReasonNeutral},
		{sentence: "Progress is in line with peers.", ok: false, reason: ReasonNeutral},
		{sentence: "There are no concerns about her hearing.", ok: false, reason: ReasonAbsenceOfNegative},
		{sentence: "She does not struggle with transitions.", ok: false, reason: ReasonAbsenceOfNegative},
		{sentence: "Maya is able to focus, but only with adult support.", ok: false, reason: ReasonQualified},
		{sentence: "He is kind when prompted.", ok: false, reason: ReasonQualified},
		{sentence: "She attends school every day.", ok: false, reason: ReasonNotPositive},
		{sentence: "Maya enjoyed the school trip.", ok: true, reason: ReasonAccepted},
		{sentence: "She has many interests outside school.", ok: true, reason: ReasonAccepted},
		{sentence: "She moved from kindergarten in September.", ok: false, reason: ReasonNotPositive},
		{sentence: "He has a progressive hearing loss.", ok: false, reason: ReasonNotPositive},
		{sentence: "Her handwriting is likewise slow.", ok: false, reason: ReasonNotPositive},
	}

	for _, tt := range tests {
		t.Run(tt.sentence, func(t *testing.T) {
			ok, reason := c.Assess(tt.sentence)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestStrengthCurator_Curate(t *testing.T) {
	c := newCurator(t)

	block := c.Curate([]model.SourceFragment{
		strength("s1", "school.pdf.txt", "Maya enjoys drawing. Her attainment is average."),
		strength("s2", "ep.pdf.txt", "maya enjoys drawing"),
		strength("s3", "ep.pdf.txt", "She is a kind and caring friend."),
		{ID: "n1", Document: "ep.pdf.txt", Text: "She enjoys reading but finds spelling hard.", Kind: model.KindNeed},
	})

	require.Len(t, block.Statements, 2)
	assert.Equal(t, "Maya enjoys drawing.", block.Statements[0].Text)
	assert.Equal(t, []string{"school.pdf.txt", "ep.pdf.txt"}, block.Statements[0].Sources)
	assert.Equal(t, []string{"s1", "s2"}, block.Statements[0].Fragments)
	assert.Equal(t, "She is a kind and caring friend.", block.Statements[1].Text)
}

func TestStrengthCurator_EmptyIsValid(t *testing.T) {
	c := newCurator(t)

	block := c.Curate([]model.SourceFragment{
		strength("s1", "school.pdf.txt", "There are no concerns about behaviour."),
	})

	assert.True(t, block.IsEmpty())
}

func TestNewStrengthCurator_BadPattern(t *testing.T) {
	_, err := NewStrengthCurator(model.StrengthRules{AbsenceOfNegative: []string{"("}})
	assert.Error(t, err)
}
