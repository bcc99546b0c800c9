package socialcare

import (
	"testing"

	"github.com/ppiankov/npo/internal/model"
	"github.com/ppiankov/npo/internal/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSplitter() *Splitter {
	return NewSplitter(model.DefaultRules().Statutory, synth.NewEngine())
}

func TestSplit_StatutoryAndNonStatutory(t *testing.T) {
	s := newSplitter()

	entry := s.Split([]model.SourceFragment{
		{ID: "s1", Document: "ot-home-visit.pdf.txt", Kind: model.KindProvision, Text: "Level-access shower to be installed", Tags: []string{"home adaptation"}, Recommendation: "shower"},
		{ID: "s2", Document: "family-support.docx.txt", Kind: model.KindProvision, Text: "Attendance at a local family support group", Tags: []string{"family support group"}, Recommendation: "group", Annotation: &model.Annotation{Frequency: "monthly"}},
	})

	require.NotNil(t, entry)
	assert.Equal(t, "Level-access shower to be installed.", entry.Statutory.Text())
	assert.Equal(t, []string{"ot-home-visit.pdf.txt"}, entry.Statutory.Clauses[0].Sources)
	assert.Equal(t, "Attendance at a local family support group, monthly.", entry.NonStatutory.Text())
	assert.NotContains(t, entry.Statutory.Text(), "support group")
	assert.NotContains(t, entry.NonStatutory.Text(), "shower")
	assert.True(t, entry.Text.IsEmpty())
}

func TestSplit_DefaultsToNonStatutory(t *testing.T) {
	s := newSplitter()

	entry := s.Split([]model.SourceFragment{
		{ID: "s1", Document: "sw.pdf.txt", Kind: model.KindProvision, Text: "Short breaks at a local youth club"},
	})

	require.NotNil(t, entry)
	assert.True(t, entry.Statutory.IsEmpty())
	assert.Equal(t, "Short breaks at a local youth club.", entry.NonStatutory.Text())
}

func TestSplit_TagVariants(t *testing.T) {
	s := newSplitter()

	tests := []struct {
		tag  string
		want bool
	}{
		{tag: "Personal care", want: true},
		{tag: "personal-care assistance", want: true},
		{tag: "CSDPA s2", want: true},
		{tag: "Disabled Facilities Grant", want: true},
		{tag: "parenting course", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Statutory(model.SourceFragment{Tags: []string{tt.tag}}))
		})
	}
}

func TestSplit_NoProvision(t *testing.T) {
	s := newSplitter()

	assert.Nil(t, s.Split(nil))
	assert.Nil(t, s.Split([]model.SourceFragment{{ID: "s1", Document: "d"}}))
}
