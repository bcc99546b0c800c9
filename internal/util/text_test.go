package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		a, b string
		desc string
	}{
		{a: "Maya will read 50 words.", b: "maya will read 50 words", desc: "case and trailing full stop"},
		{a: "Maya  will\tread 50 words", b: "Maya will read 50 words", desc: "whitespace runs"},
		{a: "Maya’s reading", b: "Maya's reading", desc: "typographic apostrophe"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, NormalizeKey(tt.a), NormalizeKey(tt.b))
		})
	}

	assert.NotEqual(t, NormalizeKey("read 50 words"), NormalizeKey("read 60 words"))
}

func TestMatcher_WholeWord(t *testing.T) {
	m := NewMatcher([]string{"but", "writing"})

	assert.Equal(t, "but", m.Match("She can read, but only with support"))
	assert.Equal(t, "", m.Match("She presses the button"))
	assert.Equal(t, "", m.Match("Her handwriting is neat"))
	assert.Equal(t, "writing", m.Match("Writing is laborious"))
}

func TestMatcher_Plurals(t *testing.T) {
	m := NewMatcher([]string{"interest", "kind"})

	assert.Equal(t, "interest", m.Match("He has many interests"))
	assert.Equal(t, "", m.Match("Disinterest in reading"))
	assert.Equal(t, "", m.Match("She attends kindergarten"))
	assert.Equal(t, "", m.Match("Interesting but hard"))
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("Maya enjoys drawing. She is kind!\nIs she happy? Yes")
	assert.Equal(t, []string{"Maya enjoys drawing.", "She is kind!", "Is she happy?", "Yes"}, got)
}

func TestJaccard(t *testing.T) {
	assert.InDelta(t, 1.0, Jaccard("read 50 words", "Read 50 words."), 0.001)
	assert.Less(t, Jaccard("read 50 words", "write a sentence"), 0.2)
}

func TestDedupeFold(t *testing.T) {
	assert.Equal(t, []string{"weekly", "daily"}, DedupeFold([]string{"weekly", "Weekly ", "", "daily"}))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "She", Capitalize("she"))
	assert.Equal(t, "", Capitalize(""))
}
