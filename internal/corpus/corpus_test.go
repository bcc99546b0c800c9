package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/npo/internal/model"
)

func TestLoad_YAML(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "maya.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Maya", c.Subject.Name)
	assert.Equal(t, model.GenderFemale, c.Subject.Gender)
	assert.Equal(t, []string{"Dr Anita Patel"}, c.Professionals)
	require.Len(t, c.Fragments, 7)

	p1, ok := c.Fragment("ci-p1")
	require.True(t, ok)
	assert.Equal(t, "1:1", p1.Modifiers().Modality)

	// Missing ID is derived from the document
	strength := c.Fragments[3]
	assert.Equal(t, "07_school_plan.docx.txt#2", strength.ID)
	assert.Equal(t, "Maya enjoys conversations with adults.", strength.Text)

	semh, ok := c.Fragment("semh-n1")
	require.True(t, ok)
	assert.Equal(t, "Maya experiences anxiety when routines change.", semh.Text)

	sc, ok := c.Fragment("sc-p1")
	require.True(t, ok)
	assert.Equal(t, []string{"home adaptation"}, sc.Tags)
}

func TestLoad_JSON(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "leo.json"))
	require.NoError(t, err)

	assert.Equal(t, model.GenderMale, c.Subject.Gender)
	require.Len(t, c.Fragments, 2)
	assert.Equal(t, "3 times per week", c.Fragments[1].Modifiers().Frequency)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	tests := []struct {
		desc string
		path string
		want string
	}{
		{desc: "unsupported extension", path: write("case.txt", "x"), want: "unsupported extension"},
		{desc: "missing file", path: filepath.Join(dir, "absent.yaml"), want: "open case file"},
		{desc: "unknown field", path: write("unknown.yaml", "subject: {name: A}\nsubjcet: x\n"), want: "decode YAML"},
		{desc: "no subject", path: write("nosubject.yaml", "fragments: []\n"), want: "subject name is required"},
		{desc: "no document", path: write("nodoc.yaml", "subject: {name: A}\nfragments:\n  - {kind: need, text: x}\n"), want: "document is required"},
		{desc: "bad kind", path: write("kind.yaml", "subject: {name: A}\nfragments:\n  - {document: d, kind: advice, text: x}\n"), want: "unknown kind"},
		{desc: "duplicate id", path: write("dup.yaml", "subject: {name: A}\nfragments:\n  - {id: a, document: d, kind: need, text: x}\n  - {id: a, document: d, kind: need, text: y}\n"), want: "duplicate id"},
		{desc: "empty fragment", path: write("empty.yaml", "subject: {name: A}\nfragments:\n  - {document: d, kind: need, annotation: {}}\n"), want: "no text and no annotation"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecode_Reader(t *testing.T) {
	c, err := Decode(strings.NewReader(`{"subject":{"name":" Ash ","gender":" NonBinary "},"fragments":[]}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "Ash", c.Subject.Name)
	assert.Equal(t, model.GenderNonBinary, c.Subject.Gender)
}

func TestListCases(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.json", "notes.md", ".hidden.yaml", "c.yml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0755))

	paths, err := ListCases(dir)
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{"a.json", "b.yaml", "c.yml"}, names)
}
