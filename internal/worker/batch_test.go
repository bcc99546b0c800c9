package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/npo/internal/model"
	"github.com/ppiankov/npo/internal/pipeline"
)

// mockAssembler implements Assembler
type mockAssembler struct {
	fail  string // Subject name that fails
	calls int32
}

func (m *mockAssembler) Assemble(ctx context.Context, c *model.Corpus) (*pipeline.Result, error) {
	atomic.AddInt32(&m.calls, 1)
	if c.Subject.Name == m.fail {
		return nil, errors.New("assembly error")
	}
	return &pipeline.Result{RunID: c.Subject.Name, Artifact: model.NewSectionArtifact(c.Subject)}, nil
}

func writeCase(t *testing.T, dir, name, subject string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := "subject: {name: " + subject + ", gender: female}\nfragments:\n  - {id: a, document: d.pdf.txt, kind: need, text: Reading is slow.}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBatchProcessor_ProcessDir(t *testing.T) {
	dir := t.TempDir()
	for i, name := range []string{"c.yaml", "a.yaml", "b.yaml", "d.yaml", "e.yaml"} {
		writeCase(t, dir, name, string(rune('A'+i)))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("notes"), 0644))

	assembler := &mockAssembler{}
	results, err := NewBatchProcessor(assembler, 2).ProcessDir(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, results, 5)
	var names []string
	for i, r := range results {
		require.NoError(t, r.Error)
		assert.Equal(t, i, r.Index)
		assert.NotNil(t, r.Result)
		names = append(names, r.Case)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names)
	assert.Equal(t, int32(5), atomic.LoadInt32(&assembler.calls))
}

func TestBatchProcessor_Errors(t *testing.T) {
	dir := t.TempDir()
	ok := writeCase(t, dir, "ok.yaml", "Maya")
	failing := writeCase(t, dir, "fail.yaml", "Leo")
	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("subject: [\n"), 0644))

	results := NewBatchProcessor(&mockAssembler{fail: "Leo"}, 3).ProcessFiles(context.Background(), []string{ok, failing, broken})

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Error)
	assert.ErrorContains(t, results[1].Error, "assembly error")
	assert.Nil(t, results[1].Result)
	assert.ErrorContains(t, results[2].Error, "decode YAML")
}

func TestBatchProcessor_Empty(t *testing.T) {
	results := NewBatchProcessor(&mockAssembler{}, 2).ProcessFiles(context.Background(), nil)
	assert.Empty(t, results)

	_, err := NewBatchProcessor(&mockAssembler{}, 2).ProcessDir(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestCaseName(t *testing.T) {
	assert.Equal(t, "case-07", CaseName("/tmp/cases/case-07.yaml"))
	assert.Equal(t, "leo", CaseName("leo.json"))
}
