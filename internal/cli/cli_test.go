package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/npo/internal/model"
	"github.com/ppiankov/npo/internal/pipeline"
	"github.com/ppiankov/npo/internal/validate"
)

const sampleSection = "## Needs, Provisions and Outcomes\n\n### Health Care\n\n**Health Care Need 1:** Maya has asthma. [SOURCE: 04_gp_letter.pdf.txt]\n"

func TestWriteOutputs(t *testing.T) {
	dir := t.TempDir()
	result := &pipeline.Result{
		Markdown: sampleSection,
		Findings: model.Findings{{Severity: model.SeverityStandard, Rule: model.RuleCitation, Field: "Health Care Need 1", Message: "check"}},
	}
	paths := outputPaths{
		Markdown: filepath.Join(dir, "case.md"),
		JSON:     filepath.Join(dir, "case.json"),
		Feedback: filepath.Join(dir, "case_feedback.txt"),
	}

	err := writeOutputs(result, paths, model.OutputConfig{Clean: true, FactMapper: true})
	require.NoError(t, err)

	clean, err := os.ReadFile(filepath.Join(dir, "case_clean.md"))
	require.NoError(t, err)
	assert.NotContains(t, string(clean), "[SOURCE:")

	mapped, err := os.ReadFile(filepath.Join(dir, "case_fact_mapper.md"))
	require.NoError(t, err)
	assert.Contains(t, string(mapped), "[SOURCE: gp_letter]")

	feedback, err := os.ReadFile(paths.Feedback)
	require.NoError(t, err)
	assert.Equal(t, validate.Counts{Standard: 1}, validate.ParseSummary(string(feedback)))

	report, err := os.ReadFile(paths.JSON)
	require.NoError(t, err)
	assert.Contains(t, string(report), `"rule": "citation"`)
}

func TestWriteOutputs_SkipsEmptyPaths(t *testing.T) {
	dir := t.TempDir()
	err := writeOutputs(&pipeline.Result{Markdown: sampleSection}, outputPaths{}, model.OutputConfig{Clean: true})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExitStatus(t *testing.T) {
	critical := model.Findings{{Severity: model.SeverityCritical, Rule: model.RulePlaceholder}}

	tests := []struct {
		desc          string
		result        *pipeline.Result
		allowCritical bool
		wantErr       bool
	}{
		{desc: "clean", result: &pipeline.Result{}},
		{desc: "critical", result: &pipeline.Result{Findings: critical}, wantErr: true},
		{desc: "critical allowed", result: &pipeline.Result{Findings: critical}, allowCritical: true},
		{
			desc: "category failure",
			result: &pipeline.Result{Failures: map[model.Category]error{
				model.SEMH: &model.CategoryOverflowError{Category: model.SEMH, Count: 12},
			}},
			allowCritical: true,
			wantErr:       true,
		},
		{desc: "unrouted", result: &pipeline.Result{Unrouted: []error{errors.New("x")}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			err := exitStatus(tt.result, tt.allowCritical)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `anonymization:
  titles: [Dr, Prof]
statutory:
  tags: [major adaptation]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rules := model.DefaultRules()
	require.NoError(t, loadRules(path, &rules))

	assert.Equal(t, []string{"Dr", "Prof"}, rules.Anonymization.Titles)
	assert.Equal(t, []string{"major adaptation"}, rules.Statutory.Tags)
	assert.Equal(t, model.DefaultRules().Taxonomy, rules.Taxonomy)
}

func TestLoadRules_BadCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("disambiguation:\n  - between: [transport, semh]\n    choose: semh\n"), 0644))

	rules := model.DefaultRules()
	assert.Error(t, loadRules(path, &rules))
}
