package worker

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/npo/internal/corpus"
	"github.com/ppiankov/npo/internal/model"
	"github.com/ppiankov/npo/internal/pipeline"
)

// Assembler defines the interface for assembling one case
type Assembler interface {
	Assemble(ctx context.Context, c *model.Corpus) (*pipeline.Result, error)
}

// CaseJob assembles the section for one case file
type CaseJob struct {
	Index     int
	Path      string
	Assembler Assembler
}

// Execute loads the case file and runs the pipeline on it
func (j *CaseJob) Execute(ctx context.Context) Result {
	out := &CaseResult{Index: j.Index, Path: j.Path, Case: CaseName(j.Path)}

	c, err := corpus.Load(j.Path)
	if err != nil {
		out.Error = err
		return out
	}
	result, err := j.Assembler.Assemble(ctx, c)
	if err != nil {
		out.Error = fmt.Errorf("assemble: %w", err)
		return out
	}
	out.Result = result
	return out
}

// CaseResult represents the result of a case job
type CaseResult struct {
	Index  int
	Path   string
	Case   string
	Result *pipeline.Result
	Error  error
}

// GetError returns the error from the case result
func (r *CaseResult) GetError() error {
	return r.Error
}

// CaseName is the file name of a case without its extension
func CaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// BatchProcessor assembles many cases concurrently
type BatchProcessor struct {
	assembler   Assembler
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(assembler Assembler, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		assembler:   assembler,
		concurrency: concurrency,
	}
}

// ProcessFiles assembles every case file and returns results in input order
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*CaseResult {
	if len(paths) == 0 {
		return []*CaseResult{}
	}

	// Create worker pool
	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	// Submit jobs
	for i, path := range paths {
		if !pool.Submit(&CaseJob{Index: i, Path: path, Assembler: b.assembler}) {
			break
		}
	}

	// Wait for all jobs to complete
	results := pool.Wait()

	caseResults := make([]*CaseResult, 0, len(results))
	for _, result := range results {
		caseResults = append(caseResults, result.(*CaseResult))
	}
	sort.Slice(caseResults, func(i, j int) bool {
		return caseResults[i].Index < caseResults[j].Index
	})

	return caseResults
}

// ProcessDir assembles every case file found in dir
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*CaseResult, error) {
	paths, err := corpus.ListCases(dir)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}

	return b.ProcessFiles(ctx, paths), nil
}
