package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/npo/internal/pipeline"
	"github.com/ppiankov/npo/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Assemble every case file in a directory in parallel",
	Long: `Batch assembles many cases concurrently:
- Read every .yaml, .yml and .json case file in the directory
- Assemble cases in parallel with a configurable worker count
- Write a section, a JSON report and a feedback summary per case

Example:
  npo batch ./cases
  npo batch ./cases --concurrency 8 --output-dir ./sections`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./npo-sections", "output directory for sections")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Shared with assemble
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	batchCmd.Flags().BoolVar(&writeClean, "clean", false, "also write copies without citation tags")
	batchCmd.Flags().BoolVar(&writeMapper, "fact-mapper", false, "also write copies with shortened document names")
	batchCmd.Flags().BoolVar(&allowCritical, "allow-critical", false, "exit zero even when CRITICAL findings are reported")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  npo Batch Assembly\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Case dir:     %s\n", dir)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)
	results, err := processor.ProcessDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("process directory: %w", err)
	}

	var success, incomplete, failed int
	for _, r := range results {
		if r.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Case, r.Error)
			continue
		}

		base := filepath.Join(outputDir, r.Case)
		if err := writeOutputs(r.Result, outputPaths{
			Markdown: base + ".md",
			JSON:     base + ".json",
			Feedback: base + "_feedback.txt",
		}, cfg.Output); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Case, err)
			continue
		}

		printSummary(r.Result, r.Case)
		if exitStatus(r.Result, cfg.Output.AllowCritical) != nil {
			incomplete++
			continue
		}
		success++
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:       %d cases\n", len(results))
	fmt.Fprintf(os.Stderr, "  Clean:       %d\n", success)
	fmt.Fprintf(os.Stderr, "  Blocked:     %d\n", incomplete)
	fmt.Fprintf(os.Stderr, "  Failures:    %d\n", failed)
	fmt.Fprintf(os.Stderr, "  Output:      %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failed+incomplete > 0 {
		return fmt.Errorf("%d of %d case(s) need attention", failed+incomplete, len(results))
	}
	return nil
}

// compile-time check that the pipeline satisfies the batch interface
var _ worker.Assembler = (*pipeline.Pipeline)(nil)
