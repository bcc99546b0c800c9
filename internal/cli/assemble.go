package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/npo/internal/corpus"
	"github.com/ppiankov/npo/internal/model"
	"github.com/ppiankov/npo/internal/pipeline"
	"github.com/ppiankov/npo/internal/render"
	"github.com/ppiankov/npo/internal/validate"
)

var (
	outMD         string
	outJSON       string
	outFeedback   string
	timeout       time.Duration
	noCache       bool
	writeClean    bool
	writeMapper   bool
	allowCritical bool
)

// assembleCmd represents the assemble command
var assembleCmd = &cobra.Command{
	Use:   "assemble <case-file>",
	Short: "Assemble the Needs, Provisions and Outcomes section for one case",
	Long: `Assemble reads a case file (YAML or JSON source fragments) and:
- Routes every observation to one of the six categories
- Curates strengths and merges scattered provision detail losslessly
- Applies mandatory override directives
- Numbers needs, provisions and outcomes in lockstep
- Renders the section with [SOURCE: ...] citations
- Validates traceability, anonymity and placeholders

Exits non-zero when a category fails or a CRITICAL finding is reported.

Example:
  npo assemble case.yaml
  npo assemble case.yaml --md section.md --json section.json --feedback feedback.txt
  npo assemble case.yaml --clean --fact-mapper`,
	Args: cobra.ExactArgs(1),
	RunE: runAssemble,
}

func init() {
	rootCmd.AddCommand(assembleCmd)

	// Output flags
	assembleCmd.Flags().StringVar(&outMD, "md", "npo_section.md", "output Markdown path")
	assembleCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	assembleCmd.Flags().StringVar(&outFeedback, "feedback", "", "output feedback summary path (optional)")
	assembleCmd.Flags().BoolVar(&writeClean, "clean", false, "also write a copy without citation tags")
	assembleCmd.Flags().BoolVar(&writeMapper, "fact-mapper", false, "also write a copy with shortened document names")

	// Run flags
	assembleCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "assembly timeout")
	assembleCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	assembleCmd.Flags().BoolVar(&allowCritical, "allow-critical", false, "exit zero even when CRITICAL findings are reported")
}

// commandConfig loads the configuration and applies the flags the user set
func commandConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if flags.Changed("clean") {
		cfg.Output.Clean = writeClean
	}
	if flags.Changed("fact-mapper") {
		cfg.Output.FactMapper = writeMapper
	}
	if flags.Changed("allow-critical") {
		cfg.Output.AllowCritical = allowCritical
	}
	cfg.Output.Verbose = verbose
	return cfg, nil
}

func runAssemble(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Assembling: %s\n", path)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	c, err := corpus.Load(path)
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	result, err := p.Assemble(ctx, c)
	if err != nil {
		return fmt.Errorf("assembly failed: %w", err)
	}

	if err := writeOutputs(result, outputPaths{
		Markdown: outMD,
		JSON:     outJSON,
		Feedback: outFeedback,
	}, cfg.Output); err != nil {
		return err
	}

	printSummary(result, path)
	return exitStatus(result, cfg.Output.AllowCritical)
}

// outputPaths names the files written for one case; empty paths are skipped
type outputPaths struct {
	Markdown string
	JSON     string
	Feedback string
}

// report is the JSON form of a run
type report struct {
	*pipeline.Result
	Failures map[string]string `json:"failures,omitempty"`
	Unrouted []string          `json:"unrouted,omitempty"`
}

func newReport(r *pipeline.Result) report {
	out := report{Result: r}
	if len(r.Failures) > 0 {
		out.Failures = make(map[string]string, len(r.Failures))
		for c, err := range r.Failures {
			out.Failures[c.String()] = err.Error()
		}
	}
	for _, err := range r.Unrouted {
		out.Unrouted = append(out.Unrouted, err.Error())
	}
	return out
}

// writeOutputs writes the rendered section and its companions
func writeOutputs(result *pipeline.Result, paths outputPaths, opts model.OutputConfig) error {
	if paths.Markdown != "" {
		if err := render.WriteFile(paths.Markdown, []byte(result.Markdown)); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
		base := strings.TrimSuffix(paths.Markdown, ".md")
		if opts.Clean {
			if err := render.WriteFile(base+"_clean.md", []byte(render.Clean(result.Markdown))); err != nil {
				return fmt.Errorf("write clean version: %w", err)
			}
		}
		if opts.FactMapper {
			if err := render.WriteFile(base+"_fact_mapper.md", []byte(render.FactMapper(result.Markdown))); err != nil {
				return fmt.Errorf("write fact-mapper version: %w", err)
			}
		}
	}

	if paths.JSON != "" {
		data, err := render.JSON(newReport(result))
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		if err := render.WriteFile(paths.JSON, data); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
	}

	if paths.Feedback != "" {
		if err := render.WriteFile(paths.Feedback, []byte(validate.Summary(result.Findings))); err != nil {
			return fmt.Errorf("write feedback: %w", err)
		}
	}
	return nil
}

func printSummary(result *pipeline.Result, name string) {
	critical := result.Findings.Count(model.SeverityCritical)
	standard := result.Findings.Count(model.SeverityStandard)

	mark := "✓"
	if len(result.Failures) > 0 || critical > 0 {
		mark = "✗"
	}
	cached := ""
	if result.Cached {
		cached = " (cached)"
	}
	fmt.Fprintf(os.Stderr, "%s %s: %d critical, %d standard%s\n", mark, name, critical, standard, cached)

	if verbose {
		for _, f := range result.Findings {
			fmt.Fprintf(os.Stderr, "    %s [%s] %s: %s\n", f.Severity, f.Rule, f.Field, f.Message)
		}
	}
	if err := result.Err(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(os.Stderr, "    failed: %s\n", line)
		}
	}
	for _, err := range result.Unrouted {
		fmt.Fprintf(os.Stderr, "    unrouted: %v\n", err)
	}
}

// exitStatus turns category failures and blocking findings into an error
func exitStatus(result *pipeline.Result, allowCritical bool) error {
	if err := result.Err(); err != nil {
		return fmt.Errorf("section incomplete: %w", err)
	}
	if len(result.Unrouted) > 0 {
		return fmt.Errorf("section incomplete: %d fragment(s) matched no category", len(result.Unrouted))
	}
	if result.Findings.Blocking() && !allowCritical {
		return fmt.Errorf("%d critical finding(s)", result.Findings.Count(model.SeverityCritical))
	}
	return nil
}
