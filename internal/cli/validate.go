package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ppiankov/npo/internal/render"
	"github.com/ppiankov/npo/internal/validate"
)

var (
	feedbackFile string
	fieldsJSON   bool
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <section.md>",
	Short: "Check a rendered section against its feedback summary",
	Long: `Validate reads a rendered section and its feedback summary:
- Parses every **Key:** field of the section
- Reads the [FEEDBACK_SUMMARY] counts
- Exits non-zero when a CRITICAL issue is counted

Missing or unreadable feedback counts as 99 critical issues, so a section
is never accepted without a completed check.

Example:
  npo validate section.md --feedback feedback.txt
  npo validate section.md --fields`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&feedbackFile, "feedback", "", "feedback summary written by 'npo assemble --feedback'")
	validateCmd.Flags().BoolVar(&fieldsJSON, "fields", false, "print the parsed fields as JSON")
}

func runValidate(cmd *cobra.Command, args []string) error {
	section, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read section: %w", err)
	}
	fields := render.ParseFields(string(section))

	if fieldsJSON {
		data, err := render.JSON(fields)
		if err != nil {
			return fmt.Errorf("encode fields: %w", err)
		}
		fmt.Print(string(data))
	}

	var feedback []byte
	if feedbackFile != "" {
		feedback, err = os.ReadFile(feedbackFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read feedback: %w", err)
		}
	}
	counts := validate.ParseSummary(string(feedback))

	fmt.Fprintf(os.Stderr, "Fields:    %d\n", len(fields))
	if verbose {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(os.Stderr, "    %s\n", k)
		}
	}
	fmt.Fprintf(os.Stderr, "Critical:  %d\n", counts.Critical)
	fmt.Fprintf(os.Stderr, "Standard:  %d\n", counts.Standard)

	if counts.Blocking() {
		return fmt.Errorf("%d critical issue(s) counted", counts.Critical)
	}
	return nil
}
