package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	extractFullDocs bool
	extractFallback bool
	extractStrict   bool
)

// errFallbackRequired is returned by --strict when some file had no skeleton.
var errFallbackRequired = errors.New("fallback required")

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract FILE...",
	Short: "Print the skeleton of one or more files",
	Long: `Print the skeleton of each file. Files that cannot be outlined (unknown
extension, disabled language, parse failure, too large) are reported on stderr
as "no skeleton (fallback required)".

Examples:
  skeleton extract internal/server.go
  skeleton extract --full-docs app/models.py
  skeleton extract --fallback src/*.ts`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVar(&extractFullDocs, "full-docs", false, "Include complete docstrings")
	extractCmd.Flags().BoolVar(&extractFallback, "fallback", false, "Print the full file when no skeleton is available")
	extractCmd.Flags().BoolVar(&extractStrict, "strict", false, "Exit with an error if any file has no skeleton")
}

func runExtract(cmd *cobra.Command, args []string) error {
	rootDir, err := resolveRoot(nil)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(rootDir)
	if err != nil {
		return err
	}

	ext := newExtractor(cfg)
	defer ext.Close()

	opts := extractOptions{
		fullDocs: extractFullDocs || cfg.Extract.FullDocs,
		fallback: extractFallback,
	}
	fallbacks, err := executeExtract(cmd.OutOrStdout(), cmd.ErrOrStderr(), ext, args, opts)
	if err != nil {
		return err
	}
	if extractStrict && fallbacks > 0 {
		return fmt.Errorf("%w: %d of %d file(s)", errFallbackRequired, fallbacks, len(args))
	}
	return nil
}

type extractOptions struct {
	fullDocs bool
	fallback bool
}

// executeExtract writes each file's skeleton to out, separated by blank
// lines. It returns how many files had no skeleton. Unreadable files count
// as fallbacks.
func executeExtract(out, errOut io.Writer, source skeletonSource, files []string, opts extractOptions) (int, error) {
	fallbacks := 0
	first := true

	emit := func(text string) error {
		if !first {
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
		}
		first = false
		_, err := fmt.Fprintln(out, text)
		return err
	}

	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(errOut, "%s: failed to read: %v\n", path, err)
			fallbacks++
			continue
		}

		text, ok := source.ExtractSkeleton(path, content, opts.fullDocs)
		if !ok {
			fallbacks++
			fmt.Fprintf(errOut, "%s: no skeleton (fallback required)\n", path)
			if !opts.fallback {
				continue
			}
			text = string(content)
		}

		if err := emit(text); err != nil {
			return fallbacks, fmt.Errorf("failed to write output: %w", err)
		}
	}
	return fallbacks, nil
}
