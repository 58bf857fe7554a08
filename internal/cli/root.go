package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/cortex-skeleton/internal/config"
	"github.com/mvp-joe/cortex-skeleton/internal/skeleton/extractor"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "skeleton",
	Short: "Compact structural outlines of source files",
	Long: `skeleton reduces source files to their structure: imports, classes with
method signatures, top-level functions, and docstrings. The outline is meant to
stand in for the full file when an LLM needs to understand code cheaply.

Supported languages: Python, JavaScript, TypeScript, Java, C/C++, Rust, Go.
Files that cannot be outlined are reported so callers can fall back to the
full content.

Configuration is read from ~/.skeleton/config.yml, then .skeleton/config.yml
in the project root, then SKELETON_* environment variables.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .skeleton/config.yml in the project root)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// resolveRoot returns the absolute project root: the first argument when
// given, otherwise the working directory.
func resolveRoot(args []string) (string, error) {
	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("failed to access %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}

// loadConfig loads configuration for the project at rootDir, honouring the
// --config flag.
func loadConfig(rootDir string) (*config.Config, error) {
	var opts []config.LoaderOption
	if cfgFile != "" {
		opts = append(opts, config.WithConfigFile(cfgFile))
	}

	cfg, err := config.NewLoader(rootDir, opts...).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if verbose {
		log.Printf("Project root: %s", rootDir)
		if len(cfg.Extract.DisabledLanguages) > 0 {
			log.Printf("Disabled languages: %v", cfg.Extract.DisabledLanguages)
		}
	}
	return cfg, nil
}

// newExtractor builds an extractor from configuration.
func newExtractor(cfg *config.Config) *extractor.Extractor {
	return extractor.New(cfg.ExtractorOptions()...)
}

// skeletonSource is the subset of *extractor.Extractor the commands use.
type skeletonSource interface {
	ExtractSkeleton(fileName string, content []byte, verbose bool) (string, bool)
}

// displayPath returns path relative to rootDir when it lies inside it.
func displayPath(rootDir, path string) string {
	rel, err := filepath.Rel(rootDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}
