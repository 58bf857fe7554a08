package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/cortex-skeleton/internal/discovery"
)

var (
	scanQuiet    bool
	scanFullDocs bool
	scanWorkers  int
	scanList     bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [DIR]",
	Short: "Extract skeletons for every matching file in a directory",
	Long: `Discover source files under DIR (default: the current directory) using the
include and ignore globs from configuration, extract them in parallel, and
print the skeletons in path order. Progress and the final counts go to stderr.

Examples:
  skeleton scan
  skeleton scan ./services --workers 4
  skeleton scan --list --quiet`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "Disable progress bars and the summary")
	scanCmd.Flags().BoolVar(&scanFullDocs, "full-docs", false, "Include complete docstrings")
	scanCmd.Flags().IntVarP(&scanWorkers, "workers", "w", 0, "Number of parallel workers (default from config, 0 = number of CPUs)")
	scanCmd.Flags().BoolVar(&scanList, "list", false, "Only list files and whether a skeleton is available")
}

// scanResult is the outcome for one discovered file.
type scanResult struct {
	Path string
	Text string
	OK   bool
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(cmd.ErrOrStderr(), "\nInterrupted! Cancelling scan...")
			cancel()
		case <-ctx.Done():
		}
	}()

	rootDir, err := resolveRoot(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(rootDir)
	if err != nil {
		return err
	}

	ext := newExtractor(cfg)
	defer ext.Close()

	workers := scanWorkers
	if workers == 0 {
		workers = cfg.Scan.Workers
	}

	progress := NewCLIProgressReporter(cmd.ErrOrStderr(), scanQuiet)
	start := time.Now()

	progress.OnDiscoveryStart(rootDir)
	fd, err := discovery.New(rootDir, cfg.Paths.Include, cfg.Paths.Ignore)
	if err != nil {
		return fmt.Errorf("failed to create file discovery: %w", err)
	}
	files, err := fd.Discover()
	if err != nil {
		return fmt.Errorf("failed to discover files: %w", err)
	}
	progress.OnDiscoveryComplete(len(files))

	progress.OnExtractStart(len(files))
	results, err := scanFiles(ctx, ext, rootDir, files, workers, scanFullDocs || cfg.Extract.FullDocs, progress.OnFileExtracted)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("scan cancelled")
		}
		return err
	}

	stats, err := writeScanResults(cmd.OutOrStdout(), rootDir, results, scanList)
	if err != nil {
		return err
	}
	stats.Duration = time.Since(start)
	progress.OnComplete(stats)
	return nil
}

// scanFiles extracts files with at most workers concurrent extractions and
// returns results in the order of files. workers <= 0 means one per CPU.
// Skeleton headers name files relative to rootDir.
// onDone, if set, is called once per file from the worker goroutines.
func scanFiles(ctx context.Context, source skeletonSource, rootDir string, files []string, workers int, verbose bool, onDone func(string)) ([]scanResult, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]scanResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = scanResult{Path: path}
			content, err := os.ReadFile(path)
			if err != nil {
				log.Printf("Warning: failed to read %s: %v", path, err)
			} else {
				results[i].Text, results[i].OK = source.ExtractSkeleton(displayPath(rootDir, path), content, verbose)
			}

			if onDone != nil {
				onDone(path)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// writeScanResults prints skeletons in result order. With list set only a
// status line per file is printed.
func writeScanResults(out io.Writer, rootDir string, results []scanResult, list bool) (ScanStats, error) {
	stats := ScanStats{Files: len(results)}
	first := true

	for _, r := range results {
		path := displayPath(rootDir, r.Path)
		if r.OK {
			stats.Extracted++
		} else {
			stats.Fallbacks++
		}

		var err error
		switch {
		case list && r.OK:
			_, err = fmt.Fprintf(out, "ok        %s\n", path)
		case list:
			_, err = fmt.Fprintf(out, "fallback  %s\n", path)
		case r.OK:
			if !first {
				_, err = fmt.Fprintln(out)
			}
			if err == nil {
				_, err = fmt.Fprintln(out, r.Text)
			}
			first = false
		}
		if err != nil {
			return stats, fmt.Errorf("failed to write output: %w", err)
		}
	}
	return stats, nil
}
