package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/cortex-skeleton/internal/discovery"
	"github.com/mvp-joe/cortex-skeleton/internal/watcher"
)

var watchFullDocs bool

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [DIR]",
	Short: "Print skeletons of files as they change",
	Long: `Watch DIR (default: the current directory) for changes to files matching the
include globs and print a fresh skeleton for each changed file. Changes are
debounced (watch.debounce_ms in configuration). Stop with Ctrl+C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchFullDocs, "full-docs", false, "Include complete docstrings")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

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

	fd, err := discovery.New(rootDir, cfg.Paths.Include, cfg.Paths.Ignore)
	if err != nil {
		return fmt.Errorf("failed to create file discovery: %w", err)
	}

	fw, err := watcher.NewFileWatcher([]string{rootDir}, fd, cfg.Debounce())
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	handler := updatePrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), rootDir)
	coord := watcher.NewWatchCoordinator(rootDir, fw, ext, watchFullDocs || cfg.Extract.FullDocs, handler)

	log.Printf("Watching %s for changes (Ctrl+C to stop)...", rootDir)
	if err := coord.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch mode failed: %w", err)
	}
	log.Println("Watch mode stopped")
	return nil
}

// updatePrinter writes skeleton text to out and status lines to errOut.
func updatePrinter(out, errOut io.Writer, rootDir string) func(watcher.Update) {
	return func(u watcher.Update) {
		path := displayPath(rootDir, u.Path)
		switch {
		case u.Removed:
			fmt.Fprintf(errOut, "%s: removed\n", path)
		case !u.OK:
			fmt.Fprintf(errOut, "%s: no skeleton (fallback required)\n", path)
		default:
			fmt.Fprintf(out, "%s\n\n", u.Text)
		}
	}
}
