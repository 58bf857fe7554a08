package cli

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ScanStats summarizes a scan.
type ScanStats struct {
	Files     int
	Extracted int
	Fallbacks int
	Duration  time.Duration
}

// CLIProgressReporter implements progress reporting with progress bars.
// Bars and messages go to out so stdout stays clean for skeleton text.
type CLIProgressReporter struct {
	quiet     bool
	out       io.Writer
	mu        sync.Mutex
	fileBar   *progressbar.ProgressBar
	startTime time.Time
	total     int
	processed int
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(out io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet:     quiet,
		out:       out,
		startTime: time.Now(),
	}
}

func (c *CLIProgressReporter) OnDiscoveryStart(rootDir string) {
	if c.quiet {
		return
	}
	log.Printf("Discovering files in %s...", rootDir)
}

func (c *CLIProgressReporter) OnDiscoveryComplete(files int) {
	if c.quiet {
		return
	}
	log.Printf("Found %s source files", formatNumber(files))
}

func (c *CLIProgressReporter) OnExtractStart(totalFiles int) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total = totalFiles
	c.processed = 0
	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Extracting skeletons"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

// OnFileExtracted is safe to call from multiple workers.
func (c *CLIProgressReporter) OnFileExtracted(fileName string) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fileBar != nil {
		c.processed++
		_ = c.fileBar.Add(1)
	}
}

// Processed returns how many files were reported so far.
func (c *CLIProgressReporter) Processed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processed
}

func (c *CLIProgressReporter) OnComplete(stats ScanStats) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	if c.fileBar != nil {
		_ = c.fileBar.Finish()
		c.fileBar = nil
	}
	c.mu.Unlock()

	fmt.Fprintf(c.out, "✓ Scan complete: %s files in %.1fs\n", formatNumber(stats.Files), stats.Duration.Seconds())
	fmt.Fprintf(c.out, "  Skeletons: %s\n", formatNumber(stats.Extracted))
	fmt.Fprintf(c.out, "  Fallbacks: %s\n", formatNumber(stats.Fallbacks))
}

// formatNumber renders n with thousands separators.
func formatNumber(n int) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result []byte
	for i := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, str[i])
	}
	return string(result)
}
