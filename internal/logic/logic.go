// Package logic wires file selection, the processor and reporting together.
package logic

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/idelchi/modelseal/internal/config"
	"github.com/idelchi/modelseal/internal/encryption"
	"github.com/idelchi/modelseal/internal/filter"
)

// Run is the main logic of the application.
func Run(cfg *config.Config, logger *zap.SugaredLogger) error {
	start := time.Now()

	scanned, err := resolveFiles(cfg)
	if err != nil {
		return fmt.Errorf("resolving files: %w", err)
	}

	excluded := scanned - len(cfg.Files)

	proc, err := encryption.NewProcessor(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}

	if cfg.Dry {
		return dryRun(cfg, proc, scanned, excluded, start)
	}

	processed, errored, totalSize, err := proc.ProcessFiles()

	if cfg.Stats {
		printStats(os.Stderr, scanned, excluded, processed, errored, totalSize, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("running %s: %w", cfg.Mode, err)
	}

	return nil
}

// resolveFiles expands positional args and applies include/exclude filtering.
// Returns the total number of files scanned before filtering.
func resolveFiles(cfg *config.Config) (int, error) {
	sel, err := filter.Build(cfg.Include, cfg.Exclude, cfg.IncludeFrom, cfg.ExcludeFrom)
	if err != nil {
		return 0, err
	}

	switch cfg.Mode {
	case config.ModeDecrypt, config.ModeVerify:
		if !sel.HasIncludes {
			sel.Includes = append(sel.Includes, "*"+cfg.Ext)
			sel.HasIncludes = true
		}
	case config.ModeEncrypt:
		// Already sealed artifacts are never sealed twice when walking directories.
		sel.Excludes = append(sel.Excludes, "*"+cfg.Ext)
	}

	files, scanned, err := filter.Resolve(cfg.Files, sel)
	if err != nil {
		return scanned, fmt.Errorf("filtering files: %w", err)
	}

	cfg.Files = files

	return scanned, nil
}

// dryRun previews what would be processed without touching any file.
func dryRun(cfg *config.Config, proc *encryption.Processor, scanned, excluded int, start time.Time) error {
	plan, err := proc.Plan()
	if err != nil {
		return err
	}

	var totalSize int64

	for _, file := range cfg.Files {
		if !cfg.Quiet {
			if out := plan[file]; out != "" {
				fmt.Printf("Would process %q -> %q\n", file, out) //nolint:forbidigo
			} else {
				fmt.Printf("Would verify %q\n", file) //nolint:forbidigo
			}
		}

		if info, err := os.Stat(file); err == nil {
			totalSize += info.Size()
		}
	}

	if cfg.Stats {
		printStats(os.Stderr, scanned, excluded, len(cfg.Files), 0, totalSize, time.Since(start))
	}

	return nil
}

func printStats(w io.Writer, scanned, excluded, processed, errored int, totalSize int64, duration time.Duration) {
	fmt.Fprintf(w, "\nStats\n")
	fmt.Fprintf(w, "  Scanned:   %d\n", scanned)
	fmt.Fprintf(w, "  Excluded:  %d\n", excluded)
	fmt.Fprintf(w, "  Processed: %d\n", processed)
	fmt.Fprintf(w, "  Errors:    %d\n", errored)
	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(w, "  Size:      %s\n", humanize.IBytes(uint64(max(0, totalSize))))
	fmt.Fprintf(w, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
