package main

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rebelmx4/go-reel-docs/pkg/reel/config"
	"github.com/rebelmx4/go-reel-docs/pkg/reel/logging"
	"github.com/rebelmx4/go-reel-docs/pkg/reel/output"
	"github.com/rebelmx4/go-reel-docs/pkg/reel/playback"
	"github.com/rebelmx4/go-reel-docs/pkg/reel/scanner"
	"github.com/rebelmx4/go-reel-docs/pkg/reel/tuner"
	"github.com/rebelmx4/go-reel-docs/pkg/reel/types"
)

// runScan is the root command handler. Configuration comes from the
// process-wide viper instance so file, environment, and flag values are
// all merged by the time we unmarshal.
func runScan(cmd *cobra.Command, args []string) error {
	cfg := &config.Config{Playback: playback.Default()}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Playback.Validate(); err != nil {
		return err
	}

	if err := logging.Init(logging.Config{
		Level:      cfg.Logging.Level,
		Path:       cfg.Logging.Path,
		Console:    cfg.Logging.Console || getVerbose(),
		Components: cfg.Logging.Components,
	}); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer func() { _ = logging.Close() }()

	scanPath := cfg.Scan.DefaultPath
	if len(args) > 0 {
		scanPath = args[0]
	}
	expandedPath, err := config.ExpandPath(scanPath)
	if err != nil {
		return fmt.Errorf("failed to expand path: %w", err)
	}
	absPath, err := filepath.Abs(expandedPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	opts, err := buildOptions(cfg, absPath)
	if err != nil {
		return err
	}

	// Clamp concurrency against the host's descriptor budget.
	limits := tuner.Clamp(tuner.Detect(), opts.MaxConcurrency, opts.BatchSize)
	if limits.MaxConcurrency != opts.MaxConcurrency || limits.BatchSize != opts.BatchSize {
		printVerbose("clamped concurrency %d->%d, batch %d->%d for fd limit",
			opts.MaxConcurrency, limits.MaxConcurrency, opts.BatchSize, limits.BatchSize)
	}
	opts.MaxConcurrency = limits.MaxConcurrency
	opts.BatchSize = limits.BatchSize

	s, err := scanner.New(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := s.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	return render(result)
}

// buildOptions assembles scanner options from config and flags.
func buildOptions(cfg *config.Config, root string) (scanner.Options, error) {
	opts := scanner.DefaultOptions()
	opts.Root = root
	opts.MaxConcurrency = cfg.Scan.MaxConcurrency
	opts.BatchSize = cfg.Scan.BatchSize
	opts.Exclude = cfg.Scan.Exclude
	opts.EnableHash = cfg.Hash.Enabled
	opts.FullAlways = cfg.Hash.FullAlways
	opts.Playback = &cfg.Playback

	threshold, err := types.ParseSize(cfg.Hash.Threshold)
	if err != nil {
		return opts, fmt.Errorf("invalid hash threshold %q: %w", cfg.Hash.Threshold, err)
	}
	opts.HashThreshold = threshold

	sampleSize, err := types.ParseSize(cfg.Hash.SampleSize)
	if err != nil {
		return opts, fmt.Errorf("invalid hash sample size %q: %w", cfg.Hash.SampleSize, err)
	}
	opts.HashSampleSize = sampleSize

	if getVerbose() {
		opts.OnProgress = func(p scanner.Progress) {
			fmt.Fprintf(os.Stderr, "\r%d dirs, %d files, %d active ", p.DirsScanned, p.FilesScanned, p.ActiveTasks)
		}
	}

	return opts, nil
}

// render formats the result with the selected formatter.
func render(result *types.ScanResult) error {
	if getVerbose() {
		fmt.Fprintln(os.Stderr)
	}
	if getQuiet() {
		fmt.Printf("%d files, %s, %d warnings\n",
			result.TotalFiles, types.FormatSize(int64(result.TotalSize)), len(result.Warnings))
		return nil
	}

	formatter, err := output.Get(viper.GetString("output.format"))
	if err != nil {
		return err
	}

	report := output.NewReport(result, viper.GetInt("output.top"))
	var buf bytes.Buffer
	if err := formatter.Format(&buf, report); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	fmt.Print(buf.String())
	return nil
}
