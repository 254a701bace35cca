package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tabwrap "github.com/alnah/go-tabwrap"
	"github.com/alnah/go-tabwrap/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no .tex files found")
	ErrInvalidExtension   = errors.New("file must have .tex extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrConflictingFormats = errors.New("cannot specify both --png and --svg")
	ErrInvalidTimeout     = errors.New("invalid timeout")
)

// runCompile orchestrates a full compilation run: config, discovery,
// batch, optional combine, summary.
func runCompile(ctx context.Context, positional []string, flags *compileFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg := env.Config
	if flags.common.config != "" {
		loaded, err := config.LoadConfig(flags.common.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	mergeFlags(flags, cfg)

	format, err := resolveFormat(flags, cfg)
	if err != nil {
		return err
	}

	combine := cfg.Batch.Combine
	if combine && format != tabwrap.FormatPDF {
		fmt.Fprintln(env.Stderr, "Warning: --combine-pdf ignored when using --png or --svg output")
		combine = false
	}

	timeout, err := resolveTimeout(cfg.Compile.Timeout)
	if err != nil {
		return err
	}

	// Dependency check up front: a missing compiler fails every item.
	if err := tabwrap.CheckDependencies(ctx, nil, format); err != nil {
		return err
	}

	inputPath := resolveInputPath(positional, cfg)
	files, err := discoverInputs(inputPath, cfg.Batch.Recursive, cfg.Output.Suffix)
	if err != nil {
		return err
	}

	outputDir := cfg.Output.DefaultDir
	if outputDir == "" {
		outputDir = "."
	}

	opts := []tabwrap.Option{tabwrap.WithKeepIntermediate(cfg.Compile.KeepTex)}
	if timeout > 0 {
		opts = append(opts, tabwrap.WithTimeout(timeout))
	}

	poolSize := tabwrap.ResolvePoolSize(cfg.Compile.Workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := tabwrap.NewServicePool(poolSize, opts...)
	defer pool.Close()

	base := tabwrap.Input{
		OutputDir: outputDir,
		Suffix:    cfg.Output.Suffix,
		Packages:  cfg.Compile.Packages,
		Format:    format,
		Layout: tabwrap.Layout{
			Landscape: cfg.Layout.Landscape,
			NoResize:  cfg.Layout.NoResize,
			Header:    cfg.Layout.Header,
		},
		PlainPageStyle: combine,
	}

	report := compileBatch(ctx, pool, files, base)

	var combined *tabwrap.CombinedArtifact
	if combine && report.Succeeded() > 1 {
		svc := pool.Acquire()
		combined, err = svc.Combine(ctx, report, outputDir)
		pool.Release(svc)
		if err != nil && !errors.Is(err, tabwrap.ErrNothingToCombine) {
			fmt.Fprintf(env.Stderr, "combining PDFs: %v\n", err)
		}
	}

	printSummary(env.Stdout, report, combined, flags.common.quiet, flags.common.verbose)

	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(report.Entries))
	}
	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *compileFlags, cfg *config.Config) {
	if flags.output.dir != "" {
		cfg.Output.DefaultDir = flags.output.dir
	}
	if flags.output.suffix != "" {
		cfg.Output.Suffix = flags.output.suffix
	}
	if flags.layout.landscape {
		cfg.Layout.Landscape = true
	}
	if flags.layout.noResize {
		cfg.Layout.NoResize = true
	}
	if flags.layout.header {
		cfg.Layout.Header = true
	}
	if flags.packages != "" {
		cfg.Compile.Packages = splitPackages(flags.packages)
	}
	if flags.keepTex {
		cfg.Compile.KeepTex = true
	}
	if flags.combine {
		cfg.Batch.Combine = true
	}
	if flags.recursive {
		cfg.Batch.Recursive = true
	}
	if flags.workers > 0 {
		cfg.Compile.Workers = flags.workers
	}
	if flags.timeout != "" {
		cfg.Compile.Timeout = flags.timeout
	}
	if flags.output.png {
		cfg.Output.Format = string(tabwrap.FormatPNG)
	}
	if flags.output.svg {
		cfg.Output.Format = string(tabwrap.FormatSVG)
	}
}

// resolveFormat determines the output format, rejecting conflicting flags.
func resolveFormat(flags *compileFlags, cfg *config.Config) (tabwrap.Format, error) {
	if flags.output.png && flags.output.svg {
		return "", ErrConflictingFormats
	}
	format := tabwrap.Format(cfg.Output.Format)
	if format == "" {
		format = tabwrap.FormatPDF
	}
	if err := format.Validate(); err != nil {
		return "", err
	}
	return format, nil
}

// resolveTimeout parses the configured timeout duration, "" means the
// library default.
func resolveTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, s)
	}
	return d, nil
}

// resolveInputPath picks the input path: positional arg > config > ".".
func resolveInputPath(positional []string, cfg *config.Config) string {
	if len(positional) > 0 {
		return positional[0]
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir
	}
	return "."
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > tabwrap.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, tabwrap.MaxPoolSize)
	}
	return nil
}

// splitPackages parses the --packages flag value.
func splitPackages(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
