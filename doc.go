// Package tabwrap compiles bare LaTeX table fragments into standalone
// PDF, PNG, or SVG artifacts using an external LaTeX compiler.
//
// # Quick Start
//
// Create a service, compile a fragment, and inspect the outcome:
//
//	svc := tabwrap.New()
//
//	outcome := svc.Compile(ctx, tabwrap.Input{
//	    TeX:       fragment,
//	    Source:    "summary_stats.tex",
//	    OutputDir: "out",
//	})
//	if !outcome.OK() {
//	    log.Fatal(outcome.Err)
//	}
//	fmt.Println("wrote", outcome.ArtifactPath)
//
// The fragment does not need a preamble or \documentclass: required
// packages are detected from the content and a minimal document shell
// is assembled around it before compilation.
//
// # Compilation Pipeline
//
// Each fragment moves through these stages:
//
//  1. Validation (table environment present, braces balanced)
//  2. Package detection against the built-in rule table
//  3. Document assembly (preamble, layout, resize scaffold)
//  4. pdflatex invocation with log classification
//  5. Optional raster conversion (PNG via pdftoppm, SVG via pdftocairo)
//
// Stage 4 is the trust boundary with the external compiler: success is
// decided by inspecting the compiler's log file and the artifact on
// disk, not by the process exit code alone. See internal/texlog.
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc := tabwrap.New(
//	    tabwrap.WithTimeout(2 * time.Minute),
//	    tabwrap.WithKeepIntermediate(true),
//	)
//
// Per-compilation options are passed via Input:
//
//	outcome := svc.Compile(ctx, tabwrap.Input{
//	    TeX:       fragment,
//	    Source:    "wide_table.tex",
//	    OutputDir: "out",
//	    Layout:    tabwrap.Layout{Landscape: true, Header: true},
//	    Format:    tabwrap.FormatPNG,
//	})
//
// # Batch Processing
//
// CompileBatch processes an ordered set of fragments with per-item
// failure isolation and returns a report preserving input order:
//
//	report := svc.CompileBatch(ctx, inputs)
//	combined, err := svc.Combine(ctx, report, "out")
//
// For parallel batches, use ServicePool to bound concurrent compiler
// invocations:
//
//	pool := tabwrap.NewServicePool(4)
//	svc := pool.Acquire()
//	defer pool.Release(svc)
//
// # External Requirements
//
// Compilation requires pdflatex on PATH (any TeX Live or MiKTeX
// installation). PNG output additionally requires pdftoppm and SVG
// output pdftocairo, both part of poppler-utils. CheckDependencies
// verifies the required binaries before a run.
package tabwrap
