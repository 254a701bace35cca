package tabwrap

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// CompileBatch processes an ordered set of fragments sequentially with
// per-item failure isolation: one item's failure never aborts the run.
// The report has exactly one entry per input, in input order.
//
// Sources that share a base name get path-qualified artifact stems, so
// no two items of one batch ever target the same artifact.
//
// Cancellation is honored between items, never mid-invocation: when the
// context is done, remaining items are recorded as canceled and the
// partial report is still returned in full.
func (s *Service) CompileBatch(ctx context.Context, inputs []Input) *BatchReport {
	report := &BatchReport{Entries: make([]Outcome, 0, len(inputs))}

	sources := make([]string, len(inputs))
	for i, in := range inputs {
		sources[i] = in.Source
	}
	stems := UniqueStems(sources)

	for i, in := range inputs {
		if in.Stem == "" {
			in.Stem = stems[i]
		}
		if err := ctx.Err(); err != nil {
			report.Entries = append(report.Entries, Outcome{
				Source: in.Source,
				Err:    &CompileError{Reason: ReasonCanceled, Message: err.Error()},
			})
			continue
		}
		report.Entries = append(report.Entries, s.Compile(ctx, in))
	}

	return report
}

// CompileBatchFiles reads and compiles the named fragment files,
// applying base options (layout, format, output directory) to each.
func (s *Service) CompileBatchFiles(ctx context.Context, paths []string, base Input) *BatchReport {
	report := &BatchReport{Entries: make([]Outcome, 0, len(paths))}
	stems := UniqueStems(paths)

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			report.Entries = append(report.Entries, Outcome{
				Source: path,
				Err:    &CompileError{Reason: ReasonCanceled, Message: err.Error()},
			})
			continue
		}
		in := base
		in.Source = path
		if in.Stem == "" {
			in.Stem = stems[i]
		}
		report.Entries = append(report.Entries, s.CompileFile(ctx, path, in))
	}

	return report
}

// UniqueStems derives one artifact stem per source identifier. A stem
// is the source base name when that name is unique within the batch,
// the flattened source path when two sources share a base name, and
// gets an ordinal suffix only when the identifiers themselves collide.
// The result is deterministic and order-preserving.
func UniqueStems(sources []string) []string {
	stems := make([]string, len(sources))
	counts := make(map[string]int, len(sources))
	for i, src := range sources {
		stems[i] = sourceStem(src)
		counts[stems[i]]++
	}

	for i, src := range sources {
		if counts[stems[i]] > 1 {
			stems[i] = pathStem(src)
		}
	}

	seen := make(map[string]int, len(sources))
	for i, stem := range stems {
		seen[stem]++
		if n := seen[stem]; n > 1 {
			stems[i] = fmt.Sprintf("%s_%d", stem, n)
		}
	}

	return stems
}

// pathStem flattens a source path into a stem: the extension dropped
// and directories joined with underscores.
func pathStem(source string) string {
	clean := filepath.ToSlash(filepath.Clean(source))
	clean = strings.TrimSuffix(clean, path.Ext(clean))
	clean = strings.Trim(clean, "/.")
	stem := strings.ReplaceAll(clean, "/", "_")
	if stem == "" {
		return "table"
	}
	return stem
}
