package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tabwrap "github.com/alnah/go-tabwrap"
)

// stubRunner fakes pdflatex by dropping the artifact and log a real run
// would leave in the working directory.
type stubRunner struct{}

func (stubRunner) Run(_ context.Context, dir, name string, args ...string) (tabwrap.RunResult, error) {
	if name == "pdflatex" {
		stem := strings.TrimSuffix(args[len(args)-1], ".tex")
		if err := os.WriteFile(filepath.Join(dir, stem+".pdf"), []byte("%PDF-1.4"), 0o644); err != nil {
			return tabwrap.RunResult{}, err
		}
		if err := os.WriteFile(filepath.Join(dir, stem+".log"), nil, 0o644); err != nil {
			return tabwrap.RunResult{}, err
		}
	}
	return tabwrap.RunResult{}, nil
}

func TestCompileBatchPool(t *testing.T) {
	t.Parallel()

	t.Run("preserves discovery order under concurrency", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var files []string
		for _, name := range []string{"a.tex", "b.tex", "c.tex", "d.tex"} {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte("\\begin{tabular}{l}\nx \\\\\n\\end{tabular}"), 0o644); err != nil {
				t.Fatal(err)
			}
			files = append(files, path)
		}

		pool := tabwrap.NewServicePool(3, tabwrap.WithRunner(stubRunner{}))
		defer pool.Close()

		report := compileBatch(context.Background(), pool, files, tabwrap.Input{OutputDir: dir})

		if len(report.Entries) != len(files) {
			t.Fatalf("Entries = %d, want %d", len(report.Entries), len(files))
		}
		for i, f := range files {
			if report.Entries[i].Source != f {
				t.Errorf("Entries[%d].Source = %q, want %q", i, report.Entries[i].Source, f)
			}
			if !report.Entries[i].OK() {
				t.Errorf("Entries[%d] failed: %+v", i, report.Entries[i].Err)
			}
		}
	})

	t.Run("one bad file does not sink the batch", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		good := filepath.Join(dir, "good.tex")
		bad := filepath.Join(dir, "bad.tex")
		if err := os.WriteFile(good, []byte("\\begin{tabular}{l}\nx \\\\\n\\end{tabular}"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(bad, []byte("no table environment here"), 0o644); err != nil {
			t.Fatal(err)
		}

		pool := tabwrap.NewServicePool(2, tabwrap.WithRunner(stubRunner{}))
		defer pool.Close()

		report := compileBatch(context.Background(), pool, []string{good, bad}, tabwrap.Input{OutputDir: dir})

		if report.Succeeded() != 1 || report.Failed() != 1 {
			t.Errorf("Succeeded/Failed = %d/%d, want 1/1", report.Succeeded(), report.Failed())
		}
	})

	t.Run("same base name in two directories keeps both artifacts", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		out := filepath.Join(dir, "out")
		var files []string
		for _, sub := range []string{"alpha", "bravo"} {
			path := filepath.Join(dir, sub, "x.tex")
			if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(path, []byte("\\begin{tabular}{l}\nx \\\\\n\\end{tabular}"), 0o644); err != nil {
				t.Fatal(err)
			}
			files = append(files, path)
		}

		pool := tabwrap.NewServicePool(2, tabwrap.WithRunner(stubRunner{}))
		defer pool.Close()

		report := compileBatch(context.Background(), pool, files, tabwrap.Input{OutputDir: out})

		if report.Failed() != 0 {
			t.Fatalf("Failed = %d, want 0", report.Failed())
		}
		first, second := report.Entries[0].ArtifactPath, report.Entries[1].ArtifactPath
		if first == second {
			t.Fatalf("both entries report the same artifact %q", first)
		}
		for i, path := range []string{first, second} {
			if _, err := os.Stat(path); err != nil {
				t.Errorf("Entries[%d] artifact missing: %v", i, err)
			}
		}
	})

	t.Run("canceled context still yields a complete report", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		dir := t.TempDir()
		path := filepath.Join(dir, "a.tex")
		if err := os.WriteFile(path, []byte("\\begin{tabular}{l}\nx \\\\\n\\end{tabular}"), 0o644); err != nil {
			t.Fatal(err)
		}

		pool := tabwrap.NewServicePool(1, tabwrap.WithRunner(stubRunner{}))
		defer pool.Close()

		report := compileBatch(ctx, pool, []string{path}, tabwrap.Input{OutputDir: dir})

		if len(report.Entries) != 1 {
			t.Fatalf("Entries = %d, want 1", len(report.Entries))
		}
		if report.Entries[0].OK() {
			t.Error("entry succeeded under canceled context")
		}
		if report.Entries[0].Err.Reason != tabwrap.ReasonCanceled {
			t.Errorf("Reason = %q, want %q", report.Entries[0].Err.Reason, tabwrap.ReasonCanceled)
		}
	})

	t.Run("empty file list yields empty report", func(t *testing.T) {
		t.Parallel()

		pool := tabwrap.NewServicePool(1, tabwrap.WithRunner(stubRunner{}))
		defer pool.Close()

		report := compileBatch(context.Background(), pool, nil, tabwrap.Input{})
		if len(report.Entries) != 0 {
			t.Errorf("Entries = %d, want 0", len(report.Entries))
		}
	})
}
