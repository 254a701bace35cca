package tabwrap

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"
)

func TestCompileBatch(t *testing.T) {
	t.Parallel()

	t.Run("failure does not abort the run", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		svc := New(WithRunner(&fakeRunner{}))

		inputs := []Input{
			{TeX: fragmentTabular, Source: "first.tex", OutputDir: dir},
			{TeX: "no table environment", Source: "second.tex", OutputDir: dir},
			{TeX: fragmentTabular, Source: "third.tex", OutputDir: dir},
		}

		report := svc.CompileBatch(context.Background(), inputs)

		if len(report.Entries) != 3 {
			t.Fatalf("Entries = %d, want 3", len(report.Entries))
		}
		if report.Succeeded() != 2 || report.Failed() != 1 {
			t.Errorf("Succeeded/Failed = %d/%d, want 2/1", report.Succeeded(), report.Failed())
		}
		for i, want := range []string{"first.tex", "second.tex", "third.tex"} {
			if report.Entries[i].Source != want {
				t.Errorf("Entries[%d].Source = %q, want %q", i, report.Entries[i].Source, want)
			}
		}
		if report.Entries[1].OK() {
			t.Error("invalid fragment reported as success")
		}
	})

	t.Run("canceled context records remaining items", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		svc := New(WithRunner(&fakeRunner{}))
		inputs := []Input{
			{TeX: fragmentTabular, Source: "a.tex", OutputDir: t.TempDir()},
			{TeX: fragmentTabular, Source: "b.tex", OutputDir: t.TempDir()},
		}

		report := svc.CompileBatch(ctx, inputs)

		if len(report.Entries) != 2 {
			t.Fatalf("Entries = %d, want 2", len(report.Entries))
		}
		for i, e := range report.Entries {
			if e.OK() {
				t.Errorf("Entries[%d] succeeded under canceled context", i)
				continue
			}
			if e.Err.Reason != ReasonCanceled {
				t.Errorf("Entries[%d].Reason = %q, want %q", i, e.Err.Reason, ReasonCanceled)
			}
		}
	})

	t.Run("empty input yields empty report", func(t *testing.T) {
		t.Parallel()

		svc := New(WithRunner(&fakeRunner{}))
		report := svc.CompileBatch(context.Background(), nil)

		if len(report.Entries) != 0 {
			t.Errorf("Entries = %d, want 0", len(report.Entries))
		}
		if report.Succeeded() != 0 || report.Failed() != 0 {
			t.Errorf("Succeeded/Failed = %d/%d, want 0/0", report.Succeeded(), report.Failed())
		}
	})
}

func TestCompileBatchFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.tex")
	if err := os.WriteFile(good, []byte(fragmentTabular), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.tex")

	svc := New(WithRunner(&fakeRunner{}))
	report := svc.CompileBatchFiles(context.Background(), []string{good, missing}, Input{OutputDir: dir})

	if len(report.Entries) != 2 {
		t.Fatalf("Entries = %d, want 2", len(report.Entries))
	}
	if !report.Entries[0].OK() {
		t.Errorf("good file failed: %+v", report.Entries[0].Err)
	}
	if report.Entries[1].OK() {
		t.Error("missing file reported as success")
	}
	if got := report.Successes(); len(got) != 1 || got[0].Source != good {
		t.Errorf("Successes() = %+v, want just the good file", got)
	}
}

func TestCompileBatchFilesDuplicateBaseNames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	sources := map[string]string{
		filepath.Join(dir, "alpha", "x.tex"): "\\begin{tabular}{l}\nALPHA \\\\\n\\end{tabular}",
		filepath.Join(dir, "bravo", "x.tex"): "\\begin{tabular}{l}\nBRAVO \\\\\n\\end{tabular}",
	}
	paths := make([]string, 0, len(sources))
	for p, frag := range sources {
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(frag), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)

	svc := New(WithRunner(&fakeRunner{echoTeX: true}))
	report := svc.CompileBatchFiles(context.Background(), paths, Input{OutputDir: out})

	if report.Failed() != 0 {
		t.Fatalf("Failed = %d, want 0", report.Failed())
	}
	if a, b := report.Entries[0].ArtifactPath, report.Entries[1].ArtifactPath; a == b {
		t.Fatalf("both entries report the same artifact %q", a)
	}
	for i, marker := range []string{"ALPHA", "BRAVO"} {
		body, err := os.ReadFile(report.Entries[i].ArtifactPath)
		if err != nil {
			t.Fatalf("Entries[%d] artifact missing: %v", i, err)
		}
		if !strings.Contains(string(body), marker) {
			t.Errorf("Entries[%d] artifact = %q, want it built from %s", i, body, marker)
		}
	}
}

func TestUniqueStems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sources []string
		want    []string
	}{
		{
			name:    "unique base names stay plain",
			sources: []string{"a/x.tex", "a/y.tex"},
			want:    []string{"x", "y"},
		},
		{
			name:    "duplicate base names get path qualified",
			sources: []string{"a/x.tex", "b/x.tex"},
			want:    []string{"a_x", "b_x"},
		},
		{
			name:    "identical sources get numbered",
			sources: []string{"x.tex", "x.tex"},
			want:    []string{"x", "x_2"},
		},
		{
			name:    "qualification collision gets numbered",
			sources: []string{"a/x.tex", "b/x.tex", "a_x.tex"},
			want:    []string{"a_x", "b_x", "a_x_2"},
		},
		{
			name:    "absolute paths flatten cleanly",
			sources: []string{"/data/a/x.tex", "/data/b/x.tex"},
			want:    []string{"data_a_x", "data_b_x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := UniqueStems(tt.sources); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("UniqueStems(%v) = %v, want %v", tt.sources, got, tt.want)
			}
		})
	}
}
