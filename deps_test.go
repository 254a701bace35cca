package tabwrap

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"testing"
)

// probeRunner answers version probes, failing for the named binaries.
type probeRunner struct {
	missing map[string]bool
	err     error // returned for every probe that is not missing
	stdout  string
	stderr  string
}

func (p *probeRunner) Run(_ context.Context, _, name string, _ ...string) (RunResult, error) {
	if p.missing[name] {
		return RunResult{}, exec.ErrNotFound
	}
	if p.err != nil {
		return RunResult{}, p.err
	}
	return RunResult{Stdout: p.stdout, Stderr: p.stderr}, nil
}

func TestCheckDependencies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		missing map[string]bool
		format  Format
		wantErr error
	}{
		{
			name:   "all tools present",
			format: FormatPDF,
		},
		{
			name:    "compiler missing",
			missing: map[string]bool{"pdflatex": true},
			format:  FormatPDF,
			wantErr: ErrCompilerNotFound,
		},
		{
			name:    "png tool missing only matters for png",
			missing: map[string]bool{"pdftoppm": true},
			format:  FormatPDF,
		},
		{
			name:    "png tool missing for png format",
			missing: map[string]bool{"pdftoppm": true},
			format:  FormatPNG,
			wantErr: ErrRasterToolMissing,
		},
		{
			name:    "svg tool missing for svg format",
			missing: map[string]bool{"pdftocairo": true},
			format:  FormatSVG,
			wantErr: ErrRasterToolMissing,
		},
		{
			name:    "svg tool missing ignored for pdf",
			missing: map[string]bool{"pdftocairo": true},
			format:  FormatPDF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckDependencies(context.Background(), &probeRunner{missing: tt.missing}, tt.format)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("CheckDependencies() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckDependencies() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckDependenciesProbeError(t *testing.T) {
	t.Parallel()

	// A probe that cannot run at all means the tool cannot serve the
	// batch, whatever the underlying error was.
	r := &probeRunner{err: os.ErrPermission}
	if err := CheckDependencies(context.Background(), r, FormatPDF); !errors.Is(err, ErrCompilerNotFound) {
		t.Errorf("CheckDependencies() = %v, want %v", err, ErrCompilerNotFound)
	}
}

func TestToolVersion(t *testing.T) {
	t.Parallel()

	t.Run("first stdout line", func(t *testing.T) {
		t.Parallel()

		r := &probeRunner{stdout: "pdfTeX 3.141592653\nmore output\n"}
		got, err := ToolVersion(context.Background(), r, "pdflatex", "--version")
		if err != nil {
			t.Fatalf("ToolVersion() error = %v", err)
		}
		if got != "pdfTeX 3.141592653" {
			t.Errorf("ToolVersion() = %q, want first stdout line", got)
		}
	})

	t.Run("falls back to stderr", func(t *testing.T) {
		t.Parallel()

		r := &probeRunner{stderr: "pdftoppm version 24.02.0\ncopyright\n"}
		got, err := ToolVersion(context.Background(), r, "pdftoppm", "-v")
		if err != nil {
			t.Fatalf("ToolVersion() error = %v", err)
		}
		if got != "pdftoppm version 24.02.0" {
			t.Errorf("ToolVersion() = %q, want first stderr line", got)
		}
	})

	t.Run("missing tool reports error", func(t *testing.T) {
		t.Parallel()

		r := &probeRunner{missing: map[string]bool{"pdflatex": true}}
		if _, err := ToolVersion(context.Background(), r, "pdflatex", "--version"); !errors.Is(err, exec.ErrNotFound) {
			t.Errorf("ToolVersion() error = %v, want %v", err, exec.ErrNotFound)
		}
	})
}
