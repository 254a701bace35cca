package tabwrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-tabwrap/internal/hints"
)

// Service orchestrates the fragment-to-artifact pipeline: validation,
// package detection, document assembly, compiler invocation, and
// optional raster conversion. A Service is safe for sequential reuse;
// use a ServicePool for parallel batches.
type Service struct {
	cfg    serviceConfig
	runner CommandRunner
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.runner == nil {
		s.runner = ExecRunner{}
	}

	return s
}

// Compile runs the full pipeline for one fragment. It never returns an
// error: every failure is folded into the Outcome so that batch callers
// get uniform per-item results.
func (s *Service) Compile(ctx context.Context, in Input) (outcome Outcome) {
	start := time.Now()
	outcome = Outcome{Source: in.Source}
	defer func() { outcome.Duration = time.Since(start) }()

	if err := in.Validate(); err != nil {
		outcome.Err = inputFailure(err)
		return outcome
	}
	if err := ValidateFragment(in.TeX); err != nil {
		outcome.Err = inputFailure(err)
		return outcome
	}

	decls := MergeDeclarations(in.Packages, DetectPackages(in.TeX))
	doc := Assemble(in, decls)

	outDir := in.OutputDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		outcome.Err = &CompileError{
			Reason:  ReasonNoArtifact,
			Message: fmt.Sprintf("creating output directory: %v", err),
			Hint:    hints.ForOutputDirectory(),
		}
		return outcome
	}

	stem := in.artifactStem()

	// Each compilation gets its own working directory. Sources that
	// share a base name would otherwise clobber each other's
	// intermediates, and parallel workers would race on them.
	workDir, err := os.MkdirTemp(outDir, ".tabwrap-")
	if err != nil {
		outcome.Err = &CompileError{
			Reason:  ReasonNoArtifact,
			Message: fmt.Sprintf("creating work directory: %v", err),
			Hint:    hints.ForOutputDirectory(),
		}
		return outcome
	}
	defer func() {
		if s.cfg.keepIntermediate {
			preserveIntermediates(workDir, outDir, stem)
		}
		_ = os.RemoveAll(workDir)
	}()

	texPath := filepath.Join(workDir, stem+".tex")
	pdfPath := filepath.Join(workDir, stem+".pdf")

	if err := os.WriteFile(texPath, []byte(doc.Text), 0o644); err != nil { // #nosec G306 -- compiler input, meant to be readable
		outcome.Err = &CompileError{
			Reason:  ReasonNoArtifact,
			Message: fmt.Sprintf("writing assembled document: %v", err),
		}
		return outcome
	}

	cctx, cancel := context.WithTimeout(ctx, s.cfg.timeout)
	defer cancel()

	result, cerr := s.invokeCompiler(cctx, texPath, workDir, pdfPath)
	outcome.Warnings = result.Warnings
	if cerr != nil {
		outcome.Err = cerr
		return outcome
	}

	produced := pdfPath
	switch in.Format {
	case FormatPNG:
		pngPath, cerr := s.rasterizePNG(cctx, pdfPath, workDir, stem)
		if cerr != nil {
			outcome.Err = cerr
			return outcome
		}
		produced = pngPath
	case FormatSVG:
		svgPath, cerr := s.rasterizeSVG(cctx, pdfPath, workDir, stem)
		if cerr != nil {
			outcome.Err = cerr
			return outcome
		}
		produced = svgPath
	}

	artifact := filepath.Join(outDir, filepath.Base(produced))
	if err := os.Rename(produced, artifact); err != nil {
		outcome.Err = &CompileError{
			Reason:  ReasonNoArtifact,
			Message: fmt.Sprintf("placing artifact: %v", err),
		}
		return outcome
	}
	outcome.ArtifactPath = artifact

	return outcome
}

// CompileFile reads one fragment file and compiles it.
func (s *Service) CompileFile(ctx context.Context, path string, in Input) Outcome {
	content, err := os.ReadFile(path) // #nosec G304 -- caller-provided input path
	if err != nil {
		return Outcome{
			Source: path,
			Err: &CompileError{
				Reason:  ReasonMissingEnvironment,
				Message: fmt.Sprintf("reading fragment: %v", err),
			},
		}
	}
	in.TeX = string(content)
	if in.Source == "" {
		in.Source = path
	}
	return s.Compile(ctx, in)
}

// inputFailure maps a validation error to its failure reason. Fragments
// failing here never reach the compiler.
func inputFailure(err error) *CompileError {
	reason := ReasonSyntaxError
	if errors.Is(err, ErrEmptyFragment) || errors.Is(err, ErrNoTableEnv) {
		reason = ReasonMissingEnvironment
	}
	return &CompileError{Reason: reason, Message: err.Error()}
}

// artifactStem returns the effective output file stem: the explicit
// Stem when set, the Source base name otherwise, plus the suffix.
func (in Input) artifactStem() string {
	base := in.Stem
	if base == "" {
		base = sourceStem(in.Source)
	}
	return base + in.suffix()
}

// sourceStem derives the default artifact stem from a source
// identifier.
func sourceStem(source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "table"
	}
	return base
}

// artifactStem derives the output file stem from a source identifier.
func artifactStem(source, suffix string) string {
	return sourceStem(source) + suffix
}
