package tabwrap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alnah/go-tabwrap/internal/fileutil"
	"github.com/alnah/go-tabwrap/internal/hints"
	"github.com/alnah/go-tabwrap/internal/texlog"
)

// RunResult captures one external tool invocation.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner abstracts command execution to enable testing without
// real subprocesses. A non-nil error means the command could not run at
// all (missing binary, canceled context); a non-zero exit is reported
// through ExitCode, not the error.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (RunResult, error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

// Run executes the command in dir and captures its output. The context
// bounds the invocation: an external compiler must never be allowed to
// hang a batch.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (RunResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := RunResult{Stdout: stdout.String(), Stderr: stderr.String()}

	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, fmt.Errorf("running %s: %w", name, err)
}

// compilerBinary is the external typesetting compiler.
const compilerBinary = "pdflatex"

// invokeCompiler runs pdflatex non-interactively against a document in
// workDir and classifies the result by inspecting the emitted log file
// and the artifact on disk, regardless of exit code.
func (s *Service) invokeCompiler(ctx context.Context, texPath, workDir, pdfPath string) (texlog.Result, *CompileError) {
	// The runner's working directory is workDir, so the document and
	// output directory are addressed relative to it.
	res, err := s.runner.Run(ctx, workDir, compilerBinary,
		"-interaction=nonstopmode", "-output-directory", ".", filepath.Base(texPath))
	if err != nil {
		return texlog.Result{}, runError(err, s)
	}

	logText := ""
	logPath := strings.TrimSuffix(texPath, ".tex") + ".log"
	if data, readErr := os.ReadFile(logPath); readErr == nil { // #nosec G304 -- path derived from our own output
		logText = string(data)
	}

	result := texlog.Classify(res.ExitCode, fileutil.FileExists(pdfPath), logText)
	if result.Fatal != nil {
		return result, compileErrorFromFinding(result.Fatal)
	}
	return result, nil
}

// runError maps a runner failure (process never ran) to a CompileError.
func runError(err error, s *Service) *CompileError {
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return &CompileError{
			Reason:  ReasonMissingDependency,
			Message: ErrCompilerNotFound.Error(),
			Hint:    hints.ForMissingCompiler(),
		}
	case errors.Is(err, context.DeadlineExceeded):
		return &CompileError{
			Reason:  ReasonNoArtifact,
			Message: fmt.Sprintf("compiler timed out after %s", s.cfg.timeout),
			Hint:    hints.ForTimeout(),
		}
	case errors.Is(err, context.Canceled):
		return &CompileError{Reason: ReasonCanceled, Message: "compilation canceled"}
	default:
		return &CompileError{Reason: ReasonMissingDependency, Message: err.Error()}
	}
}

// compileErrorFromFinding converts a classified log finding into the
// user-facing failure, attaching the matching remediation hint.
func compileErrorFromFinding(f *texlog.Finding) *CompileError {
	ce := &CompileError{
		Message: f.Message,
		Excerpt: f.Excerpt,
	}
	switch f.Code {
	case texlog.CodePackageError:
		ce.Reason = ReasonPackageError
		ce.Hint = hints.ForMissingPackage(f.Detail)
	case texlog.CodeNoArtifact:
		ce.Reason = ReasonNoArtifact
	default:
		ce.Reason = ReasonSyntaxError
		switch {
		case strings.Contains(f.Message, "undefined control sequence"):
			ce.Hint = hints.ForUndefinedCommand(f.Detail)
		case strings.Contains(f.Message, "misplaced alignment"):
			ce.Hint = hints.ForMisplacedAlignment()
		}
	}
	if f.Line > 0 {
		ce.Message = fmt.Sprintf("%s (input line %d)", ce.Message, f.Line)
	}
	return ce
}

// removeIntermediates deletes the compiler's working files for a stem,
// keeping only the artifact.
func removeIntermediates(workDir, stem string) {
	fileutil.RemoveAllQuiet(
		filepath.Join(workDir, stem+".tex"),
		filepath.Join(workDir, stem+".aux"),
		filepath.Join(workDir, stem+".log"),
		filepath.Join(workDir, stem+".out"),
	)
}

// preserveIntermediates moves the compiler's working files next to the
// artifact before the work directory is discarded.
func preserveIntermediates(workDir, outDir, stem string) {
	for _, ext := range []string{".tex", ".aux", ".log", ".out"} {
		src := filepath.Join(workDir, stem+ext)
		if fileutil.FileExists(src) {
			_ = os.Rename(src, filepath.Join(outDir, stem+ext))
		}
	}
}
