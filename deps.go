package tabwrap

import (
	"context"
	"fmt"

	"github.com/alnah/go-tabwrap/internal/hints"
)

// CheckDependencies verifies the external tools a run will need before
// any fragment is processed: a missing compiler fails every item, so
// there is no point attempting the batch. The raster tool is only
// required for the requested output format.
func CheckDependencies(ctx context.Context, runner CommandRunner, format Format) error {
	if runner == nil {
		runner = ExecRunner{}
	}

	if !toolAvailable(ctx, runner, compilerBinary, "--version") {
		return fmt.Errorf("%w%s", ErrCompilerNotFound, hints.ForMissingCompiler())
	}

	switch format {
	case FormatPNG:
		if !toolAvailable(ctx, runner, pngTool, "-v") {
			return fmt.Errorf("%w: %s%s", ErrRasterToolMissing, pngTool, hints.ForMissingRasterTool(pngTool))
		}
	case FormatSVG:
		if !toolAvailable(ctx, runner, svgTool, "-v") {
			return fmt.Errorf("%w: %s%s", ErrRasterToolMissing, svgTool, hints.ForMissingRasterTool(svgTool))
		}
	}

	return nil
}

// toolAvailable probes a binary by running its version flag. Only a
// probe that actually ran counts as available: a missing binary, a
// permission failure, and a canceled context all mean the tool cannot
// serve the run.
func toolAvailable(ctx context.Context, runner CommandRunner, name string, versionArg string) bool {
	_, err := runner.Run(ctx, "", name, versionArg)
	return err == nil
}

// ToolVersion returns the first line a tool prints for its version
// flag, for diagnostics. poppler tools print the version to stderr.
func ToolVersion(ctx context.Context, runner CommandRunner, name string, versionArg string) (string, error) {
	if runner == nil {
		runner = ExecRunner{}
	}
	res, err := runner.Run(ctx, "", name, versionArg)
	if err != nil {
		return "", err
	}
	out := firstLine(res.Stdout)
	if out == "" {
		out = firstLine(res.Stderr)
	}
	return out, nil
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
