package tabwrap

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/alnah/go-tabwrap/internal/fileutil"
	"github.com/alnah/go-tabwrap/internal/hints"
)

// Raster tool binaries (poppler-utils). Both are consumed as black-box
// file transforms over a produced PDF.
const (
	pngTool = "pdftoppm"
	svgTool = "pdftocairo"
)

// rasterDPI is the render resolution for PNG output.
const rasterDPI = "300"

// rasterizePNG converts the first PDF page into a tightly cropped PNG.
// Cropping uses the tool's crop-box handling; the assembled documents
// carry 1cm margins, so the visible whitespace stays small.
func (s *Service) rasterizePNG(ctx context.Context, pdfPath, outDir, stem string) (string, *CompileError) {
	prefix := filepath.Join(outDir, stem)
	pngPath := prefix + ".png"

	res, err := s.runner.Run(ctx, outDir, pngTool,
		"-png", "-r", rasterDPI, "-singlefile", "-cropbox", pdfPath, prefix)
	if err != nil {
		return "", rasterError(pngTool, err)
	}
	if res.ExitCode != 0 || !fileutil.FileExists(pngPath) {
		return "", &CompileError{
			Reason:  ReasonNoArtifact,
			Message: fmt.Sprintf("PNG conversion failed: %s", firstNonEmpty(res.Stderr, "no output produced")),
		}
	}
	return pngPath, nil
}

// rasterizeSVG converts the first PDF page into an SVG.
func (s *Service) rasterizeSVG(ctx context.Context, pdfPath, outDir, stem string) (string, *CompileError) {
	svgPath := filepath.Join(outDir, stem+".svg")

	res, err := s.runner.Run(ctx, outDir, svgTool,
		"-svg", "-f", "1", "-l", "1", pdfPath, svgPath)
	if err != nil {
		return "", rasterError(svgTool, err)
	}
	if res.ExitCode != 0 || !fileutil.FileExists(svgPath) {
		return "", &CompileError{
			Reason:  ReasonNoArtifact,
			Message: fmt.Sprintf("SVG conversion failed: %s", firstNonEmpty(res.Stderr, "no output produced")),
		}
	}
	return svgPath, nil
}

// rasterError maps a runner failure for a raster tool.
func rasterError(tool string, err error) *CompileError {
	if errors.Is(err, exec.ErrNotFound) {
		return &CompileError{
			Reason:  ReasonMissingDependency,
			Message: fmt.Sprintf("%s: %s", ErrRasterToolMissing.Error(), tool),
			Hint:    hints.ForMissingRasterTool(tool),
		}
	}
	return &CompileError{Reason: ReasonNoArtifact, Message: err.Error()}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
