package tabwrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-tabwrap/internal/fileutil"
)

// combinedStem names the combined artifact files.
const combinedStem = "tex_tables_combined"

// combinedPreamble is the shell of the combined document: pdfpages for
// inclusion, hyperref/bookmark for navigation, fancyhdr for the running
// source-name header.
const combinedPreamble = `\documentclass{article}
\usepackage[margin=2.5cm]{geometry}
\usepackage{underscore}
\usepackage{pdfpages}
\usepackage{hyperref}
\usepackage{bookmark}
\usepackage{fancyhdr}
\pagestyle{fancy}
\fancyhf{}
\renewcommand{\headrulewidth}{0pt}
\fancyhead[C]{\currentSection}
\fancyfoot[C]{\thepage}
\newcommand{\currentSection}{}
\newcommand{\setCurrentSection}[1]{\renewcommand{\currentSection}{#1}}
\setlength{\headheight}{14pt}
\setlength{\topmargin}{-0.5in}
\setlength{\headsep}{25pt}
\begin{document}
\tableofcontents
\newpage
`

// pdfPagesRe extracts the page count from pdfinfo output.
var pdfPagesRe = regexp.MustCompile(`(?m)^Pages:\s+(\d+)$`)

// Combine merges the successful PDF artifacts of a report into one
// document with a table of contents and one bookmark per source,
// preserving original batch order. Only PDF outcomes are eligible;
// PNG/SVG artifacts are skipped (documented limitation, not a failure).
// An empty eligible set returns ErrNothingToCombine rather than an
// empty artifact.
func (s *Service) Combine(ctx context.Context, report *BatchReport, outputDir string) (*CombinedArtifact, error) {
	var eligible []Outcome
	for _, o := range report.Successes() {
		if strings.EqualFold(filepath.Ext(o.ArtifactPath), ".pdf") {
			eligible = append(eligible, o)
		}
	}
	if len(eligible) == 0 {
		return nil, ErrNothingToCombine
	}

	if outputDir == "" {
		outputDir = "."
	}

	artifact := &CombinedArtifact{
		Path:      filepath.Join(outputDir, combinedStem+".pdf"),
		Bookmarks: make([]Bookmark, 0, len(eligible)),
	}

	var b strings.Builder
	b.WriteString(combinedPreamble)

	offset := 1
	for _, o := range eligible {
		name := DisplayName(o.Source, DefaultSuffix)
		artifact.Bookmarks = append(artifact.Bookmarks, Bookmark{Source: o.Source, PageOffset: offset})

		b.WriteString("\\phantomsection\n")
		b.WriteString("\\setCurrentSection{\\texttt{" + name + "}}\n")
		b.WriteString("\\addcontentsline{toc}{section}{\\texttt{" + name + "}}\n")
		fmt.Fprintf(&b, "\\includepdf[pages=-,pagecommand={\\thispagestyle{fancy}\\setcounter{page}{%d}},offset=0 -1cm]{%s}\n",
			offset+1, includePath(outputDir, o.ArtifactPath))

		offset += s.pageCount(ctx, o.ArtifactPath)
	}
	b.WriteString("\\end{document}\n")

	texPath := filepath.Join(outputDir, combinedStem+".tex")
	if err := os.WriteFile(texPath, []byte(b.String()), 0o644); err != nil { // #nosec G306 -- compiler input
		return nil, fmt.Errorf("writing combined document: %w", err)
	}
	if !s.cfg.keepIntermediate {
		defer func() {
			removeIntermediates(outputDir, combinedStem)
			fileutil.RemoveAllQuiet(filepath.Join(outputDir, combinedStem+".toc"))
		}()
	}

	pdfPath := filepath.Join(outputDir, combinedStem+".pdf")

	// Two passes: the first writes the .toc file, the second typesets it.
	for pass := 0; pass < 2; pass++ {
		cctx, cancel := context.WithTimeout(ctx, s.cfg.timeout)
		_, cerr := s.invokeCompiler(cctx, texPath, outputDir, pdfPath)
		cancel()
		if cerr != nil {
			return nil, fmt.Errorf("%w: %v", ErrCompileFailed, cerr)
		}
	}

	if !fileutil.FileExists(pdfPath) {
		return nil, ErrNoArtifact
	}
	return artifact, nil
}

// includePath resolves an artifact path for inclusion from the
// combined document, which the compiler reads from outputDir.
// Artifacts are not required to live in outputDir.
func includePath(outputDir, artifactPath string) string {
	if rel, err := filepath.Rel(outputDir, artifactPath); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(artifactPath)
}

// pageCount asks pdfinfo for the page count of an artifact. Table
// artifacts are single pages in the normal case, so a missing or
// failing pdfinfo degrades to 1 rather than failing the combine.
func (s *Service) pageCount(ctx context.Context, pdfPath string) int {
	res, err := s.runner.Run(ctx, filepath.Dir(pdfPath), "pdfinfo", filepath.Base(pdfPath))
	if err != nil || res.ExitCode != 0 {
		return 1
	}
	m := pdfPagesRe.FindStringSubmatch(res.Stdout)
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 1
	}
	return n
}
