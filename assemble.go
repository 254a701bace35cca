package tabwrap

import (
	"path/filepath"
	"strings"
)

// AssembledDocument is a fragment wrapped with the structure needed for
// standalone compilation. It is transient: written to disk for one
// compiler invocation and removed unless intermediates are kept.
type AssembledDocument struct {
	Text   string
	Source string
	Layout Layout
}

// Scaffold markers. Assembly emits these verbatim so that
// ExtractFragment can recover the original fragment byte-for-byte.
const (
	resizeOpen  = "\\begin{center}\n\\resizebox{\\linewidth}{!}{%\n"
	resizeClose = "\n}\n\\end{center}"
	centerOpen  = "\\begin{center}\n"
	centerClose = "\n\\end{center}"
	docOpen     = "\\begin{document}\n"
	docClose    = "\n\\end{document}\n"
)

// Assemble wraps a fragment in a minimal document shell: preamble,
// package declarations in dependency order, layout directives, body.
// Assembly is pure text composition and never fails; it does not
// validate LaTeX correctness.
func Assemble(in Input, decls []PackageDeclaration) AssembledDocument {
	var b strings.Builder
	selfContained := IsSelfContained(in.TeX)
	resize := !in.Layout.NoResize && !selfContained
	header := headerLabel(in)

	b.WriteString("\\documentclass{article}\n")

	geometry := []string{"margin=1cm"}
	if in.Layout.Landscape {
		geometry = append(geometry, "landscape")
	}
	b.WriteString(PackageDeclaration{Name: "geometry", Options: geometry}.Command())
	b.WriteString("\n")

	if in.Layout.Header && strings.Contains(filepath.Base(in.Source), "_") {
		b.WriteString("\\usepackage{underscore}\n")
	}
	if resize {
		decls = MergeDeclarations(nil, append(decls, PackageDeclaration{Name: "graphicx"}))
	}
	for _, d := range decls {
		b.WriteString(d.Command())
		b.WriteString("\n")
	}

	if in.PlainPageStyle {
		b.WriteString("\\pagestyle{plain}\n")
	} else {
		b.WriteString("\\pagestyle{empty}\n")
	}

	b.WriteString(docOpen)
	if header != "" {
		b.WriteString("\\begin{center}\\texttt{" + header + "}\\end{center}\n")
	}

	switch {
	case selfContained:
		// A full float or multi-page table brings its own placement;
		// wrapping it in the resize/centering scaffold nests
		// incompatible environments.
		b.WriteString(in.TeX)
	case resize:
		b.WriteString(resizeOpen)
		b.WriteString(in.TeX)
		b.WriteString(resizeClose)
	default:
		b.WriteString(centerOpen)
		b.WriteString(in.TeX)
		b.WriteString(centerClose)
	}
	b.WriteString(docClose)

	return AssembledDocument{Text: b.String(), Source: in.Source, Layout: in.Layout}
}

// IsSelfContained reports whether the fragment already carries a full
// float environment or a multi-page table, either of which must not be
// wrapped in the bare-fragment resize/centering scaffold.
func IsSelfContained(content string) bool {
	return strings.Contains(content, `\begin{table}`) ||
		strings.Contains(content, `\begin{table*}`) ||
		strings.Contains(content, `\begin{longtable}`)
}

// ExtractFragment recovers the original fragment from an assembled
// document. It is the inverse of Assemble for any layout: the scaffold
// markers are fixed strings, so recovery is byte-for-byte.
func ExtractFragment(doc string) (string, bool) {
	start := strings.Index(doc, docOpen)
	end := strings.LastIndex(doc, docClose)
	if start < 0 || end < 0 || start+len(docOpen) > end {
		return "", false
	}
	body := doc[start+len(docOpen) : end]

	// Drop the optional header line.
	if strings.HasPrefix(body, "\\begin{center}\\texttt{") {
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			body = body[nl+1:]
		}
	}

	if strings.HasPrefix(body, resizeOpen) && strings.HasSuffix(body, resizeClose) {
		return body[len(resizeOpen) : len(body)-len(resizeClose)], true
	}
	if strings.HasPrefix(body, centerOpen) && strings.HasSuffix(body, centerClose) {
		return body[len(centerOpen) : len(body)-len(centerClose)], true
	}
	return body, true
}

// headerLabel returns the escaped display label for the page header,
// or "" when the header is disabled.
func headerLabel(in Input) string {
	if !in.Layout.Header {
		return ""
	}
	return DisplayName(in.Source, in.suffix())
}

// DisplayName cleans a source identifier for LaTeX display: the base
// name without extension, with the output suffix removed and
// underscores escaped.
func DisplayName(source, suffix string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, suffix, "")
	return strings.ReplaceAll(base, "_", `\_`)
}
