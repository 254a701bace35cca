// Package texlog classifies pdflatex runs by inspecting the log file
// the compiler leaves behind. The compiler's exit code is not a
// reliable success signal: in nonstop mode it can exit zero with fatal
// errors in the log, and it can exit non-zero after producing a perfectly
// usable artifact.
//
// Precedence policy (deliberate choice, not inherited behavior): a
// fatal marker in the log always means failure; an existing artifact
// with no fatal marker always means success; a missing artifact is
// always failure. The raw exit code only flavors the fallback message.
package texlog

import (
	"fmt"
	"regexp"
	"strings"
)

// Code identifies a class of fatal compiler diagnostic.
type Code string

// Fatal diagnostic codes.
const (
	CodePackageError Code = "package-error"
	CodeSyntaxError  Code = "syntax-error"
	CodeNoArtifact   Code = "no-artifact"
)

// Finding is one classified fatal diagnostic extracted from a log.
type Finding struct {
	Code    Code
	Message string
	Excerpt string // log lines around the marker
	Line    int    // input line number when the log records one, else 0
	Detail  string // pattern-specific capture: package name, command name
}

// Result is the classification of one compiler run.
type Result struct {
	Fatal    *Finding // nil means success
	Warnings []string // non-fatal diagnostics, in log order
}

// OK reports whether the run is classified as successful.
func (r Result) OK() bool { return r.Fatal == nil }

// fatalPattern pairs a log regexp with its classification.
type fatalPattern struct {
	re      *regexp.Regexp
	code    Code
	message func(m []string) string
	detail  func(m []string) string
}

var fatalPatterns = []fatalPattern{
	{
		re:   regexp.MustCompile("! LaTeX Error: File `([^']+)\\.sty' not found"),
		code: CodePackageError,
		message: func(m []string) string {
			return fmt.Sprintf("required package %q is not installed", m[1])
		},
		detail: func(m []string) string { return m[1] },
	},
	{
		re:   regexp.MustCompile(`! Undefined control sequence\.?\s*\n[^\n]*\\([a-zA-Z@]+)`),
		code: CodeSyntaxError,
		message: func(m []string) string {
			return fmt.Sprintf(`undefined control sequence \%s`, m[1])
		},
		detail: func(m []string) string { return m[1] },
	},
	{
		re:      regexp.MustCompile(`! Undefined control sequence`),
		code:    CodeSyntaxError,
		message: func([]string) string { return "undefined control sequence" },
	},
	{
		re:      regexp.MustCompile(`! Misplaced alignment tab character &`),
		code:    CodeSyntaxError,
		message: func([]string) string { return "misplaced alignment tab character &" },
	},
	{
		re:   regexp.MustCompile(`! (?:LaTeX Error: )?\\begin\{([^}]+)\}(?: on input line (\d+))? ended by \\end\{([^}]+)\}`),
		code: CodeSyntaxError,
		message: func(m []string) string {
			return fmt.Sprintf(`environment mismatch: \begin{%s} ended by \end{%s}`, m[1], m[3])
		},
		detail: func(m []string) string { return m[1] },
	},
	{
		re:      regexp.MustCompile(`! Runaway argument\?`),
		code:    CodeSyntaxError,
		message: func([]string) string { return "runaway argument: missing closing brace or unexpected line break" },
	},
	{
		re:   regexp.MustCompile(`(?m)^! (.+)$`),
		code: CodeSyntaxError,
		message: func(m []string) string {
			return strings.TrimSpace(m[1])
		},
	},
}

// warningRe matches the non-fatal diagnostics worth surfacing.
var warningRe = regexp.MustCompile(`(?m)^(Overfull \\[hv]box .*|Underfull \\[hv]box .*|LaTeX Warning: .*)$`)

// inputLineRe finds the "l.<n>" context marker pdflatex prints after an
// error, giving the input line number.
var inputLineRe = regexp.MustCompile(`\nl\.(\d+)`)

// excerptWindow bounds how much log context is attached to a finding.
const excerptWindow = 200

// Classify decides the outcome of a compiler run from its exit code,
// whether the expected artifact exists, and the log text.
func Classify(exitCode int, artifactExists bool, logText string) Result {
	res := Result{Warnings: warnings(logText)}

	fatal := findFatal(logText)

	if !artifactExists {
		if fatal == nil {
			fatal = &Finding{
				Code:    CodeNoArtifact,
				Message: fmt.Sprintf("compiler exited with code %d but produced no artifact", exitCode),
			}
		}
		res.Fatal = fatal
		return res
	}

	// Artifact exists: a fatal marker still wins, its absence means
	// success regardless of exit code.
	res.Fatal = fatal
	return res
}

// findFatal returns the first classified fatal marker in the log, or
// nil. Patterns are ordered most-specific first; the generic "! ..."
// catch-all runs last.
func findFatal(logText string) *Finding {
	for _, p := range fatalPatterns {
		loc := p.re.FindStringSubmatchIndex(logText)
		if loc == nil {
			continue
		}
		m := matchStrings(logText, loc)
		f := &Finding{
			Code:    p.code,
			Message: p.message(m),
			Excerpt: excerptAround(logText, loc[0]),
		}
		if p.detail != nil {
			f.Detail = p.detail(m)
		}
		if lm := inputLineRe.FindStringSubmatch(logText[loc[0]:min(len(logText), loc[0]+excerptWindow)]); lm != nil {
			fmt.Sscanf(lm[1], "%d", &f.Line)
		}
		return f
	}
	return nil
}

// warnings extracts box and LaTeX warnings in log order.
func warnings(logText string) []string {
	var out []string
	for _, m := range warningRe.FindAllString(logText, -1) {
		out = append(out, strings.TrimSpace(m))
	}
	return out
}

// excerptAround returns the log lines surrounding an offset, trimmed to
// the excerpt window.
func excerptAround(logText string, offset int) string {
	start := strings.LastIndexByte(logText[:offset], '\n') + 1
	end := offset + excerptWindow
	if end > len(logText) {
		end = len(logText)
	}
	if nl := strings.IndexByte(logText[end:], '\n'); nl < 0 {
		end = len(logText)
	} else {
		end += nl
	}
	return strings.TrimSpace(logText[start:end])
}

func matchStrings(s string, loc []int) []string {
	out := make([]string, len(loc)/2)
	for i := range out {
		if loc[2*i] < 0 {
			continue
		}
		out[i] = s[loc[2*i]:loc[2*i+1]]
	}
	return out
}
