package tabwrap

import (
	"fmt"
	"strings"
	"time"
)

// Format selects the artifact type produced for a fragment.
type Format string

// Output format constants.
const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// Validate checks that the format is one of the known values.
// An empty format is valid and means FormatPDF.
func (f Format) Validate() error {
	switch f {
	case "", FormatPDF, FormatPNG, FormatSVG:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidFormat, string(f))
}

// Extension returns the artifact file extension including the dot.
func (f Format) Extension() string {
	if f == "" {
		return ".pdf"
	}
	return "." + string(f)
}

// DefaultSuffix is appended to artifact file stems so that compiled
// outputs are distinguishable from their source fragments and are
// skipped during directory re-discovery.
const DefaultSuffix = "_compiled"

// Layout controls how the document shell is assembled around a fragment.
// The zero value is portrait, resize enabled, no header.
type Layout struct {
	Landscape bool // rotate page geometry only, content is untouched
	NoResize  bool // disable the fit-to-width resize scaffold
	Header    bool // show the source name as a monospaced page header
}

// Input contains one fragment and its per-compilation options.
type Input struct {
	TeX       string   // fragment content (required)
	Source    string   // source identifier, usually the file path (required)
	OutputDir string   // directory for the artifact and intermediates
	Suffix    string   // artifact stem suffix (default DefaultSuffix)
	Stem      string   // artifact stem override; default is the Source base name
	Packages  []string // extra package names loaded before detected ones
	Layout    Layout
	Format    Format // pdf, png, or svg (default pdf)

	// PlainPageStyle numbers pages instead of leaving them blank.
	// Set when the artifact will be merged into a combined document.
	PlainPageStyle bool
}

// Validate checks that required fields are present and valid.
func (in Input) Validate() error {
	if strings.TrimSpace(in.TeX) == "" {
		return ErrEmptyFragment
	}
	if err := in.Format.Validate(); err != nil {
		return err
	}
	if strings.ContainsAny(in.Suffix, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidSuffix, in.Suffix)
	}
	if strings.ContainsAny(in.Stem, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidStem, in.Stem)
	}
	return nil
}

// suffix returns the effective artifact stem suffix.
func (in Input) suffix() string {
	if in.Suffix == "" {
		return DefaultSuffix
	}
	return in.Suffix
}

// Reason classifies why a compilation failed.
type Reason string

// Failure reason codes.
const (
	ReasonMissingEnvironment Reason = "missing-environment"
	ReasonMissingDependency  Reason = "missing-dependency"
	ReasonPackageError       Reason = "package-error"
	ReasonSyntaxError        Reason = "syntax-error"
	ReasonNoArtifact         Reason = "no-artifact"
	ReasonCanceled           Reason = "canceled"
)

// CompileError is the failure half of an Outcome. It carries a machine
// reason code, a human message, the offending log excerpt when one was
// identified, and a remediation hint.
type CompileError struct {
	Reason  Reason
	Message string
	Excerpt string // offending compiler log lines, may be empty
	Hint    string // actionable remediation, may be empty
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Reason, e.Message)
	if e.Hint != "" {
		msg += e.Hint
	}
	return msg
}

// Outcome is the per-fragment result of attempting compilation.
// Exactly one of ArtifactPath or Err is set.
type Outcome struct {
	Source       string
	ArtifactPath string
	Warnings     []string // compiler warnings, in log order
	Duration     time.Duration
	Err          *CompileError
}

// OK reports whether the compilation succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// BatchReport is the ordered collection of outcomes for a multi-file
// run. Entries preserve input order; no item is ever dropped.
type BatchReport struct {
	Entries []Outcome
}

// Succeeded returns the number of successful outcomes.
func (r *BatchReport) Succeeded() int { return len(r.Entries) - r.Failed() }

// Failed returns the number of failed outcomes.
func (r *BatchReport) Failed() int {
	n := 0
	for _, e := range r.Entries {
		if !e.OK() {
			n++
		}
	}
	return n
}

// Successes returns the successful outcomes in original batch order.
func (r *BatchReport) Successes() []Outcome {
	var out []Outcome
	for _, e := range r.Entries {
		if e.OK() {
			out = append(out, e)
		}
	}
	return out
}

// CombinedArtifact describes a merged PDF with one bookmark per source.
type CombinedArtifact struct {
	Path      string
	Bookmarks []Bookmark // original batch order
}

// Bookmark locates one merged sub-document inside a combined artifact.
type Bookmark struct {
	Source     string
	PageOffset int // first page of the sub-document, 1-based, after the TOC
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout          time.Duration
	keepIntermediate bool
}

// defaultTimeout bounds a single compiler invocation. pdflatex on a
// table fragment normally finishes in well under a second; a hung
// invocation must never stall the batch.
const defaultTimeout = 60 * time.Second

// WithTimeout sets the per-invocation compiler timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("tabwrap: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithKeepIntermediate retains the assembled .tex, .aux and .log files
// next to the artifact instead of removing them after compilation.
func WithKeepIntermediate(keep bool) Option {
	return func(s *Service) {
		s.cfg.keepIntermediate = keep
	}
}

// WithRunner replaces the command runner used for external tool
// invocations. Intended for tests.
func WithRunner(r CommandRunner) Option {
	return func(s *Service) {
		s.runner = r
	}
}
