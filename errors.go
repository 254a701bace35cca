package tabwrap

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyFragment     = errors.New("fragment content cannot be empty")
	ErrNoTableEnv        = errors.New("no table environment found")
	ErrMismatchedEnv     = errors.New("mismatched table environment tags")
	ErrUnbalancedBraces  = errors.New("unbalanced braces")
	ErrRowMissingBreak   = errors.New("table row does not end with \\\\")
	ErrLongtableInFloat  = errors.New("longtable cannot be used inside a table float")
	ErrCompilerNotFound  = errors.New("pdflatex not found")
	ErrRasterToolMissing = errors.New("raster tool not found")
	ErrCompileFailed     = errors.New("compilation failed")
	ErrNoArtifact        = errors.New("no output artifact produced")
	ErrNothingToCombine  = errors.New("no eligible PDF artifacts to combine")

	// Layout validation errors.
	ErrInvalidFormat = errors.New("invalid output format")
	ErrInvalidSuffix = errors.New("invalid output suffix")
	ErrInvalidStem   = errors.New("invalid artifact stem")
)
