package main

import (
	"errors"
	"os"

	tabwrap "github.com/alnah/go-tabwrap"
	"github.com/alnah/go-tabwrap/internal/config"
)

// Exit codes for the tabwrap CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // All files compiled
	ExitGeneral  = 1 // General/unexpected error (including partial batch failure)
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitCompiler = 4 // External compiler or tool missing
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrConflictingFormats),
		errors.Is(err, ErrInvalidWorkerCount),
		errors.Is(err, ErrInvalidTimeout),
		errors.Is(err, ErrInvalidExtension),
		errors.Is(err, tabwrap.ErrInvalidFormat),
		errors.Is(err, config.ErrConfigParse),
		errors.Is(err, config.ErrEmptyConfigName):
		return ExitUsage

	case errors.Is(err, ErrNoInput),
		errors.Is(err, config.ErrConfigNotFound),
		errors.Is(err, os.ErrNotExist),
		errors.Is(err, os.ErrPermission):
		return ExitIO

	case errors.Is(err, tabwrap.ErrCompilerNotFound),
		errors.Is(err, tabwrap.ErrRasterToolMissing):
		return ExitCompiler
	}

	return ExitGeneral
}
