// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import "strings"

// ForMissingCompiler returns the hint for a missing pdflatex binary.
func ForMissingCompiler() string {
	return format("install a LaTeX distribution (TeX Live, MiKTeX) and ensure pdflatex is on PATH")
}

// ForMissingRasterTool returns the hint for a missing poppler tool.
func ForMissingRasterTool(tool string) string {
	return format("install poppler-utils to get " + tool)
}

// ForMissingPackage returns the hint for a package the compiler could
// not find.
func ForMissingPackage(pkg string) string {
	if pkg == "" {
		return ""
	}
	return format("install it with: tlmgr install " + pkg)
}

// ForUndefinedCommand returns the hint for an unknown control sequence.
func ForUndefinedCommand(cmd string) string {
	if cmd == "" {
		return format("check command spelling or add the providing package with --packages")
	}
	return format(`check the spelling of \` + cmd + ` or add its package with --packages`)
}

// ForMisplacedAlignment returns the hint for a stray & character.
func ForMisplacedAlignment() string {
	return format(`check & placement in the tabular body and ensure rows end with \\`)
}

// ForTimeout returns a hint about increasing timeout for slow compilations.
func ForTimeout() string {
	return format("for large tables, raise the --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-tabwrap") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
