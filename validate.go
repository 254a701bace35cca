package tabwrap

import (
	"fmt"
	"strings"
)

// tableEnvironments are the environments that make a fragment
// compilable table content.
var tableEnvironments = []string{"tabular", "tabularx", "tabular*", "longtable", "table"}

// ValidateFragment checks that content looks like a compilable table
// fragment. It is the fast-fail gate in front of the compiler: a
// fragment that fails here never reaches pdflatex. The checks are
// textual, not a LaTeX parse, and mirror the errors the compiler would
// otherwise report much more opaquely.
func ValidateFragment(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyFragment
	}

	if !hasTableEnvironment(content) {
		return ErrNoTableEnv
	}

	for _, env := range tableEnvironments {
		begins := strings.Count(content, `\begin{`+env+`}`)
		ends := strings.Count(content, `\end{`+env+`}`)
		if begins != ends {
			return fmt.Errorf("%w: %d \\begin{%s} but %d \\end{%s}", ErrMismatchedEnv, begins, env, ends, env)
		}
	}

	if strings.Contains(content, `\begin{table}`) && strings.Contains(content, `\begin{longtable}`) {
		return ErrLongtableInFloat
	}

	if diff := braceBalance(content); diff != 0 {
		word := "missing }"
		if diff > 0 {
			word = "extra {"
		}
		return fmt.Errorf("%w: %d %s", ErrUnbalancedBraces, abs(diff), word)
	}

	if line, n := findRowMissingBreak(content); n > 0 {
		return fmt.Errorf("%w: line %d: %s", ErrRowMissingBreak, n, line)
	}

	return nil
}

// hasTableEnvironment reports whether any recognized table environment
// opens in the content.
func hasTableEnvironment(content string) bool {
	for _, env := range tableEnvironments {
		if env == "table" {
			// \begin{table} would also match \begin{tabular}; check the
			// closed form.
			if strings.Contains(content, `\begin{table}`) {
				return true
			}
			continue
		}
		if strings.Contains(content, `\begin{`+env+`}`) {
			return true
		}
	}
	return false
}

// braceBalance returns open minus close brace count, ignoring escaped
// braces (\{ and \}) which are literal characters in LaTeX.
func braceBalance(content string) int {
	diff := 0
	escaped := false
	for i := 0; i < len(content); i++ {
		c := content[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '{':
			diff++
		case '}':
			diff--
		}
	}
	return diff
}

// findRowMissingBreak locates the first table row (a line carrying the
// alignment character &) that does not terminate with \\. Rule lines
// never carry the terminator, so they are excluded.
func findRowMissingBreak(content string) (string, int) {
	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || !strings.Contains(line, "&") {
			continue
		}
		if strings.HasSuffix(line, `\\`) || strings.HasSuffix(line, `\`) {
			continue
		}
		if strings.Contains(line, "toprule") || strings.Contains(line, "midrule") || strings.Contains(line, "bottomrule") {
			continue
		}
		return line, i + 1
	}
	return "", 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
