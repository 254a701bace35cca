package tabwrap

import (
	"sort"
	"strings"
)

// PackageDeclaration is one \usepackage line required by a fragment.
// Declarations are deduplicated by Name; Options keep first-seen order.
type PackageDeclaration struct {
	Name    string
	Options []string
}

// Command renders the declaration as a \usepackage line.
func (d PackageDeclaration) Command() string {
	if len(d.Options) == 0 {
		return `\usepackage{` + d.Name + `}`
	}
	return `\usepackage[` + strings.Join(d.Options, ",") + `]{` + d.Name + `}`
}

// packageRule maps a content pattern to a required package. Rules are
// evaluated independently; priority decides emission order because some
// packages must load before others (tabularx provides the environment
// that siunitx S columns are used inside, longtable before
// threeparttable's longtable variant, and so on).
type packageRule struct {
	name     string
	options  []string
	priority int
	match    func(content string) bool
}

// ruleTable is the static mapping from content patterns to packages.
// Evaluation is a pure content scan: no LaTeX grammar, no state.
var ruleTable = []packageRule{
	{
		name:     "booktabs",
		priority: 10,
		match:    containsAnyCommand(`\toprule`, `\midrule`, `\bottomrule`, `\cmidrule`),
	},
	{
		name:     "tabularx",
		priority: 20,
		match: func(c string) bool {
			return strings.Contains(c, `\begin{tabularx}`) || columnSpecHasType(c, 'X')
		},
	},
	{
		name:     "longtable",
		priority: 20,
		match:    containsAnyCommand(`\begin{longtable}`),
	},
	{
		name:     "threeparttable",
		priority: 30,
		match:    containsAnyCommand(`\begin{threeparttable}`, `\begin{tablenotes}`, `\tnote`),
	},
	{
		name:     "multirow",
		priority: 40,
		match:    containsAnyCommand(`\multirow`),
	},
	{
		name:     "siunitx",
		priority: 50,
		match: func(c string) bool {
			if containsAnyCommand(`\SI`, `\num`, `\sisetup`)(c) {
				return true
			}
			return columnSpecHasType(c, 'S')
		},
	},
	{
		name:     "amssymb",
		priority: 60,
		match:    containsAnyCommand(`\checkmark`),
	},
}

// DetectPackages scans fragment content against the rule table and
// returns the required declarations in dependency-respecting order.
// Detection is deterministic and side-effect-free; an empty result is
// valid (bare tabular content needs nothing beyond the baseline).
func DetectPackages(content string) []PackageDeclaration {
	type hit struct {
		decl     PackageDeclaration
		priority int
		index    int
	}
	var hits []hit
	seen := make(map[string]int) // name -> index into hits

	for _, rule := range ruleTable {
		if !rule.match(content) {
			continue
		}
		if i, ok := seen[rule.name]; ok {
			// Multiple rules may fire on the same package: first match
			// wins, compatible options merge.
			hits[i].decl.Options = mergeOptions(hits[i].decl.Options, rule.options)
			continue
		}
		seen[rule.name] = len(hits)
		hits = append(hits, hit{
			decl:     PackageDeclaration{Name: rule.name, Options: append([]string(nil), rule.options...)},
			priority: rule.priority,
			index:    len(hits),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].priority != hits[j].priority {
			return hits[i].priority < hits[j].priority
		}
		return hits[i].index < hits[j].index
	})

	decls := make([]PackageDeclaration, len(hits))
	for i, h := range hits {
		decls[i] = h.decl
	}
	return decls
}

// MergeDeclarations prepends user-requested packages to detected ones,
// deduplicating by name. User options win over detected options for the
// same package.
func MergeDeclarations(user []string, detected []PackageDeclaration) []PackageDeclaration {
	var out []PackageDeclaration
	seen := make(map[string]bool)

	for _, name := range user {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, PackageDeclaration{Name: name})
	}
	for _, d := range detected {
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		out = append(out, d)
	}
	return out
}

// mergeOptions unions b into a, keeping first-seen order.
func mergeOptions(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	for _, o := range a {
		seen[o] = true
	}
	for _, o := range b {
		if !seen[o] {
			seen[o] = true
			a = append(a, o)
		}
	}
	return a
}

// containsAnyCommand returns a matcher firing when any literal command
// appears in the content.
func containsAnyCommand(commands ...string) func(string) bool {
	return func(content string) bool {
		for _, cmd := range commands {
			if strings.Contains(content, cmd) {
				return true
			}
		}
		return false
	}
}

// tableEnvOpeners are environments whose first brace group after the
// opener is a column specification.
var tableEnvOpeners = []string{
	`\begin{tabular}`,
	`\begin{tabularx}`,
	`\begin{longtable}`,
	`\begin{tabular*}`,
}

// columnSpecHasType reports whether any table environment in the
// content declares a column of the given type letter. Only the column
// specification groups are scanned, so the letter appearing in cell
// text or prose never false-triggers. Matching is case-sensitive.
func columnSpecHasType(content string, letter byte) bool {
	for _, spec := range columnSpecs(content) {
		if specContainsLetter(spec, letter) {
			return true
		}
	}
	return false
}

// columnSpecs extracts the column specification group of every table
// environment in the content. It tolerates optional [pos] arguments,
// width arguments (tabularx, tabular*), and nested braces inside the
// spec itself.
func columnSpecs(content string) []string {
	var specs []string
	for _, opener := range tableEnvOpeners {
		rest := content
		for {
			i := strings.Index(rest, opener)
			if i < 0 {
				break
			}
			rest = rest[i+len(opener):]
			spec, ok := nextSpecGroup(rest, opener)
			if ok {
				specs = append(specs, spec)
			}
		}
	}
	return specs
}

// nextSpecGroup returns the column spec group that follows an
// environment opener. tabularx and tabular* take a width group first;
// tabular and longtable may take an optional [pos] first.
func nextSpecGroup(s, opener string) (string, bool) {
	skipGroups := 0
	if opener == `\begin{tabularx}` || opener == `\begin{tabular*}` {
		skipGroups = 1 // width argument
	}

	pos := 0
	// Skip whitespace and an optional [pos] argument.
	pos = skipSpaces(s, pos)
	if pos < len(s) && s[pos] == '[' {
		if end := strings.IndexByte(s[pos:], ']'); end >= 0 {
			pos += end + 1
		}
	}

	for g := 0; g <= skipGroups; g++ {
		pos = skipSpaces(s, pos)
		group, next, ok := balancedGroup(s, pos)
		if !ok {
			return "", false
		}
		if g == skipGroups {
			return group, true
		}
		pos = next
	}
	return "", false
}

// balancedGroup reads a brace-balanced {...} group starting at pos.
// Returns the inner text and the index just past the closing brace.
func balancedGroup(s string, pos int) (inner string, next int, ok bool) {
	if pos >= len(s) || s[pos] != '{' {
		return "", 0, false
	}
	depth := 0
	for i := pos; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[pos+1 : i], i + 1, true
			}
		}
	}
	return "", 0, false
}

func skipSpaces(s string, pos int) int {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t' || s[pos] == '\n' || s[pos] == '\r') {
		pos++
	}
	return pos
}

// specContainsLetter scans a column spec for a column type letter,
// skipping bracketed option groups (S[table-format=1.3]) so option
// values cannot false-trigger. Nested braces are scanned because specs
// like *{3}{S[...]} and >{\raggedright}X carry types inside groups.
func specContainsLetter(spec string, letter byte) bool {
	depth := 0 // bracket depth, not brace depth
	for i := 0; i < len(spec); i++ {
		switch spec[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 && spec[i] == letter {
				return true
			}
		}
	}
	return false
}
