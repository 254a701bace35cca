package tabwrap

import (
	"strings"
	"testing"
)

const fragmentTabular = "\\begin{tabular}{lc}\na & b \\\\\n\\end{tabular}"

func TestAssemble(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		in          Input
		decls       []PackageDeclaration
		contains    []string
		notContains []string
	}{
		{
			name: "bare fragment gets resize scaffold",
			in:   Input{TeX: fragmentTabular, Source: "table.tex"},
			contains: []string{
				"\\documentclass{article}",
				"\\usepackage[margin=1cm]{geometry}",
				"\\usepackage{graphicx}",
				"\\pagestyle{empty}",
				resizeOpen,
				fragmentTabular,
				resizeClose,
			},
			notContains: []string{"landscape", "underscore"},
		},
		{
			name: "no-resize centers without resizebox",
			in:   Input{TeX: fragmentTabular, Source: "table.tex", Layout: Layout{NoResize: true}},
			contains: []string{
				centerOpen,
				fragmentTabular,
			},
			notContains: []string{"\\resizebox", "graphicx"},
		},
		{
			name: "landscape widens geometry",
			in:   Input{TeX: fragmentTabular, Source: "table.tex", Layout: Layout{Landscape: true}},
			contains: []string{
				"\\usepackage[margin=1cm,landscape]{geometry}",
			},
		},
		{
			name: "header renders escaped source name",
			in:   Input{TeX: fragmentTabular, Source: "my_table.tex", Layout: Layout{Header: true}},
			contains: []string{
				"\\usepackage{underscore}",
				"\\begin{center}\\texttt{my\\_table}\\end{center}",
			},
		},
		{
			name: "header without underscore skips underscore package",
			in:   Input{TeX: fragmentTabular, Source: "results.tex", Layout: Layout{Header: true}},
			contains: []string{
				"\\begin{center}\\texttt{results}\\end{center}",
			},
			notContains: []string{"underscore"},
		},
		{
			name: "full float skips the scaffold",
			in: Input{
				TeX:    "\\begin{table}\n\\begin{tabular}{ll}\na & b \\\\\n\\end{tabular}\n\\end{table}",
				Source: "float.tex",
			},
			notContains: []string{"\\resizebox", "\\begin{center}"},
		},
		{
			name: "longtable skips the scaffold",
			in: Input{
				TeX:    "\\begin{longtable}{ll}\na & b \\\\\n\\end{longtable}",
				Source: "long.tex",
			},
			notContains: []string{"\\resizebox", "\\begin{center}"},
		},
		{
			name: "detected packages emitted in order",
			in:   Input{TeX: fragmentTabular, Source: "table.tex", Layout: Layout{NoResize: true}},
			decls: []PackageDeclaration{
				{Name: "booktabs"},
				{Name: "siunitx"},
			},
			contains: []string{"\\usepackage{booktabs}\n\\usepackage{siunitx}\n"},
		},
		{
			name:     "plain page style for combined runs",
			in:       Input{TeX: fragmentTabular, Source: "table.tex", PlainPageStyle: true},
			contains: []string{"\\pagestyle{plain}"},
			notContains: []string{
				"\\pagestyle{empty}",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := Assemble(tt.in, tt.decls)

			for _, want := range tt.contains {
				if !strings.Contains(doc.Text, want) {
					t.Errorf("assembled document missing %q\n%s", want, doc.Text)
				}
			}
			for _, avoid := range tt.notContains {
				if strings.Contains(doc.Text, avoid) {
					t.Errorf("assembled document unexpectedly contains %q\n%s", avoid, doc.Text)
				}
			}
		})
	}
}

func TestAssembleExtractRoundTrip(t *testing.T) {
	t.Parallel()

	fragments := map[string]string{
		"bare tabular": fragmentTabular,
		"full float":   "\\begin{table}\n\\centering\n\\begin{tabular}{ll}\na & b \\\\\n\\end{tabular}\n\\end{table}",
		"longtable":    "\\begin{longtable}{ll}\na & b \\\\\n\\end{longtable}",
	}
	layouts := map[string]Layout{
		"default":   {},
		"no-resize": {NoResize: true},
		"landscape": {Landscape: true},
		"header":    {Header: true},
	}

	for fname, frag := range fragments {
		for lname, layout := range layouts {
			frag, layout := frag, layout
			t.Run(fname+"/"+lname, func(t *testing.T) {
				t.Parallel()

				in := Input{TeX: frag, Source: "sample_table.tex", Layout: layout}
				doc := Assemble(in, DetectPackages(frag))

				got, ok := ExtractFragment(doc.Text)
				if !ok {
					t.Fatalf("ExtractFragment failed on:\n%s", doc.Text)
				}
				if got != frag {
					t.Errorf("round trip lost bytes:\ngot  %q\nwant %q", got, frag)
				}
			})
		}
	}
}

func TestExtractFragmentRejectsNonDocument(t *testing.T) {
	t.Parallel()

	if _, ok := ExtractFragment("not a document"); ok {
		t.Error("ExtractFragment accepted text without a document body")
	}
}

func TestIsSelfContained(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"bare tabular", fragmentTabular, false},
		{"table float", `\begin{table}...\end{table}`, true},
		{"starred float", `\begin{table*}...\end{table*}`, true},
		{"longtable", `\begin{longtable}{ll}\end{longtable}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsSelfContained(tt.content); got != tt.want {
				t.Errorf("IsSelfContained() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		suffix string
		want   string
	}{
		{"plain name", "results.tex", "_compiled", "results"},
		{"suffix stripped", "out/results_compiled.pdf", "_compiled", "results"},
		{"underscores escaped", "my_table.tex", "_compiled", `my\_table`},
		{"directory dropped", "/data/tables/q3_summary.tex", "_compiled", `q3\_summary`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := DisplayName(tt.source, tt.suffix); got != tt.want {
				t.Errorf("DisplayName(%q, %q) = %q, want %q", tt.source, tt.suffix, got, tt.want)
			}
		})
	}
}
