package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprint(w, `tabwrap - compile LaTeX table fragments to PDF, PNG, or SVG

Usage:
  tabwrap [flags] [input]
  tabwrap doctor [--json]
  tabwrap version

Input:
  A .tex file or a directory of .tex files (default: current directory).
  Fragments need no preamble; required packages are auto-detected.

Flags:
  -o, --output <dir>     output directory (default: current directory)
      --suffix <s>       output filename suffix (default: "_compiled")
      --packages <list>  comma-separated LaTeX packages (auto-detected if empty)
      --landscape        use landscape orientation
      --no-resize        disable automatic table resizing
      --header           show filename as header in output
      --keep-tex         keep intermediate .tex files
  -p, --png              output PNG instead of PDF
      --svg              output SVG instead of PDF
  -c, --combine-pdf      combine multiple PDFs with table of contents
  -r, --recursive        process subdirectories recursively
  -w, --workers <n>      parallel workers (0 = auto)
  -t, --timeout <d>      per-file compile timeout (e.g., 30s, 2m)
      --config <name>    config file name or path
  -q, --quiet            only show errors
  -v, --verbose          show detailed timing

Examples:
  tabwrap results.tex
  tabwrap -o out --landscape --header tables/
  tabwrap -r -c -o out tables/
  tabwrap --png -o img results.tex
`)
}
