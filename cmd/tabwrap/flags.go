package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// layoutFlags holds document shell flags.
type layoutFlags struct {
	landscape bool
	noResize  bool
	header    bool
}

// outputFlags holds output destination and format flags.
type outputFlags struct {
	dir    string
	suffix string
	png    bool
	svg    bool
}

// compileFlags holds all flags for the default compile command.
type compileFlags struct {
	common    commonFlags
	layout    layoutFlags
	output    outputFlags
	packages  string
	keepTex   bool
	combine   bool
	recursive bool
	workers   int
	timeout   string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVar(&f.config, "config", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addLayoutFlags adds document shell flags to a FlagSet.
func addLayoutFlags(fs *flag.FlagSet, f *layoutFlags) {
	fs.BoolVar(&f.landscape, "landscape", false, "use landscape orientation")
	fs.BoolVar(&f.noResize, "no-resize", false, "disable automatic table resizing")
	fs.BoolVar(&f.header, "header", false, "show filename as header in output")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.dir, "output", "o", "", "output directory (default: current directory)")
	fs.StringVar(&f.suffix, "suffix", "", "output filename suffix (default: \"_compiled\")")
	fs.BoolVarP(&f.png, "png", "p", false, "output PNG instead of PDF")
	fs.BoolVar(&f.svg, "svg", false, "output SVG instead of PDF")
}

// parseCompileFlags parses compile command flags and returns positional args.
func parseCompileFlags(args []string) (*compileFlags, []string, error) {
	fs := flag.NewFlagSet("tabwrap", flag.ContinueOnError)
	f := &compileFlags{}

	fs.StringVar(&f.packages, "packages", "", "comma-separated LaTeX packages (auto-detected if empty)")
	fs.BoolVar(&f.keepTex, "keep-tex", false, "keep intermediate .tex files")
	fs.BoolVarP(&f.combine, "combine-pdf", "c", false, "combine multiple PDFs with table of contents")
	fs.BoolVarP(&f.recursive, "recursive", "r", false, "process subdirectories recursively")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-file compile timeout (e.g., 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addLayoutFlags(fs, &f.layout)
	addOutputFlags(fs, &f.output)

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
