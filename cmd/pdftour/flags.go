package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags selects and tunes the renderer.
type renderFlags struct {
	backend string
	timeout string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      string
}

// demoFlags holds the flags of the demo command.
type demoFlags struct {
	common    commonFlags
	render    renderFlags
	page      pageFlags
	output    string
	assetPath string
	list      bool
}

// runAllFlags holds the flags of the run-all command.
type runAllFlags struct {
	common  commonFlags
	output  string
	dir     string
	pattern string
	command string
	detach  bool
}

// selfDocFlags holds the flags of the selfdoc command.
type selfDocFlags struct {
	common   commonFlags
	render   renderFlags
	page     pageFlags
	title    string
	pageInfo string
	date     string
	snip     int
	exclude  []string
}

// buildFlags holds the flags of the build command.
type buildFlags struct {
	common  commonFlags
	render  renderFlags
	page    pageFlags
	output  string
	workers int
}

// samplesFlags holds the flags of the samples command.
type samplesFlags struct {
	common commonFlags
	force  bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addRenderFlags adds renderer flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVarP(&f.backend, "backend", "b", "", "renderer: fpdf, chrome (default: fpdf)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "Chrome PDF generation timeout (e.g., 30s, 2m)")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: a4, letter, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.StringVar(&f.margin, "margin", "", "page margin with unit: 72, 20mm, 2cm, 1in")
}

func newDemoFlagSet(f *demoFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: current)")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding the embedded samples")
	fs.BoolVarP(&f.list, "list", "l", false, "list the demos")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addPageFlags(fs, &f.page)
	return fs
}

func newRunAllFlagSet(f *runAllFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("run-all", flag.ContinueOnError)
	fs.StringVarP(&f.output, "output", "o", "", "output directory of the demos (default: current)")
	fs.StringVarP(&f.dir, "dir", "d", "", "run the scripts of this directory instead of the demos")
	fs.StringVar(&f.pattern, "pattern", "", "script glob used with --dir (default: *.py)")
	fs.StringVar(&f.command, "cmd", "", "interpreter for the scripts, e.g. \"python3 -u\"")
	fs.BoolVar(&f.detach, "detach", false, "return once every process started")
	addCommonFlags(fs, &f.common)
	return fs
}

func newSelfDocFlagSet(f *selfDocFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("selfdoc", flag.ContinueOnError)
	fs.StringVar(&f.title, "title", "", "title drawn on the first page")
	fs.StringVar(&f.pageInfo, "page-info", "", "text of the page footer")
	fs.StringVar(&f.date, "date", "", "footer date: \"auto\", \"auto:FORMAT\", or literal")
	fs.IntVar(&f.snip, "snip", 0, "lines kept from text files (0 = 30)")
	fs.StringSliceVar(&f.exclude, "exclude", nil, "entries to skip (default: images)")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addPageFlags(fs, &f.page)
	return fs
}

func newBuildFlagSet(f *buildFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addPageFlags(fs, &f.page)
	return fs
}

func newSamplesFlagSet(f *samplesFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("samples", flag.ContinueOnError)
	fs.BoolVarP(&f.force, "force", "f", false, "overwrite existing files")
	addCommonFlags(fs, &f.common)
	return fs
}

// parseFlagSet parses args, returning positional arguments. Parse errors
// wrap ErrUsage; -h returns flag.ErrHelp.
func parseFlagSet(fs *flag.FlagSet, args []string) ([]string, error) {
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUsage, fs.Name(), err)
	}
	return fs.Args(), nil
}
