package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdftour <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A guided tour of PDF generation: each demo writes one PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  demo        Run one or more demos")
	fmt.Fprintln(w, "  run-all     Launch every demo (or script) as its own process")
	fmt.Fprintln(w, "  selfdoc     Document a directory of sources and PDFs")
	fmt.Fprintln(w, "  build       Render story files (*.story.yaml) to PDF")
	fmt.Fprintln(w, "  samples     Write the sample inputs and images")
	fmt.Fprintln(w, "  doctor      Check the system for the renderers")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'pdftour help <command>' for details on a specific command.")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Renderer:")
	fmt.Fprintln(w, "  -b, --backend <s>         fpdf (default) or chrome")
	fmt.Fprintln(w, "  -t, --timeout <d>         Chrome timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
}

func printPageUsage(w io.Writer) {
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: a4, letter, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <len>        Margin: 72, 20mm, 2cm, 1in")
	fmt.Fprintln(w)
}

// printDemoUsage prints usage for the demo command.
func printDemoUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdftour demo <name>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run demos in the order given. Each writes <name>.pdf into the output")
	fmt.Fprintln(w, "directory, reading its inputs from there first, then from the samples.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -l, --list                List the demos")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: current)")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory overriding the embedded samples")
	fmt.Fprintln(w)
	printRenderUsage(w)
	fmt.Fprintln(w, "Page flags apply to 99_self_document only; the other demos set their own.")
	printPageUsage(w)
	printCommonUsage(w)
}

// printRunAllUsage prints usage for the run-all command.
func printRunAllUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdftour run-all [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Launch one 'pdftour demo <name>' process per demo, all at once, then")
	fmt.Fprintln(w, "99_self_document once they exit. With --dir, launch every matching")
	fmt.Fprintln(w, "script of the directory instead. The run id is exported to every")
	fmt.Fprintln(w, "process as PDFTOUR_RUN_ID.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory of the demos")
	fmt.Fprintln(w, "  -d, --dir <dir>           Run the scripts of this directory")
	fmt.Fprintln(w, "      --pattern <glob>      Script glob (default: *.py)")
	fmt.Fprintln(w, "      --cmd <s>             Interpreter, e.g. \"python3 -u\"")
	fmt.Fprintln(w, "      --detach              Return once every process started")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printSelfDocUsage prints usage for the selfdoc command.
func printSelfDocUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdftour selfdoc [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write 99_self_document.pdf into dir (default: current): every Python")
	fmt.Fprintln(w, "and Go source with its description, text files cut after --snip lines,")
	fmt.Fprintln(w, "and the first page of every PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --title <s>           Title drawn on the first page")
	fmt.Fprintln(w, "      --page-info <s>       Footer text")
	fmt.Fprintln(w, "      --date <s>            Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY YY MMMM MMM MM M dddd ddd DD D HH mm")
	fmt.Fprintln(w, "                            Presets: iso, european, us, long, full, stamp")
	fmt.Fprintln(w, "      --snip <n>            Lines kept from text files (0 = 30)")
	fmt.Fprintln(w, "      --exclude <a,b>       Entries to skip (default: images)")
	fmt.Fprintln(w)
	printRenderUsage(w)
	printPageUsage(w)
	printCommonUsage(w)
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdftour build <file|dir> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render story files to PDF. A directory is searched recursively for")
	fmt.Fprintln(w, "*.story.yaml files, rendered in parallel.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	printRenderUsage(w)
	fmt.Fprintln(w, "Page flags apply to story files without a page section.")
	printPageUsage(w)
	printCommonUsage(w)
}

// printSamplesUsage prints usage for the samples command.
func printSamplesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdftour samples [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write the sample texts, CSV, stylesheet, story file and images.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -f, --force               Overwrite existing files")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "demo":
		printDemoUsage(env.Stdout)
	case "run-all":
		printRunAllUsage(env.Stdout)
	case "selfdoc":
		printSelfDocUsage(env.Stdout)
	case "build":
		printBuildUsage(env.Stdout)
	case "samples":
		printSamplesUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: pdftour doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check the renderers, the samples and the environment.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: pdftour version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: pdftour help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
