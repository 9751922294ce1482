package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio <command> [flags] [site-dir]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "site-dir is a local directory (default: .) or an http(s) URL.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve       Serve the portfolio over HTTP")
	fmt.Fprintln(w, "  build       Write the portfolio as static files")
	fmt.Fprintln(w, "  snapshot    Capture PNG previews with a headless browser")
	fmt.Fprintln(w, "  doctor      Check the browser and environment")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'folio help <command>' for details on a specific command.")
}

// printSiteFlags prints the flags shared by serve, build and snapshot.
func printSiteFlags(w io.Writer) {
	fmt.Fprintln(w, "Source:")
	fmt.Fprintln(w, "      --base-url <url>      Load posts from a remote site root")
	fmt.Fprintln(w, "      --posts <dir>         Posts directory inside the site (default: posts)")
	fmt.Fprintln(w, "      --manifest <name>     Manifest file (default: index.json)")
	fmt.Fprintln(w, "  -m, --mode <s>            Load mode: strict, partial, sequential")
	fmt.Fprintln(w, "  -t, --timeout <d>         Bound on a whole load (e.g. 30s)")
	fmt.Fprintln(w, "      --sample              Show only the embedded sample")
	fmt.Fprintln(w, "      --fallback            Show the embedded sample when loading fails")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --no-markdown         Show post bodies as plain text")
	fmt.Fprintln(w, "      --math                Typeset $...$ and $$...$$ math")
	fmt.Fprintln(w, "      --toc                 Add a table of contents to long posts")
	fmt.Fprintln(w, "      --date-format <s>     Date labels, e.g. \"MMM YYYY\"")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Theme:")
	fmt.Fprintln(w, "      --style <name>        Stylesheet name")
	fmt.Fprintln(w, "      --template <name>     Template set name")
	fmt.Fprintln(w, "      --script <name>       Client script name")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

// printCommandUsage prints usage for cmd.
func printCommandUsage(w io.Writer, cmd string) {
	switch cmd {
	case "serve":
		fmt.Fprintln(w, "Usage: folio serve [site-dir] [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Serve the portfolio over HTTP until interrupted.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Server:")
		fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address (default: 127.0.0.1:8080)")
		fmt.Fprintln(w, "  -w, --watch               Reload when the posts directory changes")
	case "build":
		fmt.Fprintln(w, "Usage: folio build [site-dir] [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Write the portfolio as static files.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Output:")
		fmt.Fprintln(w, "  -o, --output <dir>        Build directory (default: public)")
		fmt.Fprintln(w, "      --inline-css          Inline the stylesheet into every page")
	case "snapshot":
		fmt.Fprintln(w, "Usage: folio snapshot [site-dir] [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Capture PNG previews of the portfolio with a headless browser.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Snapshot:")
		fmt.Fprintln(w, "  -o, --output <dir>        Directory for PNG files (default: snapshots)")
		fmt.Fprintln(w, "      --width <px>          Viewport width (default: 1280)")
		fmt.Fprintln(w, "      --height <px>         Viewport height (default: 800)")
		fmt.Fprintln(w, "      --full-page           Capture the whole scrollable page")
		fmt.Fprintln(w, "      --details             Also capture every detail page")
		fmt.Fprintln(w, "      --snapshot-timeout <d> Bound on each capture (default: 30s)")
	default:
		printUsage(w)
		return
	}
	fmt.Fprintln(w)
	printSiteFlags(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "serve", "build", "snapshot":
		printCommandUsage(env.Stdout, args[0])
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: folio doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check that snapshots can run: Chrome, sandbox and temp directory.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: folio version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: folio help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
