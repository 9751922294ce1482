package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches args[1] and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "serve", "build", "snapshot":
		return runSiteCommand(cmd, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		if err := runCompletion(rest, env); err != nil {
			fmt.Fprintln(env.Stderr, "error:", err)
			return exitCodeFor(err)
		}
		return ExitSuccess
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "folio %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// runSiteCommand parses flags for one of the site commands, sets up the
// runtime and runs the command until it finishes or a signal arrives.
func runSiteCommand(cmd string, args []string, env *Environment) int {
	flags, positional, err := parseSiteFlags(cmd, args, env.Stderr)
	if err != nil {
		if isHelpRequest(err) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, "error:", err)
		return ExitUsage
	}

	setMaxProcs(flags.common.verbose, env.Stderr)

	logger := newLogger(env.Stderr, flags.common)
	defer func() { _ = logger.Sync() }()

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cfg, err := resolveConfig(flags, positional, env)
	if err != nil {
		return reportError(env.Stderr, err)
	}

	switch cmd {
	case "serve":
		err = runServe(ctx, cfg, flags, env, logger)
	case "build":
		err = runBuild(ctx, cfg, flags, env, logger)
	case "snapshot":
		err = runSnapshot(ctx, cfg, flags, env, logger)
	}
	if err != nil {
		return reportError(env.Stderr, err)
	}
	return ExitSuccess
}

// setMaxProcs configures GOMAXPROCS, echoing its decision when verbose.
// maxprocs.Set only fails on an invalid GOMAXPROCS value, in which case
// runtime defaults apply.
func setMaxProcs(verbose bool, w io.Writer) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(w, format+"\n", args...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}

// reportError prints err with any matching hint and returns its exit code.
func reportError(w io.Writer, err error) int {
	fmt.Fprintf(w, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}
