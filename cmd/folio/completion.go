package main

import (
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// takesValue reports whether the flag consumes the next word.
func (f flagDef) takesValue() bool {
	return f.Type != flagBool
}

// commandDef describes a command for completion.
type commandDef struct {
	Name      string
	Desc      string
	Flags     []flagDef
	Args      []string // fixed positional values
	TakesDirs bool     // accepts a directory argument
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"mode":       {Values: []string{"strict", "partial", "sequential"}},
	"config":     {FileGlob: "*.yaml,*.yml"},
	"posts":      {IsDir: true},
	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			if len(meta.Values) > 0 {
				fd.Type = flagEnum
				fd.Values = meta.Values
			} else if meta.FileGlob != "" {
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			} else if meta.IsDir {
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets.
func getCommands() []commandDef {
	siteFlagDefs := func(cmd string) []flagDef {
		return extractFlagsFromFlagSet(newSiteFlagSet(cmd, &siteFlags{}))
	}

	return []commandDef{
		{Name: "serve", Desc: "Serve the portfolio over HTTP", Flags: siteFlagDefs("serve"), TakesDirs: true},
		{Name: "build", Desc: "Write the portfolio as static files", Flags: siteFlagDefs("build"), TakesDirs: true},
		{Name: "snapshot", Desc: "Capture PNG previews", Flags: siteFlagDefs("snapshot"), TakesDirs: true},
		{Name: "doctor", Desc: "Check the browser and environment", Flags: []flagDef{
			{Long: "json", Type: flagBool, Desc: "machine-readable output"},
		}},
		{Name: "completion", Desc: "Generate shell completion script", Args: []string{
			string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell),
		}},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command", Args: []string{"serve", "build", "snapshot", "doctor", "completion", "version"}},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	case ShellPowerShell:
		return generatePowerShell(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func flagWords(flags []flagDef) string {
	words := make([]string, 0, len(flags)*2)
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return strings.Join(words, " ")
}

// flagPattern returns the case pattern matching f, e.g. "--output|-o".
func flagPattern(f flagDef) string {
	if f.Short != "" {
		return "--" + f.Long + "|-" + f.Short
	}
	return "--" + f.Long
}

// bashGlob turns "*.yaml,*.yml" into the extglob "!*.@(yaml|yml)".
func bashGlob(glob string) string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		exts = append(exts, strings.TrimPrefix(strings.TrimSpace(g), "*."))
	}
	return "!*.@(" + strings.Join(exts, "|") + ")"
}

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for folio\n")
	b.WriteString("_folio() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", commandNames(cmds))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("        case \"$prev\" in\n")
		for _, f := range c.Flags {
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", flagPattern(f), strings.Join(f.Values, " "))
			case flagFile:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -f -X '%s' -- \"$cur\")); return ;;\n", flagPattern(f), bashGlob(f.FileGlob))
			case flagDir:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", flagPattern(f))
			case flagString, flagInt:
				fmt.Fprintf(&b, "        %s) return ;;\n", flagPattern(f))
			}
		}
		b.WriteString("        esac\n")
		b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
		fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", flagWords(c.Flags))
		switch {
		case len(c.Args) > 0:
			b.WriteString("        else\n")
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(c.Args, " "))
		case c.TakesDirs:
			b.WriteString("        else\n")
			b.WriteString("            COMPREPLY=($(compgen -d -- \"$cur\"))\n")
		}
		b.WriteString("        fi\n")
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("shopt -s extglob\n")
	b.WriteString("complete -F _folio folio\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// generateZsh reuses the bash script through bashcompinit.
func generateZsh(w io.Writer) error {
	if _, err := io.WriteString(w, "#compdef folio\nautoload -U +X bashcompinit && bashcompinit\n"); err != nil {
		return err
	}
	return generateBash(w)
}

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for folio\n")
	b.WriteString("complete -c folio -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c folio -n '__fish_use_subcommand' -a %s -d %q\n", c.Name, c.Desc)
	}
	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_seen_subcommand_from %s'", c.Name)
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "complete -c folio -n %s -a %q\n", cond, strings.Join(c.Args, " "))
		}
		if c.TakesDirs {
			fmt.Fprintf(&b, "complete -c folio -n %s -a '(__fish_complete_directories)'\n", cond)
		}
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c folio -n %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagEnum:
				line += fmt.Sprintf(" -x -a %q", strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagString, flagInt:
				line += " -x"
			}
			line += fmt.Sprintf(" -d %q\n", f.Desc)
			b.WriteString(line)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func generatePowerShell(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# PowerShell completion for folio\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName folio -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n")
	b.WriteString("    $words = $commandAst.CommandElements | ForEach-Object { $_.ToString() }\n")
	b.WriteString("    $candidates = @{\n")
	fmt.Fprintf(&b, "        '' = @(%s)\n", psList(strings.Fields(commandNames(cmds))))
	for _, c := range cmds {
		words := append(strings.Fields(flagWords(c.Flags)), c.Args...)
		fmt.Fprintf(&b, "        '%s' = @(%s)\n", c.Name, psList(words))
	}
	b.WriteString("    }\n")
	b.WriteString("    $key = if ($words.Count -gt 1 -and $candidates.ContainsKey($words[1])) { $words[1] } else { '' }\n")
	b.WriteString("    $candidates[$key] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func psList(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = "'" + w + "'"
	}
	return strings.Join(quoted, ", ")
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}

	shell := Shell(args[0])
	return GenerateCompletion(env.Stdout, shell)
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(folio completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(folio completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    folio completion fish > ~/.config/fish/completions/folio.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    folio completion powershell | Out-String | Invoke-Expression")
}
