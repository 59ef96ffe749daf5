// Command telepath-inspect decodes, summarizes and converts telepath wire
// trees, and views the decode traces it records.
//
// Wire trees are read as JSON, JSONC, CBOR, or YAML. The format is detected
// from the file extension and content unless -in-format is given.
//
// Usage:
//
//	telepath-inspect <command> [flags] <file>
//
// Commands:
//
//	unpack   Decode a wire tree and print the value graph
//	scan     Show ids, references and types without decoding
//	convert  Re-encode a wire tree in another format
//	trace    View a decode trace file
//	export   Export a decode trace file to JSONL or CSV
//	stats    Show statistics about a decode trace file
//	shell    Decode wire trees interactively
//
// Examples:
//
//	# Decode with the example types and show shared instances
//	telepath-inspect unpack widgets.json
//
//	# Decode types the tool does not know as generic records
//	telepath-inspect unpack -generic -format json page.cbor
//
//	# Show one sub-value
//	telepath-inspect unpack -path 0/children/1 widgets.json
//
//	# Record a trace and view failures
//	telepath-inspect unpack -trace run.tlog widgets.json
//	telepath-inspect trace -outcome error run.tlog
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mash-protocol/telepath-go/cmd/telepath-inspect/commands"
	"github.com/mash-protocol/telepath-go/cmd/telepath-inspect/interactive"
)

const usage = `telepath-inspect - Telepath Wire Tree Inspector

Usage:
  telepath-inspect <command> [flags] <file>

Commands:
  unpack   Decode a wire tree and print the value graph
  scan     Show ids, references and types without decoding
  convert  Re-encode a wire tree in another format
  trace    View a decode trace file
  export   Export a decode trace file to JSONL or CSV
  stats    Show statistics about a decode trace file
  shell    Decode wire trees interactively

Use "-" as the file to read from stdin.
Use "telepath-inspect <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "unpack":
		runUnpack(args)
	case "scan":
		runScan(args)
	case "convert":
		runConvert(args)
	case "trace":
		runTrace(args)
	case "export":
		runExport(args)
	case "stats":
		runStats(args)
	case "shell":
		runShell(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// decodeFlags are the flags shared by the commands that read wire trees.
type decodeFlags struct {
	configPath *string
	inFormat   *string
	format     *string
	maxDepth   *int
	examples   *bool
	generic    *bool
	output     *string
	trace      *string
	logLevel   *string
}

func addDecodeFlags(fs *flag.FlagSet) *decodeFlags {
	def := commands.DefaultConfig()
	return &decodeFlags{
		configPath: fs.String("config", "", "YAML config file with defaults for these flags"),
		inFormat:   fs.String("in-format", "", "Input format (json, jsonc, cbor, yaml; default: detect)"),
		format:     fs.String("format", def.Format, "Output format (tree, json, yaml, cbor)"),
		maxDepth:   fs.Int("max-depth", def.MaxDepth, "Maximum nesting depth"),
		examples:   fs.Bool("examples", def.Examples, "Register the example types (Point, Widget, RichText, Date)"),
		generic:    fs.Bool("generic", def.Generic, "Decode unregistered types as generic records"),
		output:     fs.String("o", "", "Output file (default: stdout)"),
		trace:      fs.String("trace", "", "Append decode trace events to this .tlog file"),
		logLevel:   fs.String("log-level", def.LogLevel, "Log level: debug, info, warn, error"),
	}
}

// config loads the config file and applies the flags set on the command
// line on top of it.
func (d *decodeFlags) config(fs *flag.FlagSet) commands.Config {
	cfg, err := commands.LoadConfig(*d.configPath)
	if err != nil {
		fatal(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in-format":
			cfg.InFormat = *d.inFormat
		case "format":
			cfg.Format = *d.format
		case "max-depth":
			cfg.MaxDepth = *d.maxDepth
		case "examples":
			cfg.Examples = *d.examples
		case "generic":
			cfg.Generic = *d.generic
		case "o":
			cfg.Output = *d.output
		case "trace":
			cfg.Trace = *d.trace
		case "log-level":
			cfg.LogLevel = *d.logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		fatal(err)
	}
	return cfg
}

// session opens the trace session for cfg. Console events go to stderr so
// they never mix with command output.
func session(cfg commands.Config, console io.Writer) (*commands.Session, func() error) {
	level, err := commands.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(console, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	s, closeFn, err := commands.OpenSession(cfg.Trace, logger)
	if err != nil {
		fatal(err)
	}
	logger.Debug("session started", "session_id", s.ID, "trace", cfg.Trace)
	return s, closeFn
}

func inputArg(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: input file required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runUnpack(args []string) {
	fs := flag.NewFlagSet("unpack", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `telepath-inspect unpack - Decode a wire tree and print the value graph

Usage:
  telepath-inspect unpack [flags] <file>

Flags:
`)
		fs.PrintDefaults()
	}

	flags := addDecodeFlags(fs)
	path := fs.String("path", "", "Print only the value at this slash path (e.g. 0/children/1)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	source := inputArg(fs)
	cfg := flags.config(fs)

	s, closeTrace := session(cfg, os.Stderr)
	err := commands.RunUnpack(commands.UnpackOptions{Config: cfg, Source: source, Path: *path}, os.Stdin, os.Stdout, s)
	closeTrace()
	if err != nil {
		fatal(err)
	}
}

func runScan(args []string) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `telepath-inspect scan - Show ids, references and types without decoding

Usage:
  telepath-inspect scan [flags] <file>

Flags:
`)
		fs.PrintDefaults()
	}

	flags := addDecodeFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	source := inputArg(fs)
	cfg := flags.config(fs)

	s, closeTrace := session(cfg, os.Stderr)
	err := commands.RunScan(commands.ScanOptions{Config: cfg, Source: source}, os.Stdin, os.Stdout, s)
	closeTrace()
	if err != nil {
		fatal(err)
	}
}

func runConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `telepath-inspect convert - Re-encode a wire tree in another format

Usage:
  telepath-inspect convert -to <format> [flags] <file>

Flags:
`)
		fs.PrintDefaults()
	}

	flags := addDecodeFlags(fs)
	to := fs.String("to", "", "Target format (json, jsonc, cbor, yaml; required)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	source := inputArg(fs)
	cfg := flags.config(fs)

	if err := commands.RunConvert(commands.ConvertOptions{Config: cfg, Source: source, To: *to}, os.Stdin, os.Stdout); err != nil {
		fatal(err)
	}
}

// traceFilterFlags are the filter flags of the trace inspection commands.
type traceFilterFlags struct {
	session *string
	source  *string
	outcome *string
	kind    *string
}

func addTraceFilterFlags(fs *flag.FlagSet) *traceFilterFlags {
	return &traceFilterFlags{
		session: fs.String("session", "", "Filter by session ID"),
		source:  fs.String("source", "", "Filter by input source"),
		outcome: fs.String("outcome", "", "Filter by outcome (ok, error)"),
		kind:    fs.String("kind", "", "Filter by error kind (e.g. UnknownType)"),
	}
}

func (t *traceFilterFlags) filter() commands.TraceFilter {
	filter := commands.TraceFilter{
		SessionID: *t.session,
		Source:    *t.source,
		Kind:      *t.kind,
	}
	if *t.outcome != "" {
		o, err := commands.ParseOutcomeFlag(*t.outcome)
		if err != nil {
			fatal(err)
		}
		filter.Outcome = &o
	}
	return filter
}

func traceArg(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func runTrace(args []string) {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `telepath-inspect trace - View a decode trace file

Usage:
  telepath-inspect trace [flags] <file.tlog>

Flags:
`)
		fs.PrintDefaults()
	}

	filterFlags := addTraceFilterFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := traceArg(fs)

	if err := commands.RunTrace(path, filterFlags.filter(), os.Stdout); err != nil {
		fatal(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `telepath-inspect export - Export a decode trace file to JSONL or CSV

Usage:
  telepath-inspect export [flags] <file.tlog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	filterFlags := addTraceFilterFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := traceArg(fs)

	if err := commands.RunExport(path, *format, filterFlags.filter(), *output, os.Stdout); err != nil {
		fatal(err)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `telepath-inspect stats - Show statistics about a decode trace file

Usage:
  telepath-inspect stats <file.tlog>
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := traceArg(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fatal(err)
	}
}

func runShell(args []string) {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `telepath-inspect shell - Decode wire trees interactively

Usage:
  telepath-inspect shell [flags]

Flags:
`)
		fs.PrintDefaults()
	}

	flags := addDecodeFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	cfg := flags.config(fs)

	// Decode events are logged through the readline writer once it exists
	sh, err := interactive.New(cfg, nil)
	if err != nil {
		fatal(err)
	}
	s, closeTrace := session(cfg, sh.Stdout())
	defer closeTrace()

	sh.SetSession(s)
	sh.Run()
}
