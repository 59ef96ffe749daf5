// Package interactive provides the interactive decode shell for
// telepath-inspect.
package interactive

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/mash-protocol/telepath-go/cmd/telepath-inspect/commands"
	"github.com/mash-protocol/telepath-go/pkg/examples"
	"github.com/mash-protocol/telepath-go/pkg/inspect"
	"github.com/mash-protocol/telepath-go/pkg/wire"
)

// Shell reads JSON wire trees line by line and prints their decoded form.
type Shell struct {
	config  commands.Config
	session *commands.Session
	path    string
	rl      *readline.Instance
}

// New creates a new interactive shell.
func New(cfg commands.Config, session *commands.Session) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "telepath> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	s := NewHandler(cfg, session)
	s.rl = rl
	return s, nil
}

// NewHandler creates a shell without a terminal. Lines are fed through
// Handle.
func NewHandler(cfg commands.Config, session *commands.Session) *Shell {
	if session == nil {
		session = commands.NewSession(nil)
	}
	return &Shell{config: cfg, session: session}
}

// SetSession replaces the session decode events are traced in.
func (s *Shell) SetSession(session *commands.Session) {
	s.session = session
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run starts the interactive command loop.
func (s *Shell) Run() {
	defer s.rl.Close()

	s.printHelp(s.rl.Stdout())

	for {
		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return
		}
		if !s.Handle(line, s.rl.Stdout()) {
			return
		}
	}
}

// Handle processes one input line and reports whether the shell should
// keep running.
func (s *Shell) Handle(line string, w io.Writer) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	cmd, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "help", "?":
		s.printHelp(w)

	case "quit", "exit", "q":
		return false

	case "scan", "s":
		s.cmdScan(rest, w)

	case "path", "p":
		s.cmdPath(rest, w)

	case "generic", "g":
		s.cmdGeneric(rest, w)

	case "example", "e":
		s.cmdExample(rest, w)

	default:
		s.cmdUnpack(input, w)
	}
	return true
}

func (s *Shell) printHelp(w io.Writer) {
	fmt.Fprint(w, `Enter a JSON wire tree to decode it, for example:
  [{"_id": 1, "_type": "Point", "_args": [1, 2]}, {"_ref": 1}]

Commands:
  scan <json>       Show ids, references and types without decoding
  path [<path>]     Show only the value at path (no argument clears it)
  generic [on|off]  Decode unknown types as generic records
  example [<name>]  List the built-in sample trees or decode one
  help              Show this help
  quit              Exit the shell
`)
}

func (s *Shell) cmdUnpack(input string, w io.Writer) {
	v, err := s.session.UnpackData(s.config, "shell", wire.FormatJSON, []byte(input), s.path)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprint(w, inspect.NewFormatter().Format(v))
}

func (s *Shell) cmdScan(input string, w io.Writer) {
	if input == "" {
		fmt.Fprintln(w, "Usage: scan <json>")
		return
	}
	tree, err := wire.Parse(wire.FormatJSON, []byte(input))
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	ins := inspect.NewInspector(s.config.NewCodec(), nil)
	summary, err := ins.Summarize(tree)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprint(w, ins.FormatSummary(summary))
}

func (s *Shell) cmdPath(input string, w io.Writer) {
	if input == "" {
		s.path = ""
		fmt.Fprintln(w, "Path cleared")
		return
	}
	if _, err := inspect.ParsePath(input); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	s.path = input
	fmt.Fprintf(w, "Path set to %s\n", input)
}

func (s *Shell) cmdGeneric(input string, w io.Writer) {
	switch strings.ToLower(input) {
	case "":
	case "on":
		s.config.Generic = true
	case "off":
		s.config.Generic = false
	default:
		fmt.Fprintln(w, "Usage: generic [on|off]")
		return
	}
	state := "off"
	if s.config.Generic {
		state = "on"
	}
	fmt.Fprintf(w, "Generic records: %s\n", state)
}

func (s *Shell) cmdExample(name string, w io.Writer) {
	if name == "" {
		names, err := examples.Fixtures()
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return
		}
		for _, n := range names {
			fmt.Fprintf(w, "  %s\n", n)
		}
		return
	}

	data, err := examples.Fixture(name)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	v, err := s.session.UnpackData(s.config, name, wire.DetectFormat(name, data), data, s.path)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprint(w, inspect.NewFormatter().Format(v))
}
