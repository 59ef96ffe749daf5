package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mash-protocol/telepath-go/pkg/log"
	"github.com/mash-protocol/telepath-go/pkg/telepath"
	"github.com/mash-protocol/telepath-go/pkg/wire"
)

// Session groups the decode trace events of one tool invocation.
type Session struct {
	ID     string
	logger log.Logger
	now    func() time.Time
}

// NewSession creates a session that sends events to logger. A nil logger
// discards them.
func NewSession(logger log.Logger) *Session {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Session{
		ID:     log.NewSessionID(),
		logger: logger,
		now:    time.Now,
	}
}

// OpenSession creates a session that logs decode events to slogger and,
// when tracePath is set, appends them to a trace file. The returned
// function closes the trace file.
func OpenSession(tracePath string, slogger *slog.Logger) (*Session, func() error, error) {
	loggers := []log.Logger{log.NewSlogAdapter(slogger)}
	closeFn := func() error { return nil }

	if tracePath != "" {
		fl, err := log.NewFileLogger(tracePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open trace file: %w", err)
		}
		loggers = append(loggers, fl)
		closeFn = fl.Close
	}

	return NewSession(log.NewMultiLogger(loggers...)), closeFn, nil
}

// run is one traced decode.
type run struct {
	session *Session
	start   time.Time
	source  string
	format  wire.Format
	data    []byte
	index   *telepath.Index
}

func (s *Session) begin(source string) *run {
	return &run{session: s, start: s.now(), source: source}
}

// finish logs the trace event for the run and passes err through.
func (r *run) finish(err error) error {
	s := r.session
	event := log.Event{
		Timestamp: r.start,
		SessionID: s.ID,
		Source:    r.source,
		Size:      len(r.data),
		Outcome:   log.OutcomeOK,
		Duration:  s.now().Sub(r.start),
	}
	if r.data != nil {
		event.Digest = log.Digest(r.data)
	}
	if r.format != wire.FormatUnknown {
		event.Format = r.format.String()
	}
	if r.index != nil {
		event.Scan = log.NewScanStats(r.index)
	}
	if err != nil {
		event.Outcome = log.OutcomeError
		event.Error = log.NewErrorData(err)
	}
	s.logger.Log(event)
	return err
}

// readInput reads source, where "-" means stdin.
func readInput(source string, stdin io.Reader) ([]byte, error) {
	if source == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

// parseInput reads and parses source into a wire tree, recording the
// raw data and detected format on r.
func (r *run) parseInput(cfg Config, stdin io.Reader) (any, error) {
	data, err := readInput(r.source, stdin)
	if err != nil {
		return nil, err
	}
	r.data = data

	format, err := cfg.InputFormat()
	if err != nil {
		return nil, err
	}
	if format == wire.FormatUnknown {
		path := r.source
		if path == "-" {
			path = ""
		}
		format = wire.DetectFormat(path, data)
	}
	r.format = format

	return wire.Parse(format, data)
}

// openOutput returns the writer selected by output, defaulting to w.
func openOutput(output string, w io.Writer) (io.Writer, func() error, error) {
	if output == "" {
		return w, func() error { return nil }, nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
