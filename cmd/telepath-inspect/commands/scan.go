package commands

import (
	"fmt"
	"io"

	"github.com/mash-protocol/telepath-go/pkg/inspect"
	"github.com/mash-protocol/telepath-go/pkg/wire"
)

// ScanOptions configures the scan command.
type ScanOptions struct {
	Config Config

	// Source is the input file, or "-" for stdin.
	Source string
}

// RunScan runs the scan pass over a wire tree and writes the id, reference
// and type summary. Nothing is constructed.
func RunScan(opts ScanOptions, stdin io.Reader, w io.Writer, session *Session) error {
	outFormat, err := opts.Config.OutputFormat()
	if err != nil {
		return err
	}

	r := session.begin(opts.Source)
	ins, summary, err := r.scan(opts.Config, stdin)
	if err := r.finish(err); err != nil {
		return err
	}

	out, closeOut, err := openOutput(opts.Config.Output, w)
	if err != nil {
		return err
	}
	defer closeOut()

	if outFormat == wire.FormatUnknown {
		_, err := io.WriteString(out, ins.FormatSummary(summary))
		return err
	}
	data, err := wire.Encode(outFormat, summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func (r *run) scan(cfg Config, stdin io.Reader) (*inspect.Inspector, *inspect.Summary, error) {
	tree, err := r.parseInput(cfg, stdin)
	if err != nil {
		return nil, nil, err
	}

	codec := cfg.NewCodec()
	index, err := codec.Scan(tree)
	if err != nil {
		return nil, nil, err
	}
	r.index = index

	ins := inspect.NewInspector(codec, nil)
	summary, err := ins.Summarize(tree)
	return ins, summary, err
}
