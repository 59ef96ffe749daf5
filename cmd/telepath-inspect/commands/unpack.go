package commands

import (
	"fmt"
	"io"

	"github.com/mash-protocol/telepath-go/pkg/inspect"
	"github.com/mash-protocol/telepath-go/pkg/wire"
)

// UnpackOptions configures the unpack command.
type UnpackOptions struct {
	Config Config

	// Source is the input file, or "-" for stdin.
	Source string

	// Path selects a sub-value of the decoded graph.
	Path string
}

// RunUnpack decodes a wire tree and writes the result.
func RunUnpack(opts UnpackOptions, stdin io.Reader, w io.Writer, session *Session) error {
	outFormat, err := opts.Config.OutputFormat()
	if err != nil {
		return err
	}

	r := session.begin(opts.Source)
	v, err := r.unpack(opts.Config, stdin, opts.Path)
	if err := r.finish(err); err != nil {
		return err
	}

	out, closeOut, err := openOutput(opts.Config.Output, w)
	if err != nil {
		return err
	}
	defer closeOut()

	return writeValue(out, outFormat, v)
}

func (r *run) unpack(cfg Config, stdin io.Reader, path string) (any, error) {
	tree, err := r.parseInput(cfg, stdin)
	if err != nil {
		return nil, err
	}
	return r.decode(cfg, tree, path)
}

func (r *run) decode(cfg Config, tree any, path string) (any, error) {
	codec, index, err := cfg.CodecFor(tree)
	if err != nil {
		return nil, err
	}
	r.index = index

	return inspect.NewInspector(codec, nil).Unpack(tree, path)
}

// UnpackData decodes an in-memory document as one traced decode and
// returns the value at path.
func (s *Session) UnpackData(cfg Config, source string, format wire.Format, data []byte, path string) (any, error) {
	r := s.begin(source)
	r.data = data
	r.format = format

	tree, err := wire.Parse(format, data)
	if err != nil {
		return nil, r.finish(err)
	}
	v, err := r.decode(cfg, tree, path)
	if err := r.finish(err); err != nil {
		return nil, err
	}
	return v, nil
}

// writeValue renders v as a tree, or encodes it when format is a wire
// format.
func writeValue(w io.Writer, format wire.Format, v any) error {
	if format == wire.FormatUnknown {
		_, err := io.WriteString(w, inspect.NewFormatter().Format(v))
		return err
	}
	data, err := wire.Encode(format, v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = w.Write(data)
	return err
}
