package commands

import (
	"errors"
	"io"

	"github.com/mash-protocol/telepath-go/pkg/wire"
)

// ConvertOptions configures the convert command.
type ConvertOptions struct {
	Config Config

	// Source is the input file, or "-" for stdin.
	Source string

	// To is the target wire format.
	To string
}

// RunConvert re-encodes a wire tree in another format. The tree is not
// decoded, so reserved keys pass through unchanged.
func RunConvert(opts ConvertOptions, stdin io.Reader, w io.Writer) error {
	if opts.To == "" {
		return errors.New("target format required (-to json|jsonc|cbor|yaml)")
	}
	to, err := wire.ParseFormat(opts.To)
	if err != nil {
		return err
	}

	r := &run{source: opts.Source}
	tree, err := r.parseInput(opts.Config, stdin)
	if err != nil {
		return err
	}

	data, err := wire.Encode(to, tree)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(opts.Config.Output, w)
	if err != nil {
		return err
	}
	defer closeOut()

	_, err = out.Write(data)
	return err
}
