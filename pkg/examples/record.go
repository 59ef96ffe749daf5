package examples

import "github.com/mash-protocol/telepath-go/pkg/telepath"

// Record is a typed node whose type is not known to the decoder. It keeps
// the type name and the decoded arguments.
type Record struct {
	Type string `json:"type" yaml:"type"`
	Args []any  `json:"args" yaml:"args"`
}

// RecordConstructor returns a constructor that builds Records for name.
func RecordConstructor(name string) telepath.Constructor {
	return func(args []any) (any, error) {
		return &Record{Type: name, Args: args}, nil
	}
}

// TelepathType returns the type name the record was decoded from.
func (r *Record) TelepathType() string {
	return r.Type
}
