package inspect

import (
	"fmt"
	"strings"

	"github.com/mash-protocol/telepath-go/pkg/telepath"
)

// Inspector decodes wire trees with a codec and renders the results.
type Inspector struct {
	codec     *telepath.Codec
	formatter *Formatter
}

// NewInspector creates a new Inspector. A nil formatter selects
// NewFormatter defaults.
func NewInspector(codec *telepath.Codec, formatter *Formatter) *Inspector {
	if formatter == nil {
		formatter = NewFormatter()
	}
	return &Inspector{codec: codec, formatter: formatter}
}

// Codec returns the underlying codec.
func (i *Inspector) Codec() *telepath.Codec {
	return i.codec
}

// Formatter returns the formatter used for rendering.
func (i *Inspector) Formatter() *Formatter {
	return i.formatter
}

// Unpack decodes tree and, when path is not empty, selects the sub-value
// at path.
func (i *Inspector) Unpack(tree any, path string) (any, error) {
	v, err := i.codec.Unpack(tree)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return v, nil
	}
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return Lookup(v, p)
}

// Inspect decodes tree and returns the formatted value at path.
func (i *Inspector) Inspect(tree any, path string) (string, error) {
	v, err := i.Unpack(tree, path)
	if err != nil {
		return "", err
	}
	return i.formatter.Format(v), nil
}

// DeclaredID describes one node carrying an _id.
type DeclaredID struct {
	ID   string `json:"id" yaml:"id"`
	Path string `json:"path" yaml:"path"`
}

// TypeUse counts the typed nodes using one type name.
type TypeUse struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
	Known bool   `json:"known" yaml:"known"`
}

// Summary is a display form of a scan index.
type Summary struct {
	IDs        []DeclaredID `json:"ids" yaml:"ids"`
	Refs       int          `json:"refs" yaml:"refs"`
	Unresolved []string     `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
	Types      []TypeUse    `json:"types,omitempty" yaml:"types,omitempty"`
}

// Summarize runs the scan pass over tree. Type names are checked against
// the codec's registry; nothing is constructed.
func (i *Inspector) Summarize(tree any) (*Summary, error) {
	index, err := i.codec.Scan(tree)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		IDs:  []DeclaredID{},
		Refs: len(index.Refs()),
	}
	for _, id := range index.IDs() {
		path, _ := index.Path(id)
		s.IDs = append(s.IDs, DeclaredID{ID: id.String(), Path: path})
	}
	for _, id := range index.Unresolved() {
		s.Unresolved = append(s.Unresolved, id.String())
	}
	for _, name := range index.Types() {
		s.Types = append(s.Types, TypeUse{
			Name:  name,
			Count: index.TypeCount(name),
			Known: i.codec.Registry().Has(name),
		})
	}
	return s, nil
}

// FormatSummary formats a summary for display.
func (i *Inspector) FormatSummary(s *Summary) string {
	f := i.formatter
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("ids: %d\n", len(s.IDs)))
	for _, d := range s.IDs {
		sb.WriteString(f.Indent(1, fmt.Sprintf("%s at %s\n", d.ID, d.Path)))
	}

	sb.WriteString(fmt.Sprintf("refs: %d\n", s.Refs))
	if len(s.Unresolved) > 0 {
		sb.WriteString(fmt.Sprintf("unresolved: %s\n", strings.Join(s.Unresolved, ", ")))
	}

	if len(s.Types) == 0 {
		sb.WriteString("types: (none)\n")
		return sb.String()
	}
	sb.WriteString("types:\n")
	for _, t := range s.Types {
		line := fmt.Sprintf("%s: %d", t.Name, t.Count)
		if !t.Known {
			line += " (unregistered)"
		}
		sb.WriteString(f.Indent(1, line+"\n"))
	}
	return sb.String()
}
