package examples

import (
	"fmt"

	"github.com/mash-protocol/telepath-go/pkg/telepath"
)

// Widget is a UI widget definition. Children are already-decoded values,
// usually other widgets, and may be shared with other parts of the tree.
// Args: [name, attrs?, children?]
type Widget struct {
	Name     string         `json:"name" yaml:"name"`
	Attrs    map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Children []any          `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewWidget constructs a Widget from telepath arguments.
func NewWidget(args []any) (*Widget, error) {
	name, err := telepath.Arg[string](args, 0)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("Widget name must not be empty")
	}
	attrs, err := telepath.ArgOr[map[string]any](args, 1, nil)
	if err != nil {
		return nil, err
	}
	children, err := telepath.ArgOr[[]any](args, 2, nil)
	if err != nil {
		return nil, err
	}
	return &Widget{Name: name, Attrs: attrs, Children: children}, nil
}

// Attr returns the attribute named key as a string.
func (w *Widget) Attr(key string) (string, bool) {
	v, ok := w.Attrs[key].(string)
	return v, ok
}
