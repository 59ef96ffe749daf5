package inspect

import (
	"errors"
	"testing"

	"github.com/mash-protocol/telepath-go/pkg/examples"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		input    string
		segments []string
		wantErr  error
	}{
		{"a", []string{"a"}, nil},
		{"items/0/label", []string{"items", "0", "label"}, nil},
		{"/items/0", []string{"items", "0"}, nil},
		{"/", nil, nil},
		{"/a~1b/c~0d", []string{"a/b", "c~d"}, nil},
		{"  x  ", []string{"x"}, nil},
		{"", nil, ErrEmptyPath},
		{"a//b", nil, ErrInvalidPath},
		{"a/", nil, ErrInvalidPath},
		{"a~2", nil, ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePath(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParsePath(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePath(%q) failed: %v", tt.input, err)
			}
			if len(p.Segments) != len(tt.segments) {
				t.Fatalf("segments: got %q, want %q", p.Segments, tt.segments)
			}
			for i := range tt.segments {
				if p.Segments[i] != tt.segments[i] {
					t.Errorf("segment %d: got %q, want %q", i, p.Segments[i], tt.segments[i])
				}
			}
		})
	}
}

func TestPathString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/", "/"},
		{"a/0", "/a/0"},
		{"/a~1b/c~0d", "/a~1b/c~0d"},
	}
	for _, tt := range tests {
		p, err := ParsePath(tt.input)
		if err != nil {
			t.Fatalf("ParsePath(%q) failed: %v", tt.input, err)
		}
		if got := p.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func widgetGraph() any {
	return map[string]any{
		"root": &examples.Widget{
			Name:     "panel",
			Attrs:    map[string]any{"label": "Hi"},
			Children: []any{&examples.Point{X: 3, Y: 4}},
		},
		"items": []any{"a", "b"},
		"fixed": [2]string{"x", "y"},
		"named": map[string]int{"one": 1},
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		path string
		want any
	}{
		{"/", nil}, // checked separately
		{"items/1", "b"},
		{"root/attrs/label", "Hi"},
		{"root/Name", "panel"},
		{"root/name", "panel"},
		{"root/children/0/x", float64(3)},
		{"root/children/0/Y", float64(4)},
		{"fixed/0", "x"},
		{"named/one", 1},
	}

	graph := widgetGraph()
	for _, tt := range tests[1:] {
		t.Run(tt.path, func(t *testing.T) {
			p, err := ParsePath(tt.path)
			if err != nil {
				t.Fatalf("ParsePath failed: %v", err)
			}
			got, err := Lookup(graph, p)
			if err != nil {
				t.Fatalf("Lookup(%q) failed: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Lookup(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}

	root, _ := ParsePath("/")
	got, err := Lookup(graph, root)
	if err != nil {
		t.Fatalf("Lookup(/) failed: %v", err)
	}
	if _, ok := got.(map[string]any); !ok {
		t.Errorf("Lookup(/) = %T, want the root map", got)
	}
}

func TestLookupErrors(t *testing.T) {
	tests := []struct {
		path    string
		wantErr error
	}{
		{"missing", ErrNotFound},
		{"items/5", ErrIndexRange},
		{"items/-1", ErrIndexRange},
		{"items/x", ErrInvalidPath},
		{"root/name/x", ErrNotContainer},
		{"root/nope", ErrNotFound},
		{"named/two", ErrNotFound},
	}

	graph := widgetGraph()
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, err := ParsePath(tt.path)
			if err != nil {
				t.Fatalf("ParsePath failed: %v", err)
			}
			if _, err := Lookup(graph, p); !errors.Is(err, tt.wantErr) {
				t.Errorf("Lookup(%q) error = %v, want %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestLookupErrorNamesSegment(t *testing.T) {
	p, _ := ParsePath("items/5")
	_, err := Lookup(widgetGraph(), p)
	if err == nil {
		t.Fatal("expected error")
	}
	want := "/items/5: index out of range: 5 (length 2)"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}
