package examples

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed fixtures/*
var fixtureFS embed.FS

// Fixtures returns the names of the embedded sample wire trees, sorted.
func Fixtures() ([]string, error) {
	entries, err := fs.ReadDir(fixtureFS, "fixtures")
	if err != nil {
		return nil, fmt.Errorf("reading fixtures directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Fixture returns the raw bytes of an embedded sample wire tree. The
// format follows from the file extension.
func Fixture(name string) ([]byte, error) {
	data, err := fixtureFS.ReadFile("fixtures/" + name)
	if err != nil {
		return nil, fmt.Errorf("fixture %q not found: %w", name, err)
	}
	return data, nil
}
