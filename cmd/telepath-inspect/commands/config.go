// Package commands implements the telepath-inspect CLI commands.
package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mash-protocol/telepath-go/pkg/examples"
	"github.com/mash-protocol/telepath-go/pkg/telepath"
	"github.com/mash-protocol/telepath-go/pkg/wire"
)

// OutputTree selects the indented tree rendering of pkg/inspect.
const OutputTree = "tree"

// Config holds the settings shared by all commands. It can be loaded from
// a YAML file; command-line flags override file values.
type Config struct {
	// InFormat forces the input wire format. Empty means detect.
	InFormat string `yaml:"in_format"`

	// Format is the output format: tree, json, yaml, or cbor.
	Format string `yaml:"format"`

	// MaxDepth bounds the nesting depth of decoded trees.
	MaxDepth int `yaml:"max_depth"`

	// Examples registers the example types (Point, Widget, RichText, Date).
	Examples bool `yaml:"examples"`

	// Generic decodes typed nodes with no registered constructor as records.
	Generic bool `yaml:"generic"`

	// Output is the output file. Empty means stdout.
	Output string `yaml:"output"`

	// Trace is the path of a .tlog trace file. Empty disables file tracing.
	Trace string `yaml:"trace"`

	// LogLevel is the console log level: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() Config {
	return Config{
		Format:   OutputTree,
		MaxDepth: telepath.DefaultMaxDepth,
		Examples: true,
		LogLevel: "info",
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig. An empty
// path returns the defaults. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the config values.
func (c Config) Validate() error {
	if c.InFormat != "" {
		if _, err := wire.ParseFormat(c.InFormat); err != nil {
			return fmt.Errorf("in_format: %w", err)
		}
	}
	if _, err := c.OutputFormat(); err != nil {
		return err
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// InputFormat returns the forced input format, or FormatUnknown to detect.
func (c Config) InputFormat() (wire.Format, error) {
	if c.InFormat == "" {
		return wire.FormatUnknown, nil
	}
	return wire.ParseFormat(c.InFormat)
}

// OutputFormat returns the wire format for output, or FormatUnknown for
// the tree rendering.
func (c Config) OutputFormat() (wire.Format, error) {
	if c.Format == "" || strings.EqualFold(c.Format, OutputTree) {
		return wire.FormatUnknown, nil
	}
	f, err := wire.ParseFormat(c.Format)
	if err != nil {
		return wire.FormatUnknown, fmt.Errorf("format: %w", err)
	}
	if f == wire.FormatJSONC {
		return wire.FormatJSON, nil
	}
	return f, nil
}

// NewCodec builds a codec with a fresh registry according to the config.
func (c Config) NewCodec() *telepath.Codec {
	reg := telepath.NewRegistry()
	if c.Examples {
		examples.RegisterAll(reg)
	}
	return telepath.NewCodec(reg, telepath.WithMaxDepth(c.MaxDepth))
}

// CodecFor builds a codec for decoding tree and returns it with the scan
// index of tree. With Generic set, every type name used in tree that has
// no constructor is registered as a generic record.
func (c Config) CodecFor(tree any) (*telepath.Codec, *telepath.Index, error) {
	codec := c.NewCodec()
	index, err := codec.Scan(tree)
	if err != nil {
		return nil, nil, err
	}
	if c.Generic {
		examples.RegisterGeneric(codec.Registry(), index.Types()...)
	}
	return codec, index, nil
}

// ParseLogLevel converts a level name to an slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s (use debug, info, warn, error)", s)
	}
}
