package examples

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mash-protocol/telepath-go/pkg/telepath"
)

// Point is a 2D coordinate.
// Args: [x, y]
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NewPoint constructs a Point from telepath arguments.
func NewPoint(args []any) (*Point, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("Point takes 2 arguments, got %d", len(args))
	}
	x, err := telepath.Arg[float64](args, 0)
	if err != nil {
		return nil, err
	}
	y, err := telepath.Arg[float64](args, 1)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(x) || math.IsNaN(y) {
		return nil, errors.New("Point coordinates must be numbers")
	}
	return &Point{X: x, Y: y}, nil
}

// RichText is a rich content value.
// Args: [source, features?]
type RichText struct {
	Source   string   `json:"source" yaml:"source"`
	Features []string `json:"features,omitempty" yaml:"features,omitempty"`
}

// NewRichText constructs a RichText from telepath arguments.
func NewRichText(args []any) (*RichText, error) {
	source, err := telepath.Arg[string](args, 0)
	if err != nil {
		return nil, err
	}
	rawFeatures, err := telepath.ArgOr[[]any](args, 1, nil)
	if err != nil {
		return nil, err
	}

	rt := &RichText{Source: source}
	for i, raw := range rawFeatures {
		feature, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("RichText feature %d is %T, want string", i, raw)
		}
		rt.Features = append(rt.Features, feature)
	}
	return rt, nil
}

// Date is a calendar date.
// Args: ["YYYY-MM-DD"]
type Date struct {
	Time time.Time
}

// DateLayout is the wire form of a Date.
const DateLayout = "2006-01-02"

// NewDate constructs a Date from telepath arguments.
func NewDate(args []any) (*Date, error) {
	s, err := telepath.Arg[string](args, 0)
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return &Date{Time: t}, nil
}

// String returns the date in its wire form.
func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

// MarshalText encodes the date in its wire form.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
