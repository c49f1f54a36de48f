// internal/catalog/types.go
//
// Reference data types for the level catalog.
// Defines:
//   - Operator: the word-equation operator (+ or -).
//   - Level: one word equation and its answer.
//   - Point: a dot position in canvas coordinates.
//   - Color: a display color name for an answer's dots and lines.
//   - Canvas: the declared coordinate space and hit-test geometry.

package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Operator joins the two words of an equation.
type Operator string

const (
	OpPlus  Operator = "+"
	OpMinus Operator = "-"
)

// Valid reports whether o is one of the known operators.
func (o Operator) Valid() bool { return o == OpPlus || o == OpMinus }

// Level is an immutable word equation. It is identified by its position
// in the catalog.
type Level struct {
	Word1  string   `yaml:"word1" json:"word1"`
	Op     Operator `yaml:"op" json:"op"`
	Word2  string   `yaml:"word2" json:"word2"`
	Answer string   `yaml:"answer" json:"-"`
}

// Equation renders the level as shown to the player, e.g. "cat + fish".
func (l Level) Equation() string {
	return l.Word1 + " " + string(l.Op) + " " + l.Word2
}

// Point is a position in canvas coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

// UnmarshalYAML decodes a point written as a two-element sequence: [x, y].
func (p *Point) UnmarshalYAML(n *yaml.Node) error {
	var xy []int
	if err := n.Decode(&xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("line %d: point must be [x, y], got %d values", n.Line, len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// Color is a display color name understood by the presentation layer.
type Color string

// Canvas declares the coordinate space dots and pointer events share.
type Canvas struct {
	Width     int `yaml:"width" json:"width"`
	Height    int `yaml:"height" json:"height"`
	Tolerance int `yaml:"tolerance" json:"tolerance"`   // hit-test half-width and half-height
	DotRadius int `yaml:"dot_radius" json:"dotRadius"` // drawing only
}

// DefaultCanvas is a 400x300 board with a 15 unit hit box.
func DefaultCanvas() Canvas {
	return Canvas{Width: 400, Height: 300, Tolerance: 15, DotRadius: 7}
}

// Contains reports whether p lies within the canvas bounds (inclusive).
func (c Canvas) Contains(p Point) bool {
	return p.X >= 0 && p.X <= c.Width && p.Y >= 0 && p.Y <= c.Height
}
