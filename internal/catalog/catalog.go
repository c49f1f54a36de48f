// internal/catalog/catalog.go
//
// Level catalog: the ordered word equations, the dot pattern and color for
// each answer, and the canvas geometry they are drawn in.
//
// Loading behavior (Load):
//  1. If a path is given, read the YAML catalog from that file.
//  2. Otherwise fall back to the embedded assets/catalog.yaml.
//
// Missing canvas fields take DefaultCanvas values. Every catalog is
// validated once while loading; an inconsistent catalog is a startup error,
// never a runtime one.

package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/dotword/assets"
)

var (
	// ErrLookup is returned when an answer has no pattern or color entry.
	ErrLookup = errors.New("catalog: answer not found")

	// ErrInvalid wraps every consistency problem found by Validate.
	ErrInvalid = errors.New("catalog: invalid")
)

// Catalog is read-only reference data shared by all sessions.
type Catalog struct {
	canvas   Canvas
	levels   []Level
	patterns map[string][]Point
	colors   map[string]Color
}

// file mirrors the on-disk YAML layout.
type file struct {
	Canvas   Canvas             `yaml:"canvas"`
	Levels   []Level            `yaml:"levels"`
	Patterns map[string][]Point `yaml:"patterns"`
	Colors   map[string]Color   `yaml:"colors"`
}

// Load reads the catalog at path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = assets.CatalogYAML()
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog. Unknown keys are rejected.
func Parse(data []byte) (*Catalog, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	def := DefaultCanvas()
	if f.Canvas.Width == 0 {
		f.Canvas.Width = def.Width
	}
	if f.Canvas.Height == 0 {
		f.Canvas.Height = def.Height
	}
	if f.Canvas.Tolerance == 0 {
		f.Canvas.Tolerance = def.Tolerance
	}
	if f.Canvas.DotRadius == 0 {
		f.Canvas.DotRadius = def.DotRadius
	}

	c := New(f.Canvas, f.Levels, f.Patterns, f.Colors)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// New builds a catalog from in-memory tables without validating it.
// Inputs are copied so later changes by the caller are not observed.
func New(canvas Canvas, levels []Level, patterns map[string][]Point, colors map[string]Color) *Catalog {
	c := &Catalog{
		canvas:   canvas,
		levels:   append([]Level(nil), levels...),
		patterns: make(map[string][]Point, len(patterns)),
		colors:   make(map[string]Color, len(colors)),
	}
	for k, v := range patterns {
		c.patterns[k] = append([]Point(nil), v...)
	}
	for k, v := range colors {
		c.colors[k] = v
	}
	return c
}

// Validate checks that every level can be played: known operator, non-empty
// words, and a pattern of at least two in-bounds dots plus a color for its
// answer. All problems are reported together.
func (c *Catalog) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	cv := c.canvas
	if cv.Width <= 0 || cv.Height <= 0 {
		bad("canvas size %dx%d must be positive", cv.Width, cv.Height)
	}
	if cv.Tolerance <= 0 {
		bad("tolerance %d must be positive", cv.Tolerance)
	}
	if len(c.levels) == 0 {
		bad("no levels")
	}

	for i, l := range c.levels {
		if !l.Op.Valid() {
			bad("level %d: unknown operator %q", i, l.Op)
		}
		if l.Word1 == "" || l.Word2 == "" || l.Answer == "" {
			bad("level %d: empty word or answer", i)
		}
		pts, ok := c.patterns[l.Answer]
		if !ok {
			bad("level %d: no dot pattern for answer %q", i, l.Answer)
		} else if len(pts) < 2 {
			bad("level %d: pattern for %q has %d dots, need at least 2", i, l.Answer, len(pts))
		}
		if _, ok := c.colors[l.Answer]; !ok {
			bad("level %d: no color for answer %q", i, l.Answer)
		}
	}

	for answer, pts := range c.patterns {
		for j, p := range pts {
			if !cv.Contains(p) {
				bad("pattern %q: dot %d at (%d,%d) outside %dx%d canvas", answer, j, p.X, p.Y, cv.Width, cv.Height)
			}
		}
	}
	return errors.Join(errs...)
}

// Canvas returns the declared coordinate space.
func (c *Catalog) Canvas() Canvas { return c.canvas }

// Len is the number of levels.
func (c *Catalog) Len() int { return len(c.levels) }

// Index normalizes any integer into [0, Len()), wrapping in both directions.
func (c *Catalog) Index(i int) int {
	n := len(c.levels)
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// Level returns the level at i after normalization. Never fails on a
// validated catalog.
func (c *Catalog) Level(i int) Level { return c.levels[c.Index(i)] }

// Levels returns a copy of the ordered level table.
func (c *Catalog) Levels() []Level { return append([]Level(nil), c.levels...) }

// DotPattern returns a copy of the ordered dots for answer.
func (c *Catalog) DotPattern(answer string) ([]Point, error) {
	pts, ok := c.patterns[answer]
	if !ok {
		return nil, fmt.Errorf("%w: pattern for %q", ErrLookup, answer)
	}
	return append([]Point(nil), pts...), nil
}

// Color returns the display color for answer.
func (c *Catalog) Color(answer string) (Color, error) {
	col, ok := c.colors[answer]
	if !ok {
		return "", fmt.Errorf("%w: color for %q", ErrLookup, answer)
	}
	return col, nil
}
