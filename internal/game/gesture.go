package game

import "github.com/robalobadob/dotword/internal/catalog"

// GestureState is the stroke state machine: Idle or Drawing.
type GestureState int

const (
	Idle GestureState = iota
	Drawing
)

func (s GestureState) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// HitTest returns the lowest index whose dot lies within tol of p on both
// axes independently (an axis-aligned box, not a radius).
func HitTest(dots []catalog.Point, p catalog.Point, tol int) (int, bool) {
	for i, d := range dots {
		if abs(d.X-p.X) <= tol && abs(d.Y-p.Y) <= tol {
			return i, true
		}
	}
	return -1, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Release describes how a stroke ended on pointer-up.
type Release struct {
	Kept   bool
	Reason DiscardReason // set when !Kept
	From   int
	To     int // -1 when no dot was hit
}

// Gesture turns pointer events into strokes between dots.
type Gesture struct {
	dots   []catalog.Point
	tol    int
	state  GestureState
	anchor int
	cursor catalog.Point
}

// NewGesture returns an idle controller over dots.
func NewGesture(dots []catalog.Point, tol int) *Gesture {
	return &Gesture{dots: dots, tol: tol, anchor: -1}
}

// Reset drops any stroke in progress and rebinds to a new dot set.
func (g *Gesture) Reset(dots []catalog.Point) {
	g.dots = dots
	g.cancel()
}

func (g *Gesture) cancel() {
	g.state = Idle
	g.anchor = -1
	g.cursor = catalog.Point{}
}

// State reports Idle or Drawing.
func (g *Gesture) State() GestureState { return g.state }

// Active returns the anchor dot and current pointer of the stroke in
// progress, if any.
func (g *Gesture) Active() (anchor int, cursor catalog.Point, ok bool) {
	if g.state != Drawing {
		return -1, catalog.Point{}, false
	}
	return g.anchor, g.cursor, true
}

// Down starts a stroke at the dot under p. A stroke already in progress is
// dropped first. Returns false (and stays Idle) when no dot is hit.
func (g *Gesture) Down(p catalog.Point) (int, bool) {
	g.cancel()
	i, ok := HitTest(g.dots, p, g.tol)
	if !ok {
		return -1, false
	}
	g.state, g.anchor, g.cursor = Drawing, i, p
	return i, true
}

// Move updates the free endpoint. Returns false when Idle.
func (g *Gesture) Move(p catalog.Point) bool {
	if g.state != Drawing {
		return false
	}
	g.cursor = p
	return true
}

// Up ends the stroke. A release on a different dot is offered to v; the
// stroke is kept only if v accepts it as a new pair. The controller is Idle
// afterwards whatever the result. ok is false when there was no stroke.
func (g *Gesture) Up(p catalog.Point, v *Validator) (r Release, ok bool) {
	if g.state != Drawing {
		return Release{}, false
	}
	from := g.anchor
	g.cancel()

	to, hit := HitTest(g.dots, p, g.tol)
	switch {
	case !hit:
		return Release{Reason: DiscardNoDot, From: from, To: -1}, true
	case to == from:
		return Release{Reason: DiscardSelfLoop, From: from, To: to}, true
	}
	if v.TryConnect(from, to) == ConnectDuplicate {
		return Release{Reason: DiscardDuplicate, From: from, To: to}, true
	}
	return Release{Kept: true, From: from, To: to}, true
}
