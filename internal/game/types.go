// internal/game/types.go
//
// Core type definitions for the dot-connect game engine.
// Defines:
//   - OutcomeKind / DiscardReason: what a single input event did.
//   - Notice: a modal-style message the presentation layer should show.
//   - Segment: a line between two dots (or a dot and the pointer).
//   - Outcome: the explicit state delta returned by every Session method.
//   - LevelView / View: snapshots for (re)rendering.

package game

import "github.com/robalobadob/dotword/internal/catalog"

// OutcomeKind classifies the effect of one input event.
type OutcomeKind string

const (
	OutcomeIgnored       OutcomeKind = "ignored"        // no state change
	OutcomeStrokeStarted OutcomeKind = "stroke_started" // pointer-down hit a dot
	OutcomeStrokeMoved   OutcomeKind = "stroke_moved"   // free endpoint moved
	OutcomeLineKept      OutcomeKind = "line_kept"      // stroke committed as a new connection
	OutcomeLineDiscarded OutcomeKind = "line_discarded" // stroke released without a new connection
	OutcomeLevelLoaded   OutcomeKind = "level_loaded"
	OutcomeSolved        OutcomeKind = "solved"
	OutcomeIncomplete    OutcomeKind = "incomplete"
	OutcomeHintRevealed  OutcomeKind = "hint_revealed"
	OutcomeHintRefused   OutcomeKind = "hint_refused"
)

// DiscardReason explains an OutcomeLineDiscarded.
type DiscardReason string

const (
	DiscardNoDot     DiscardReason = "no_dot"    // released away from every dot
	DiscardSelfLoop  DiscardReason = "self_loop" // released on the anchor dot
	DiscardDuplicate DiscardReason = "duplicate" // pair already connected
)

// NoticeKind mirrors the three dialog flavors of the game.
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notice is a message for the player.
type Notice struct {
	Kind  NoticeKind `json:"kind"`
	Title string     `json:"title"`
	Text  string     `json:"text"`
}

// Segment is a drawn line. ToDot is -1 while the stroke is still in progress
// and To follows the pointer.
type Segment struct {
	FromDot int           `json:"fromDot"`
	ToDot   int           `json:"toDot"`
	From    catalog.Point `json:"from"`
	To      catalog.Point `json:"to"`
	Color   catalog.Color `json:"color"`
}

// LevelView is everything needed to redraw a freshly loaded level.
type LevelView struct {
	Index    int             `json:"index"`
	Equation string          `json:"equation"`
	Color    catalog.Color   `json:"color"`
	Dots     []catalog.Point `json:"dots"`
}

// Outcome is the explicit result of one event. Callers render from it;
// the engine never draws.
type Outcome struct {
	Kind        OutcomeKind   `json:"kind"`
	Reason      DiscardReason `json:"reason,omitempty"`
	Stroke      *Segment      `json:"stroke,omitempty"`
	Notice      *Notice       `json:"notice,omitempty"`
	Level       *LevelView    `json:"level,omitempty"`
	Diamonds    int           `json:"diamonds"`
	HintsUsed   int           `json:"hintsUsed"`
	NextEnabled bool          `json:"nextEnabled"`
}

// View is a full snapshot of a session.
type View struct {
	SessionID    string         `json:"sessionId"`
	Level        LevelView      `json:"level"`
	Diamonds     int            `json:"diamonds"`
	DiamondsText string         `json:"diamondsText"`
	HintsUsed    int            `json:"hintsUsed"`
	Lines        []Segment      `json:"lines"`
	Active       *Segment       `json:"active,omitempty"`
	NextEnabled  bool           `json:"nextEnabled"`
	Canvas       catalog.Canvas `json:"canvas"`
}
