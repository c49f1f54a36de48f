// internal/game/session.go
//
// Game session for one player.
// Responsibilities:
//   - Load levels from the catalog (wrapping at both ends).
//   - Feed pointer events through the Gesture controller and Validator.
//   - Submit: award diamonds and unlock the next level when complete.
//   - Hints: three free reveals, then HintCost diamonds each.
//
// Notes:
//   - Every method returns an Outcome describing the change; nothing here
//     renders or logs.
//   - A Session is not safe for concurrent use. Callers serialize events
//     (see internal/store).

package game

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/robalobadob/dotword/internal/catalog"
)

const (
	SubmitReward = 20 // diamonds per solved level
	FreeHints    = 3  // reveals that cost nothing
	HintCost     = 5  // diamonds per reveal after the free ones
)

// Session owns all mutable state of one play-through.
type Session struct {
	ID string

	cat         *catalog.Catalog
	levelIndex  int
	level       catalog.Level
	dots        []catalog.Point
	color       catalog.Color
	diamonds    int
	hintsUsed   int
	nextEnabled bool
	lines       []Segment
	conn        *Validator
	gesture     *Gesture
}

// New starts a session at level start. cat must have passed Validate;
// New panics otherwise.
func New(cat *catalog.Catalog, start int) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		cat:     cat,
		conn:    NewValidator(0),
		gesture: NewGesture(nil, cat.Canvas().Tolerance),
	}
	s.LoadLevel(start)
	return s
}

// LoadLevel resets the board for level i (normalized into catalog bounds).
// Diamonds and hints carry over.
func (s *Session) LoadLevel(i int) Outcome {
	s.levelIndex = s.cat.Index(i)
	s.level = s.cat.Level(s.levelIndex)

	dots, err := s.cat.DotPattern(s.level.Answer)
	if err != nil {
		panic(fmt.Sprintf("game: unvalidated catalog: %v", err))
	}
	color, err := s.cat.Color(s.level.Answer)
	if err != nil {
		panic(fmt.Sprintf("game: unvalidated catalog: %v", err))
	}

	s.dots, s.color = dots, color
	s.lines = nil
	s.nextEnabled = false
	s.conn.Reset(len(dots))
	s.gesture.Reset(dots)

	lv := s.levelView()
	return s.outcome(OutcomeLevelLoaded, func(o *Outcome) { o.Level = &lv })
}

// NextLevel advances by one, wrapping after the last level.
func (s *Session) NextLevel() Outcome {
	return s.LoadLevel(s.levelIndex + 1)
}

// Submit checks the board. A complete board earns SubmitReward and enables
// the next level; an incomplete one changes nothing.
func (s *Session) Submit() Outcome {
	if !s.conn.IsComplete() {
		return s.outcome(OutcomeIncomplete, func(o *Outcome) {
			o.Notice = &Notice{Kind: NoticeError, Title: "Incorrect", Text: "Connections not correct. Try again!"}
		})
	}
	s.diamonds += SubmitReward
	s.nextEnabled = true
	return s.outcome(OutcomeSolved, func(o *Outcome) {
		o.Notice = &Notice{Kind: NoticeInfo, Title: "Success",
			Text: "Correct! You earned " + strconv.Itoa(SubmitReward) + " blue diamonds."}
	})
}

// ShowHint reveals the answer. The first FreeHints reveals are free, later
// ones cost HintCost diamonds and are refused without mutation when the
// balance is short.
func (s *Session) ShowHint() Outcome {
	if s.hintsUsed >= FreeHints {
		if s.diamonds < HintCost {
			return s.outcome(OutcomeHintRefused, func(o *Outcome) {
				o.Notice = &Notice{Kind: NoticeWarning, Title: "Not enough diamonds",
					Text: "You need " + strconv.Itoa(HintCost) + " blue diamonds to get a hint."}
			})
		}
		s.diamonds -= HintCost
	}
	s.hintsUsed++
	return s.outcome(OutcomeHintRevealed, func(o *Outcome) {
		o.Notice = &Notice{Kind: NoticeInfo, Title: "Hint", Text: "The answer is: " + s.level.Answer}
	})
}

// PointerDown begins a stroke at the dot under p, if any.
func (s *Session) PointerDown(p catalog.Point) Outcome {
	anchor, ok := s.gesture.Down(p)
	if !ok {
		return s.outcome(OutcomeIgnored, nil)
	}
	seg := Segment{FromDot: anchor, ToDot: -1, From: s.dots[anchor], To: p, Color: s.color}
	return s.outcome(OutcomeStrokeStarted, func(o *Outcome) { o.Stroke = &seg })
}

// PointerMove drags the free end of the current stroke.
func (s *Session) PointerMove(p catalog.Point) Outcome {
	if !s.gesture.Move(p) {
		return s.outcome(OutcomeIgnored, nil)
	}
	seg := s.activeSegment()
	return s.outcome(OutcomeStrokeMoved, func(o *Outcome) { o.Stroke = seg })
}

// PointerUp resolves the current stroke. A kept line is snapped to both dot
// centers and added to the visible lines.
func (s *Session) PointerUp(p catalog.Point) Outcome {
	r, ok := s.gesture.Up(p, s.conn)
	if !ok {
		return s.outcome(OutcomeIgnored, nil)
	}
	if !r.Kept {
		return s.outcome(OutcomeLineDiscarded, func(o *Outcome) { o.Reason = r.Reason })
	}
	seg := Segment{FromDot: r.From, ToDot: r.To, From: s.dots[r.From], To: s.dots[r.To], Color: s.color}
	s.lines = append(s.lines, seg)
	return s.outcome(OutcomeLineKept, func(o *Outcome) { o.Stroke = &seg })
}

// View returns a full snapshot for rendering.
func (s *Session) View() View {
	return View{
		SessionID:    s.ID,
		Level:        s.levelView(),
		Diamonds:     s.diamonds,
		DiamondsText: "Blue Diamonds: " + strconv.Itoa(s.diamonds),
		HintsUsed:    s.hintsUsed,
		Lines:        append([]Segment{}, s.lines...),
		Active:       s.activeSegment(),
		NextEnabled:  s.nextEnabled,
		Canvas:       s.cat.Canvas(),
	}
}

func (s *Session) LevelIndex() int { return s.levelIndex }
func (s *Session) Level() catalog.Level { return s.level }
func (s *Session) Diamonds() int { return s.diamonds }
func (s *Session) HintsUsed() int { return s.hintsUsed }
func (s *Session) NextEnabled() bool { return s.nextEnabled }
func (s *Session) Lines() []Segment { return append([]Segment(nil), s.lines...) }
func (s *Session) GestureState() GestureState { return s.gesture.State() }

// Connected reports whether dots i and j are linked in this attempt.
func (s *Session) Connected(i, j int) bool { return s.conn.Has(i, j) }

func (s *Session) levelView() LevelView {
	return LevelView{
		Index:    s.levelIndex,
		Equation: s.level.Equation(),
		Color:    s.color,
		Dots:     append([]catalog.Point(nil), s.dots...),
	}
}

func (s *Session) activeSegment() *Segment {
	anchor, cur, ok := s.gesture.Active()
	if !ok {
		return nil
	}
	return &Segment{FromDot: anchor, ToDot: -1, From: s.dots[anchor], To: cur, Color: s.color}
}

// outcome fills the balance fields common to every Outcome.
func (s *Session) outcome(kind OutcomeKind, set func(*Outcome)) Outcome {
	o := Outcome{
		Kind:        kind,
		Diamonds:    s.diamonds,
		HintsUsed:   s.hintsUsed,
		NextEnabled: s.nextEnabled,
	}
	if set != nil {
		set(&o)
	}
	return o
}
