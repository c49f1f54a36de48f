package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/dotword/internal/catalog"
	"github.com/robalobadob/dotword/internal/game"
)

func newSession(t *testing.T, start int) *game.Session {
	t.Helper()
	cat, err := catalog.Load("")
	require.NoError(t, err)
	return game.New(cat, start)
}

// stroke drags from dot i to dot j of the current level.
func stroke(s *game.Session, i, j int) game.Outcome {
	dots := s.View().Level.Dots
	s.PointerDown(dots[i])
	s.PointerMove(pt((dots[i].X+dots[j].X)/2, (dots[i].Y+dots[j].Y)/2))
	return s.PointerUp(dots[j])
}

func TestNew_LoadsFirstLevel(t *testing.T) {
	s := newSession(t, 0)
	assert.NotEmpty(t, s.ID)

	v := s.View()
	assert.Equal(t, "cat + fish", v.Level.Equation)
	assert.Equal(t, catalog.Color("orange"), v.Level.Color)
	assert.Len(t, v.Level.Dots, 7)
	assert.Equal(t, "Blue Diamonds: 0", v.DiamondsText)
	assert.False(t, v.NextEnabled)
	assert.Empty(t, v.Lines)
	assert.Nil(t, v.Active)
	assert.Equal(t, catalog.DefaultCanvas(), v.Canvas)
}

func TestNew_PanicsOnUnvalidatedCatalog(t *testing.T) {
	cat := catalog.New(catalog.DefaultCanvas(),
		[]catalog.Level{{Word1: "a", Op: catalog.OpPlus, Word2: "b", Answer: "ab"}}, nil, nil)
	assert.Panics(t, func() { game.New(cat, 0) })
}

// TestSubmit_Solved draws the catfish outline in scrambled order and submits.
func TestSubmit_Solved(t *testing.T) {
	s := newSession(t, 0)

	for _, p := range [][2]int{{3, 4}, {1, 0}, {5, 6}, {2, 1}, {4, 5}, {2, 3}} {
		o := stroke(s, p[0], p[1])
		require.Equal(t, game.OutcomeLineKept, o.Kind, "stroke %v", p)
	}
	before := s.Diamonds()

	o := s.Submit()
	assert.Equal(t, game.OutcomeSolved, o.Kind)
	assert.Equal(t, before+game.SubmitReward, o.Diamonds)
	assert.True(t, o.NextEnabled)
	require.NotNil(t, o.Notice)
	assert.Equal(t, "Correct! You earned 20 blue diamonds.", o.Notice.Text)
	assert.True(t, s.NextEnabled())
	assert.Len(t, s.Lines(), 6)
}

func TestSubmit_Incomplete(t *testing.T) {
	s := newSession(t, 0)
	for i := 0; i < 5; i++ {
		stroke(s, i, i+1)
	}
	stroke(s, 0, 6) // wrong closing pair does not help

	o := s.Submit()
	assert.Equal(t, game.OutcomeIncomplete, o.Kind)
	assert.Equal(t, game.NoticeError, o.Notice.Kind)
	assert.Equal(t, 0, s.Diamonds())
	assert.False(t, s.NextEnabled())
}

func TestPointer_Outcomes(t *testing.T) {
	s := newSession(t, 0)
	dots := s.View().Level.Dots

	o := s.PointerDown(pt(5, 5))
	assert.Equal(t, game.OutcomeIgnored, o.Kind)
	assert.Equal(t, game.OutcomeIgnored, s.PointerMove(pt(6, 6)).Kind)
	assert.Equal(t, game.OutcomeIgnored, s.PointerUp(pt(6, 6)).Kind)

	o = s.PointerDown(pt(dots[0].X+3, dots[0].Y-3))
	require.Equal(t, game.OutcomeStrokeStarted, o.Kind)
	assert.Equal(t, dots[0], o.Stroke.From)
	assert.Equal(t, -1, o.Stroke.ToDot)

	o = s.PointerMove(pt(130, 130))
	require.Equal(t, game.OutcomeStrokeMoved, o.Kind)
	assert.Equal(t, pt(130, 130), o.Stroke.To)
	require.NotNil(t, s.View().Active)
	assert.Equal(t, pt(130, 130), s.View().Active.To)

	// Release a few units off the dot center: the line snaps to the center.
	o = s.PointerUp(pt(dots[1].X-10, dots[1].Y+10))
	require.Equal(t, game.OutcomeLineKept, o.Kind)
	assert.Equal(t, game.Segment{FromDot: 0, ToDot: 1, From: dots[0], To: dots[1], Color: "orange"}, *o.Stroke)
	assert.Nil(t, s.View().Active)

	o = stroke(s, 1, 0)
	assert.Equal(t, game.OutcomeLineDiscarded, o.Kind)
	assert.Equal(t, game.DiscardDuplicate, o.Reason)
	assert.Len(t, s.Lines(), 1)

	o = stroke(s, 2, 2)
	assert.Equal(t, game.DiscardSelfLoop, o.Reason)

	s.PointerDown(dots[2])
	o = s.PointerUp(pt(390, 290))
	assert.Equal(t, game.DiscardNoDot, o.Reason)
	assert.Len(t, s.Lines(), 1)
	assert.Equal(t, game.Idle, s.GestureState())
}

// TestShowHint_Schedule covers the free allotment, paid reveals and refusal.
func TestShowHint_Schedule(t *testing.T) {
	s := newSession(t, 0)

	for i := 1; i <= game.FreeHints; i++ {
		o := s.ShowHint()
		require.Equal(t, game.OutcomeHintRevealed, o.Kind)
		assert.Equal(t, "The answer is: catfish", o.Notice.Text)
		assert.Equal(t, i, o.HintsUsed)
		assert.Equal(t, 0, o.Diamonds)
	}

	o := s.ShowHint()
	assert.Equal(t, game.OutcomeHintRefused, o.Kind)
	assert.Equal(t, game.NoticeWarning, o.Notice.Kind)
	assert.Equal(t, "You need 5 blue diamonds to get a hint.", o.Notice.Text)
	assert.Equal(t, 3, s.HintsUsed())
	assert.Equal(t, 0, s.Diamonds())

	for i := 0; i < 6; i++ {
		stroke(s, i, i+1)
	}
	require.Equal(t, game.OutcomeSolved, s.Submit().Kind)

	o = s.ShowHint()
	assert.Equal(t, game.OutcomeHintRevealed, o.Kind)
	assert.Equal(t, 15, s.Diamonds())
	assert.Equal(t, 4, s.HintsUsed())

	for i := 0; i < 3; i++ {
		s.ShowHint()
	}
	assert.Equal(t, 0, s.Diamonds())
	assert.Equal(t, 7, s.HintsUsed())
	assert.Equal(t, game.OutcomeHintRefused, s.ShowHint().Kind)
	assert.Equal(t, 7, s.HintsUsed())
}

func TestNextLevel_Wraps(t *testing.T) {
	s := newSession(t, 5)
	assert.Equal(t, "star + fish", s.View().Level.Equation)

	o := s.NextLevel()
	assert.Equal(t, game.OutcomeLevelLoaded, o.Kind)
	require.NotNil(t, o.Level)
	assert.Equal(t, 0, o.Level.Index)
	assert.Equal(t, "cat + fish", o.Level.Equation)
	assert.Len(t, o.Level.Dots, 7)
	assert.Equal(t, 0, s.LevelIndex())
}

// TestLoadLevel_ResetsBoardKeepsBalance checks what survives a level change.
func TestLoadLevel_ResetsBoardKeepsBalance(t *testing.T) {
	s := newSession(t, 0)
	for i := 0; i < 6; i++ {
		stroke(s, i, i+1)
	}
	s.Submit()
	s.ShowHint()
	s.PointerDown(s.View().Level.Dots[0])

	o := s.NextLevel()
	assert.Equal(t, 1, o.Level.Index)
	assert.Equal(t, "sun - s", o.Level.Equation)
	assert.Equal(t, catalog.Color("purple"), o.Level.Color)
	assert.False(t, o.NextEnabled)
	assert.Equal(t, 20, o.Diamonds)
	assert.Equal(t, 1, o.HintsUsed)
	assert.Empty(t, s.Lines())
	assert.False(t, s.Connected(0, 1))
	assert.Equal(t, game.Idle, s.GestureState())
	assert.Equal(t, game.OutcomeIncomplete, s.Submit().Kind)

	s.LoadLevel(-1)
	assert.Equal(t, 5, s.LevelIndex())
	assert.Equal(t, "starfish", s.Level().Answer)
}
