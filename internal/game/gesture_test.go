package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/dotword/internal/catalog"
	"github.com/robalobadob/dotword/internal/game"
)

var pt = catalog.Pt

func TestHitTest(t *testing.T) {
	dots := []catalog.Point{pt(100, 150), pt(150, 100), pt(200, 120)}

	cases := []struct {
		name string
		p    catalog.Point
		want int
		ok   bool
	}{
		{"Center", pt(150, 100), 1, true},
		{"CornerInclusive", pt(115, 165), 0, true}, // beyond a 15 radius, inside the box
		{"EdgeX", pt(85, 150), 0, true},
		{"JustOutsideX", pt(116, 150), -1, false},
		{"JustOutsideY", pt(100, 134), -1, false},
		{"Nowhere", pt(0, 0), -1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			i, ok := game.HitTest(dots, tc.p, 15)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, i)
		})
	}
}

// TestHitTest_LowestIndexWins checks overlapping boxes resolve to catalog order.
func TestHitTest_LowestIndexWins(t *testing.T) {
	dots := []catalog.Point{pt(20, 0), pt(10, 0), pt(0, 0)}
	i, ok := game.HitTest(dots, pt(10, 0), 15)
	require.True(t, ok)
	assert.Equal(t, 0, i)
}

func TestGesture_Lifecycle(t *testing.T) {
	dots := []catalog.Point{pt(10, 10), pt(100, 10), pt(100, 100)}
	g := game.NewGesture(dots, 15)
	v := game.NewValidator(len(dots))

	t.Run("DownMiss", func(t *testing.T) {
		_, ok := g.Down(pt(50, 50))
		assert.False(t, ok)
		assert.Equal(t, game.Idle, g.State())
		assert.False(t, g.Move(pt(60, 60)))
		_, ok = g.Up(pt(100, 10), v)
		assert.False(t, ok)
	})

	t.Run("Kept", func(t *testing.T) {
		i, ok := g.Down(pt(12, 8))
		require.True(t, ok)
		assert.Equal(t, 0, i)
		assert.Equal(t, game.Drawing, g.State())

		require.True(t, g.Move(pt(70, 20)))
		anchor, cur, ok := g.Active()
		require.True(t, ok)
		assert.Equal(t, 0, anchor)
		assert.Equal(t, pt(70, 20), cur)

		r, ok := g.Up(pt(95, 5), v)
		require.True(t, ok)
		assert.Equal(t, game.Release{Kept: true, From: 0, To: 1}, r)
		assert.Equal(t, game.Idle, g.State())
		assert.True(t, v.Has(0, 1))
	})

	t.Run("Duplicate", func(t *testing.T) {
		g.Down(pt(100, 10))
		r, ok := g.Up(pt(10, 10), v)
		require.True(t, ok)
		assert.False(t, r.Kept)
		assert.Equal(t, game.DiscardDuplicate, r.Reason)
		assert.Equal(t, 1, v.Len())
	})

	t.Run("SelfLoop", func(t *testing.T) {
		g.Down(pt(100, 100))
		r, _ := g.Up(pt(104, 96), v)
		assert.Equal(t, game.DiscardSelfLoop, r.Reason)
		assert.Equal(t, game.Idle, g.State())
	})

	t.Run("NoDot", func(t *testing.T) {
		g.Down(pt(100, 100))
		r, _ := g.Up(pt(300, 300), v)
		assert.Equal(t, game.Release{Reason: game.DiscardNoDot, From: 2, To: -1}, r)
		assert.Equal(t, 1, v.Len())
	})

	t.Run("DownWhileDrawingRestarts", func(t *testing.T) {
		g.Down(pt(10, 10))
		i, ok := g.Down(pt(100, 100))
		require.True(t, ok)
		assert.Equal(t, 2, i)

		_, ok = g.Down(pt(250, 250))
		assert.False(t, ok)
		assert.Equal(t, game.Idle, g.State())
	})
}

func TestGesture_ResetCancelsStroke(t *testing.T) {
	g := game.NewGesture([]catalog.Point{pt(0, 0), pt(50, 0)}, 15)
	g.Down(pt(0, 0))
	g.Reset([]catalog.Point{pt(200, 200), pt(250, 200)})
	assert.Equal(t, game.Idle, g.State())

	_, ok := g.Down(pt(0, 0))
	assert.False(t, ok)
}
