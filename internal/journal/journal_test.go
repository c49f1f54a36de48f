package journal_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/dotword/internal/journal"
)

func openTemp(t *testing.T) (*journal.Journal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "journal.db")
	j, err := journal.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j, path
}

func TestJournal_RecordAndStats(t *testing.T) {
	ctx := context.Background()
	j, _ := openTemp(t)

	events := []journal.Event{
		{SessionID: "a", Kind: journal.KindHint, LevelIndex: 0, Answer: "catfish", HintsUsed: 1},
		{SessionID: "a", Kind: journal.KindSolved, LevelIndex: 0, Answer: "catfish", Diamonds: 20, HintsUsed: 1},
		{SessionID: "b", Kind: journal.KindSolved, LevelIndex: 0, Answer: "catfish", Diamonds: 20},
		{SessionID: "a", Kind: journal.KindHint, LevelIndex: 1, Answer: "un", Diamonds: 15, HintsUsed: 4, Cost: 5},
	}
	for _, e := range events {
		require.NoError(t, j.Record(ctx, e))
	}

	stats, err := j.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []journal.AnswerStats{
		{Answer: "catfish", Solves: 2, Hints: 1, DiamondsPaid: 0},
		{Answer: "un", Solves: 0, Hints: 1, DiamondsPaid: 5},
	}, stats)
}

func TestJournal_EmptyStats(t *testing.T) {
	j, _ := openTemp(t)
	stats, err := j.Stats(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stats)
}

// TestJournal_ReopenIsIdempotent re-runs migrations over an existing file.
func TestJournal_ReopenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	j, path := openTemp(t)
	require.NoError(t, j.Record(ctx, journal.Event{SessionID: "a", Kind: journal.KindSolved, Answer: "ain"}))
	require.NoError(t, j.Close())

	again, err := journal.Open(ctx, path)
	require.NoError(t, err)
	defer again.Close()

	stats, err := again.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].Solves)
}

func TestJournal_RejectsUnknownKind(t *testing.T) {
	j, _ := openTemp(t)
	err := j.Record(context.Background(), journal.Event{SessionID: "a", Kind: "bogus", Answer: "un"})
	assert.Error(t, err)
}

func TestDisabled(t *testing.T) {
	var d journal.Disabled
	assert.NoError(t, d.Record(context.Background(), journal.Event{}))
	_, err := d.Stats(context.Background())
	assert.ErrorIs(t, err, journal.ErrDisabled)
}
