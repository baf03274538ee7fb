package reactions_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"keepsake-backend/internal/reactions"
)

func TestBoard_ApplyAddsAndConfirms(t *testing.T) {
	c1 := uuid.New()
	board := reactions.NewBoard(map[uuid.UUID][]reactions.Count{
		c1: {{Emoji: "❤️", Count: 1}},
	})

	toggle := board.Apply(c1, "❤️")

	assert.True(t, toggle.Adding)
	assert.Equal(t, reactions.StatePending, toggle.State)
	assert.Equal(t, []reactions.Count{{Emoji: "❤️", Count: 2, Reacted: true}}, board.Counts(c1))

	require.NoError(t, board.Confirm(toggle))
	assert.Equal(t, reactions.StateConfirmed, toggle.State)
	assert.ErrorIs(t, board.Revert(toggle), reactions.ErrNotPending)
}

func TestBoard_ApplyRemovesLastReaction(t *testing.T) {
	c1 := uuid.New()
	board := reactions.NewBoard(map[uuid.UUID][]reactions.Count{
		c1: {{Emoji: "🎉", Count: 1, Reacted: true}, {Emoji: "👏", Count: 3}},
	})

	toggle := board.Apply(c1, "🎉")

	assert.False(t, toggle.Adding)
	assert.Equal(t, []reactions.Count{{Emoji: "👏", Count: 3}}, board.Counts(c1))
}

func TestBoard_RevertRestoresPreviousCounts(t *testing.T) {
	c1 := uuid.New()
	initial := []reactions.Count{{Emoji: "😂", Count: 2, Reacted: true}}
	board := reactions.NewBoard(map[uuid.UUID][]reactions.Count{c1: initial})

	toggle := board.Apply(c1, "😂")
	assert.Equal(t, []reactions.Count{{Emoji: "😂", Count: 1}}, board.Counts(c1))

	require.NoError(t, board.Revert(toggle))
	assert.Equal(t, reactions.StateReverted, toggle.State)
	assert.Equal(t, initial, board.Counts(c1))
	assert.ErrorIs(t, board.Confirm(toggle), reactions.ErrNotPending)
}

func TestBoard_NewEmoji(t *testing.T) {
	c1 := uuid.New()
	board := reactions.NewBoard(nil)

	board.Apply(c1, "🙌")

	assert.Equal(t, []reactions.Count{{Emoji: "🙌", Count: 1, Reacted: true}}, board.Counts(c1))
}
