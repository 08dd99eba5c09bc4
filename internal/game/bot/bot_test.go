package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordclash/wordclash/internal/game/session"
)

func TestIsBotID(t *testing.T) {
	t.Parallel()

	assert.True(t, IsBotID("bot_00042"))
	assert.False(t, IsBotID("p1"))
	assert.False(t, IsBotID(""))
}

func TestNewOpponent(t *testing.T) {
	t.Parallel()

	p, err := NewOpponent(3, 5)
	require.NoError(t, err)

	assert.True(t, IsBotID(p.ID))
	assert.True(t, p.IsBot)
	assert.NotEmpty(t, p.Name)
	require.Len(t, p.Words, 3)
	for _, w := range p.Words {
		assert.Len(t, w, 5)
	}
}

func TestNewOpponent_UnsupportedLength(t *testing.T) {
	t.Parallel()

	_, err := NewOpponent(1, 40)
	assert.Error(t, err)
}

func TestChooseGuess_AvoidsTriedWords(t *testing.T) {
	t.Parallel()

	s := &session.GameSession{
		Players: []session.Participant{
			{ID: "p1", Words: []string{"apple"}, Attempts: make([][]session.Attempt, 1)},
			{ID: "bot_1", IsBot: true, Words: []string{"grape"}, Attempts: make([][]session.Attempt, 1)},
		},
		RoundCount:   1,
		WordLength:   5,
		MaxAttempts:  6,
		State:        session.StateInProgress,
		CurrentRound: 1,
	}

	first, ok := ChooseGuess(s, "bot_1")
	require.True(t, ok)
	assert.Len(t, first, 5)

	bot := s.Player("bot_1")
	bot.Attempts[0] = append(bot.Attempts[0], session.Attempt{Guess: first})

	for i := 0; i < 20; i++ {
		next, ok := ChooseGuess(s, "bot_1")
		require.True(t, ok)
		assert.NotEqual(t, strings.ToLower(first), strings.ToLower(next))
	}
}

func TestChooseGuess_UnknownPlayer(t *testing.T) {
	t.Parallel()

	s := &session.GameSession{
		Players: []session.Participant{
			{ID: "p1", Words: []string{"apple"}, Attempts: make([][]session.Attempt, 1)},
			{ID: "p2", Words: []string{"grape"}, Attempts: make([][]session.Attempt, 1)},
		},
		CurrentRound: 1,
		WordLength:   5,
	}

	_, ok := ChooseGuess(s, "bot_missing")
	assert.False(t, ok)
}
