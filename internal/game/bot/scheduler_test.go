package bot

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordclash/wordclash/internal/game/session"
	"github.com/wordclash/wordclash/internal/storage"
)

func newBotMatch(t *testing.T) (*session.Coordinator, *session.GameSession) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	coord := session.NewCoordinator(storage.NewSessionStore(client), nil, nil)

	opponent, err := NewOpponent(1, 5)
	require.NoError(t, err)

	s, err := coord.CreateSession(context.Background(),
		session.NewParticipant{ID: "p1", Name: "Alice", Words: []string{"apple"}},
		opponent,
		session.Settings{TurnTimeLimit: 120, MaxAttempts: 6})
	require.NoError(t, err)

	started, err := coord.CastReadyVote(context.Background(), s.ID, "p1")
	require.NoError(t, err)
	require.True(t, started)

	return coord, s
}

func TestScheduler_FiresBotMove(t *testing.T) {
	t.Parallel()

	coord, s := newBotMatch(t)
	ctx := context.Background()

	botID := s.Players[1].ID
	sc := NewScheduler(coord, time.Millisecond, 2*time.Millisecond)

	_, err := coord.SubmitGuess(ctx, s.ID, "p1", "zzzzz")
	require.NoError(t, err)

	sc.MaybeSchedule(s.ID, botID)

	assert.Eventually(t, func() bool {
		got, err := coord.Get(ctx, s.ID)
		if err != nil {
			return false
		}
		bot := got.Player(botID)
		return len(bot.Attempts[0]) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_FireRechecksTurn(t *testing.T) {
	t.Parallel()

	coord, s := newBotMatch(t)
	ctx := context.Background()

	botID := s.Players[1].ID
	sc := NewScheduler(coord, 10*time.Millisecond, 10*time.Millisecond)

	// It is still the human's turn; the fired timer must not move the bot.
	sc.MaybeSchedule(s.ID, botID)

	time.Sleep(50 * time.Millisecond)
	got, err := coord.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Player(botID).Attempts[0])
}

func TestScheduler_StopCancelsPendingMove(t *testing.T) {
	t.Parallel()

	coord, s := newBotMatch(t)
	ctx := context.Background()

	botID := s.Players[1].ID
	sc := NewScheduler(coord, 50*time.Millisecond, 50*time.Millisecond)

	_, err := coord.SubmitGuess(ctx, s.ID, "p1", "zzzzz")
	require.NoError(t, err)

	sc.MaybeSchedule(s.ID, botID)
	sc.Stop(s.ID)

	time.Sleep(100 * time.Millisecond)
	got, err := coord.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Player(botID).Attempts[0])
}

func TestScheduler_SkipsWhenPaused(t *testing.T) {
	t.Parallel()

	coord, s := newBotMatch(t)
	ctx := context.Background()

	botID := s.Players[1].ID
	sc := NewScheduler(coord, 20*time.Millisecond, 20*time.Millisecond)

	_, err := coord.SubmitGuess(ctx, s.ID, "p1", "zzzzz")
	require.NoError(t, err)

	sc.MaybeSchedule(s.ID, botID)
	require.NoError(t, coord.Pause(ctx, s.ID, "p1"))

	// The timer fires into a paused session and must not move.
	time.Sleep(60 * time.Millisecond)
	got, err := coord.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Player(botID).Attempts[0])
}
