package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func testLobby(code string) *LobbyRecord {
	return &LobbyRecord{
		Code:          code,
		HostID:        "p1",
		HostDeviceID:  "dev-1",
		HostWords:     []string{"apple", "grape", "lemon"},
		TurnTimeLimit: 120,
		WordLength:    5,
		Rounds:        3,
		CreatedAt:     time.Now().Unix(),
	}
}

func TestLobbyStore_CreateAndGet(t *testing.T) {
	t.Parallel()

	ls := NewLobbyStore(newTestClient(t))
	ctx := context.Background()

	created, err := ls.CreateIfAbsent(ctx, testLobby("AB12"))
	require.NoError(t, err)
	assert.True(t, created)

	rec, err := ls.GetByCode(ctx, "AB12")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "p1", rec.HostID)
	assert.Equal(t, []string{"apple", "grape", "lemon"}, rec.HostWords)
	assert.False(t, rec.HasGuest())
	assert.False(t, rec.IsReady())

	missing, err := ls.GetByCode(ctx, "ZZZZ")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLobbyStore_CreateIfAbsentLosesRace(t *testing.T) {
	t.Parallel()

	ls := NewLobbyStore(newTestClient(t))
	ctx := context.Background()

	created, err := ls.CreateIfAbsent(ctx, testLobby("AB12"))
	require.NoError(t, err)
	assert.True(t, created)

	loser := testLobby("AB12")
	loser.HostID = "p2"
	created, err = ls.CreateIfAbsent(ctx, loser)
	require.NoError(t, err)
	assert.False(t, created)

	// The winner's row is untouched.
	rec, err := ls.GetByCode(ctx, "AB12")
	require.NoError(t, err)
	assert.Equal(t, "p1", rec.HostID)
}

func TestLobbyStore_SetGuestConditional(t *testing.T) {
	t.Parallel()

	ls := NewLobbyStore(newTestClient(t))
	ctx := context.Background()

	_, err := ls.CreateIfAbsent(ctx, testLobby("AB12"))
	require.NoError(t, err)

	won, err := ls.SetGuest(ctx, "AB12", "p2", "dev-2", []string{"hello", "world", "games"})
	require.NoError(t, err)
	assert.True(t, won)

	// Second attempt must lose: the slot is taken.
	won, err = ls.SetGuest(ctx, "AB12", "p3", "dev-3", []string{"zebra", "piano", "ocean"})
	require.NoError(t, err)
	assert.False(t, won)

	rec, err := ls.GetByCode(ctx, "AB12")
	require.NoError(t, err)
	assert.Equal(t, "p2", rec.GuestID)
	assert.Equal(t, []string{"hello", "world", "games"}, rec.GuestWords)
}

func TestLobbyStore_SetGuestConcurrent(t *testing.T) {
	t.Parallel()

	ls := NewLobbyStore(newTestClient(t))
	ctx := context.Background()

	_, err := ls.CreateIfAbsent(ctx, testLobby("AB12"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	wins := make([]bool, 10)
	for i := range wins {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			won, err := ls.SetGuest(ctx, "AB12", "guest", "dev", []string{"hello", "world", "games"})
			assert.NoError(t, err)
			wins[i] = won
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, won := range wins {
		if won {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestLobbyStore_SetSessionIDIdempotent(t *testing.T) {
	t.Parallel()

	ls := NewLobbyStore(newTestClient(t))
	ctx := context.Background()

	_, err := ls.CreateIfAbsent(ctx, testLobby("AB12"))
	require.NoError(t, err)

	stored, err := ls.SetSessionID(ctx, "AB12", "session-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", stored)

	// A losing retry gets the winner's id back.
	stored, err = ls.SetSessionID(ctx, "AB12", "session-2")
	require.NoError(t, err)
	assert.Equal(t, "session-1", stored)

	rec, err := ls.GetByCode(ctx, "AB12")
	require.NoError(t, err)
	assert.Equal(t, "session-1", rec.SessionID)
	assert.True(t, rec.IsReady())
}

func TestLobbyStore_ListOrderedByCreatedAt(t *testing.T) {
	t.Parallel()

	ls := NewLobbyStore(newTestClient(t))
	ctx := context.Background()

	base := time.Now().Unix()
	for i, code := range []string{"CCCC", "AAAA", "BBBB"} {
		rec := testLobby(code)
		rec.CreatedAt = base - int64(100-i*10) // CCCC oldest
		_, err := ls.CreateIfAbsent(ctx, rec)
		require.NoError(t, err)
	}

	lobbies, err := ls.ListOrderedByCreatedAt(ctx, 10)
	require.NoError(t, err)
	require.Len(t, lobbies, 3)
	assert.Equal(t, "CCCC", lobbies[0].Code)
	assert.Equal(t, "AAAA", lobbies[1].Code)
	assert.Equal(t, "BBBB", lobbies[2].Code)

	limited, err := ls.ListOrderedByCreatedAt(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestLobbyStore_Delete(t *testing.T) {
	t.Parallel()

	ls := NewLobbyStore(newTestClient(t))
	ctx := context.Background()

	_, err := ls.CreateIfAbsent(ctx, testLobby("AB12"))
	require.NoError(t, err)

	require.NoError(t, ls.DeleteByCode(ctx, "AB12"))

	rec, err := ls.GetByCode(ctx, "AB12")
	require.NoError(t, err)
	assert.Nil(t, rec)

	lobbies, err := ls.ListOrderedByCreatedAt(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, lobbies)
}
