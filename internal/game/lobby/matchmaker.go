// Package lobby implements code-based matchmaking: the first join to an
// unused code creates the lobby, the second fills it and spawns the game
// session. A background sweeper reclaims abandoned lobbies.
package lobby

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/wordclash/wordclash/internal/apperrors"
	"github.com/wordclash/wordclash/internal/game/session"
	"github.com/wordclash/wordclash/internal/storage"
)

// CodeLength is the fixed lobby code length.
const CodeLength = 4

// UserLookup resolves player identities when a match completes.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*storage.User, error)
}

// JoinParams is one player's join/create request.
type JoinParams struct {
	Code          string
	PlayerID      string
	DeviceID      string
	Words         []string
	TurnTimeLimit int // seconds; 0 means the configured default (host only)
}

// JoinResult reports how the join resolved.
type JoinResult struct {
	SessionID string // empty while waiting for the second player
	Lobby     *storage.LobbyRecord
	IsHost    bool
	IsReady   bool
}

// Matchmaker turns two independent joins on the same code into one lobby.
type Matchmaker struct {
	lobbies *storage.LobbyStore
	users   UserLookup
	coord   *session.Coordinator

	defaultTurnTime int
	maxAttempts     int
	now             func() time.Time
}

// NewMatchmaker creates a matchmaker.
func NewMatchmaker(lobbies *storage.LobbyStore, users UserLookup, coord *session.Coordinator, defaultTurnTime, maxAttempts int) *Matchmaker {
	return &Matchmaker{
		lobbies:         lobbies,
		users:           users,
		coord:           coord,
		defaultTurnTime: defaultTurnTime,
		maxAttempts:     maxAttempts,
		now:             time.Now,
	}
}

// Join creates the lobby when the code is unused, otherwise joins as guest.
// Losing the creation race falls through to the guest path; repeating a join
// already made is idempotent.
func (m *Matchmaker) Join(ctx context.Context, p JoinParams) (*JoinResult, error) {
	if len(p.Code) != CodeLength {
		return nil, apperrors.Validationf("lobby code must be %d characters", CodeLength)
	}
	wordLength, err := validateWords(p.Words)
	if err != nil {
		return nil, err
	}

	lob, err := m.lobbies.GetByCode(ctx, p.Code)
	if err != nil {
		return nil, err
	}

	if lob == nil {
		turnTime := p.TurnTimeLimit
		if turnTime <= 0 {
			turnTime = m.defaultTurnTime
		}
		rec := &storage.LobbyRecord{
			Code:          p.Code,
			HostID:        p.PlayerID,
			HostDeviceID:  p.DeviceID,
			HostWords:     p.Words,
			TurnTimeLimit: turnTime,
			WordLength:    wordLength,
			Rounds:        len(p.Words),
			CreatedAt:     m.now().Unix(),
		}

		created, err := m.lobbies.CreateIfAbsent(ctx, rec)
		if err != nil {
			return nil, err
		}
		if created {
			log.Printf("lobby %s created by %s (%d rounds, %d letters)", p.Code, p.PlayerID, rec.Rounds, rec.WordLength)
			return &JoinResult{Lobby: rec, IsHost: true}, nil
		}

		// Lost the creation race; re-read and continue as a join.
		lob, err = m.lobbies.GetByCode(ctx, p.Code)
		if err != nil {
			return nil, err
		}
		if lob == nil {
			return nil, fmt.Errorf("lobby %s vanished during create race", p.Code)
		}
	}

	if lob.HostID == p.PlayerID {
		// Idempotent host retry.
		return &JoinResult{SessionID: lob.SessionID, Lobby: lob, IsHost: true, IsReady: lob.IsReady()}, nil
	}

	if !lob.HasGuest() {
		return m.joinAsGuest(ctx, lob, p)
	}

	if lob.GuestID == p.PlayerID {
		// Idempotent guest retry; finish session creation if an earlier
		// attempt died between the guest write and the session write.
		if !lob.IsReady() {
			return m.completeMatch(ctx, lob, p.PlayerID)
		}
		return &JoinResult{SessionID: lob.SessionID, Lobby: lob, IsHost: false, IsReady: true}, nil
	}

	return nil, apperrors.ErrLobbyFull
}

func (m *Matchmaker) joinAsGuest(ctx context.Context, lob *storage.LobbyRecord, p JoinParams) (*JoinResult, error) {
	if len(p.Words) != lob.Rounds {
		return nil, apperrors.Validationf("you must provide %d words to match the lobby", lob.Rounds)
	}
	for _, w := range p.Words {
		if len(w) != lob.WordLength {
			return nil, apperrors.Validationf("words must be %d letters long to match the lobby", lob.WordLength)
		}
	}

	won, err := m.lobbies.SetGuest(ctx, lob.Code, p.PlayerID, p.DeviceID, p.Words)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, apperrors.ErrLobbyFull
	}

	lob, err = m.lobbies.GetByCode(ctx, lob.Code)
	if err != nil {
		return nil, err
	}
	if lob == nil {
		return nil, fmt.Errorf("lobby %s vanished during join", p.Code)
	}

	log.Printf("lobby %s filled by %s", lob.Code, p.PlayerID)
	return m.completeMatch(ctx, lob, p.PlayerID)
}

// completeMatch creates the game session and stores its id on the lobby,
// conditioned on the id still being unset.
func (m *Matchmaker) completeMatch(ctx context.Context, lob *storage.LobbyRecord, callerID string) (*JoinResult, error) {
	host, err := m.lookupUser(ctx, lob.HostID)
	if err != nil {
		return nil, err
	}
	guest, err := m.lookupUser(ctx, lob.GuestID)
	if err != nil {
		return nil, err
	}

	created, err := m.coord.CreateSession(ctx,
		session.NewParticipant{ID: host.ID, Name: host.DisplayName, Words: lob.HostWords},
		session.NewParticipant{ID: guest.ID, Name: guest.DisplayName, Words: lob.GuestWords},
		session.Settings{TurnTimeLimit: lob.TurnTimeLimit, MaxAttempts: m.maxAttempts},
	)
	if err != nil {
		return nil, err
	}

	stored, err := m.lobbies.SetSessionID(ctx, lob.Code, created.ID)
	if err != nil {
		return nil, err
	}
	if stored != created.ID {
		// A concurrent retry already bound a session; use that one.
		log.Printf("lobby %s already bound to session %s, discarding %s", lob.Code, stored, created.ID)
	}

	lob.SessionID = stored
	log.Printf("session %s created for lobby %s", stored, lob.Code)
	return &JoinResult{
		SessionID: stored,
		Lobby:     lob,
		IsHost:    callerID == lob.HostID,
		IsReady:   true,
	}, nil
}

func (m *Matchmaker) lookupUser(ctx context.Context, id string) (*storage.User, error) {
	u, err := m.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

// Get returns a lobby by code.
func (m *Matchmaker) Get(ctx context.Context, code string) (*storage.LobbyRecord, error) {
	lob, err := m.lobbies.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if lob == nil {
		return nil, apperrors.ErrLobbyNotFound
	}
	return lob, nil
}

// Delete removes a lobby. Only the host may delete, and only while the
// guest slot is still empty.
func (m *Matchmaker) Delete(ctx context.Context, code, playerID string) error {
	lob, err := m.Get(ctx, code)
	if err != nil {
		return err
	}
	if lob.HostID != playerID {
		return apperrors.ErrNotHost
	}
	if lob.HasGuest() {
		return apperrors.ErrLobbyActive
	}

	if err := m.lobbies.DeleteByCode(ctx, code); err != nil {
		return err
	}
	log.Printf("lobby %s deleted by host %s", code, playerID)
	return nil
}

func validateWords(words []string) (int, error) {
	if len(words) == 0 {
		return 0, apperrors.Validationf("words list cannot be empty")
	}
	wordLength := len(words[0])
	for _, w := range words {
		if len(w) != wordLength {
			return 0, apperrors.Validationf("all words must be the same length")
		}
	}
	return wordLength, nil
}
