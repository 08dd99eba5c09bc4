package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	lobbyKeyPrefix   = "lobby:"
	lobbyCreatedZSet = "lobbies:by_created_at"
)

// LobbyRecord is the durable matchmaking row, keyed by a 4-character code.
type LobbyRecord struct {
	Code          string   `json:"code"`
	HostID        string   `json:"host_id"`
	HostDeviceID  string   `json:"host_device_id"`
	HostWords     []string `json:"host_words"`
	GuestID       string   `json:"guest_id,omitempty"`
	GuestDeviceID string   `json:"guest_device_id,omitempty"`
	GuestWords    []string `json:"guest_words,omitempty"`
	TurnTimeLimit int      `json:"turn_time_limit"` // seconds
	WordLength    int      `json:"word_length"`
	Rounds        int      `json:"rounds"`
	SessionID     string   `json:"session_id,omitempty"`
	CreatedAt     int64    `json:"created_at"` // unix seconds
}

// HasGuest reports whether the second slot is filled.
func (l *LobbyRecord) HasGuest() bool {
	return l.GuestID != ""
}

// IsReady reports whether a game session has been created for this lobby.
func (l *LobbyRecord) IsReady() bool {
	return l.SessionID != ""
}

// setGuestScript fills the guest slot only while it is still empty, closing
// the race between two simultaneous guest joins.
// Returns 1 on success, 0 if the slot was already taken, -1 if the lobby is gone.
var setGuestScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then return -1 end
local lobby = cjson.decode(raw)
if lobby.guest_id and lobby.guest_id ~= '' then return 0 end
lobby.guest_id = ARGV[1]
lobby.guest_device_id = ARGV[2]
lobby.guest_words = cjson.decode(ARGV[3])
redis.call('SET', KEYS[1], cjson.encode(lobby))
return 1
`)

// setSessionScript stores the session id only while it is still unset.
// Returns the id that ended up stored, so a retry that lost the race gets
// the winner's id back instead of creating a duplicate session.
var setSessionScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then return redis.error_reply('lobby gone') end
local lobby = cjson.decode(raw)
if lobby.session_id and lobby.session_id ~= '' then return lobby.session_id end
lobby.session_id = ARGV[1]
redis.call('SET', KEYS[1], cjson.encode(lobby))
return ARGV[1]
`)

// LobbyStore persists lobbies in redis, with a created-at index for the
// reclamation sweep. The guest and session writes are conditional scripts
// rather than read-then-write pairs.
type LobbyStore struct {
	client *redis.Client
}

// NewLobbyStore creates a lobby store.
func NewLobbyStore(client *redis.Client) *LobbyStore {
	return &LobbyStore{client: client}
}

// GetByCode loads a lobby, returning nil when absent.
func (ls *LobbyStore) GetByCode(ctx context.Context, code string) (*LobbyRecord, error) {
	raw, err := ls.client.Get(ctx, lobbyKeyPrefix+code).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var rec LobbyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode lobby %s: %w", code, err)
	}
	return &rec, nil
}

// CreateIfAbsent stores a new lobby unless the code is already taken.
// Returns false when another creation won the race.
func (ls *LobbyStore) CreateIfAbsent(ctx context.Context, rec *LobbyRecord) (bool, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("encode lobby %s: %w", rec.Code, err)
	}

	ok, err := ls.client.SetNX(ctx, lobbyKeyPrefix+rec.Code, raw, 0).Result()
	if err != nil || !ok {
		return false, err
	}

	err = ls.client.ZAdd(ctx, lobbyCreatedZSet, redis.Z{
		Score:  float64(rec.CreatedAt),
		Member: rec.Code,
	}).Err()
	return true, err
}

// SetGuest conditionally fills the guest slot. Returns false when the slot
// was already taken by a concurrent join.
func (ls *LobbyStore) SetGuest(ctx context.Context, code, guestID, guestDeviceID string, words []string) (bool, error) {
	wordsJSON, err := json.Marshal(words)
	if err != nil {
		return false, fmt.Errorf("encode guest words: %w", err)
	}

	res, err := setGuestScript.Run(ctx, ls.client,
		[]string{lobbyKeyPrefix + code},
		guestID, guestDeviceID, string(wordsJSON),
	).Int()
	if err != nil {
		return false, err
	}
	if res == -1 {
		return false, fmt.Errorf("lobby %s vanished during join", code)
	}
	return res == 1, nil
}

// SetSessionID conditionally stores the session id, returning whichever id
// is durably associated with the lobby afterwards.
func (ls *LobbyStore) SetSessionID(ctx context.Context, code, sessionID string) (string, error) {
	stored, err := setSessionScript.Run(ctx, ls.client,
		[]string{lobbyKeyPrefix + code},
		sessionID,
	).Text()
	if err != nil {
		return "", err
	}
	return stored, nil
}

// DeleteByCode removes a lobby and its index entry.
func (ls *LobbyStore) DeleteByCode(ctx context.Context, code string) error {
	if err := ls.client.Del(ctx, lobbyKeyPrefix+code).Err(); err != nil {
		return err
	}
	return ls.client.ZRem(ctx, lobbyCreatedZSet, code).Err()
}

// ListOrderedByCreatedAt returns up to limit lobbies, oldest first.
func (ls *LobbyStore) ListOrderedByCreatedAt(ctx context.Context, limit int) ([]*LobbyRecord, error) {
	codes, err := ls.client.ZRange(ctx, lobbyCreatedZSet, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	lobbies := make([]*LobbyRecord, 0, len(codes))
	for _, code := range codes {
		rec, err := ls.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			// Stray index entry; drop it and move on.
			_ = ls.client.ZRem(ctx, lobbyCreatedZSet, code).Err()
			continue
		}
		lobbies = append(lobbies, rec)
	}
	return lobbies, nil
}
