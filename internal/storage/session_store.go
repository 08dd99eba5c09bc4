package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wordclash/wordclash/internal/apperrors"
	"github.com/wordclash/wordclash/internal/game/session"
)

const (
	sessionKeyPrefix = "game:session:"

	// Sessions are write-through cached in memory; the redis copy lets a
	// restarted process pick matches back up.
	sessionExpiration = 2 * time.Hour
)

// SessionStore keeps live sessions in memory with redis write-through and
// serializes all mutations per session id.
type SessionStore struct {
	client *redis.Client

	mu       sync.RWMutex
	sessions map[string]*session.GameSession
	locks    map[string]*sync.Mutex
}

// NewSessionStore creates a session store.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{
		client:   client,
		sessions: make(map[string]*session.GameSession),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Create registers a new session and persists it. The store keeps its own
// copy; the caller's pointer stays detached.
func (ss *SessionStore) Create(ctx context.Context, s *session.GameSession) error {
	ss.mu.Lock()
	if _, exists := ss.sessions[s.ID]; exists {
		ss.mu.Unlock()
		return fmt.Errorf("session %s already exists", s.ID)
	}
	ss.sessions[s.ID] = s.Clone()
	ss.mu.Unlock()

	return ss.save(ctx, s)
}

// Get returns a detached copy of a session, loading from redis when not
// cached. Returns nil when the session does not exist. The copy is taken
// under the session's mutation lock, so readers never alias state a
// concurrent Mutate is writing.
func (ss *SessionStore) Get(ctx context.Context, id string) (*session.GameSession, error) {
	lock := ss.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	s, err := ss.getLive(ctx, id)
	if err != nil || s == nil {
		return nil, err
	}
	return s.Clone(), nil
}

// getLive returns the cached live session. Callers must hold the per-id
// lock before touching the result.
func (ss *SessionStore) getLive(ctx context.Context, id string) (*session.GameSession, error) {
	ss.mu.RLock()
	s, ok := ss.sessions[id]
	ss.mu.RUnlock()
	if ok {
		return s, nil
	}

	s, err := ss.load(ctx, id)
	if err != nil || s == nil {
		return nil, err
	}

	ss.mu.Lock()
	if cached, ok := ss.sessions[id]; ok {
		s = cached
	} else {
		ss.sessions[id] = s
	}
	ss.mu.Unlock()
	return s, nil
}

// Mutate runs fn on the session under its per-id lock, then persists the
// result. Concurrent callers on the same id never interleave; distinct
// sessions proceed independently.
func (ss *SessionStore) Mutate(ctx context.Context, id string, fn func(*session.GameSession) error) error {
	lock := ss.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	s, err := ss.getLive(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return apperrors.ErrSessionNotFound
	}

	if err := fn(s); err != nil {
		return err
	}
	return ss.save(ctx, s)
}

func (ss *SessionStore) sessionLock(id string) *sync.Mutex {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	lock, ok := ss.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		ss.locks[id] = lock
	}
	return lock
}

func (ss *SessionStore) save(ctx context.Context, s *session.GameSession) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	if err := ss.client.Set(ctx, sessionKeyPrefix+s.ID, raw, sessionExpiration).Err(); err != nil {
		// In-memory state stays authoritative; losing a write-through copy
		// only hurts restart recovery.
		log.Printf("[ERROR] persist session %s: %v", s.ID, err)
	}
	return nil
}

func (ss *SessionStore) load(ctx context.Context, id string) (*session.GameSession, error) {
	raw, err := ss.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var s session.GameSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}
