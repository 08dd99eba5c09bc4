package bot

import (
	"context"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/wordclash/wordclash/internal/game/session"
)

// Scheduler fires bot moves after a randomized delay. At most one timer is
// pending per session; when a timer fires it re-checks the session state,
// so a pause that landed after scheduling makes the move a no-op.
type Scheduler struct {
	coord    *session.Coordinator
	minDelay time.Duration
	maxDelay time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer // session id -> timer
}

// NewScheduler creates a scheduler with the given delay bounds.
func NewScheduler(coord *session.Coordinator, minDelay, maxDelay time.Duration) *Scheduler {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Scheduler{
		coord:    coord,
		minDelay: minDelay,
		maxDelay: maxDelay,
		pending:  make(map[string]*time.Timer),
	}
}

// MaybeSchedule arms a bot move for the session unless one is already
// pending. Callers invoke it when a state change leaves an in-progress
// session on a bot's turn; it deliberately does not read the session, so
// it is safe to call from inside a mutation's notifier. The fired timer
// re-checks state and turn before moving.
func (sc *Scheduler) MaybeSchedule(sessionID, botID string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if _, armed := sc.pending[sessionID]; armed {
		return
	}
	sc.pending[sessionID] = time.AfterFunc(sc.randomDelay(), func() {
		sc.fire(sessionID, botID)
	})
}

// Stop cancels any pending timer for the session.
func (sc *Scheduler) Stop(sessionID string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if t, ok := sc.pending[sessionID]; ok {
		t.Stop()
		delete(sc.pending, sessionID)
	}
}

func (sc *Scheduler) fire(sessionID, botID string) {
	sc.mu.Lock()
	delete(sc.pending, sessionID)
	sc.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The session may have been paused or finished since scheduling.
	s, err := sc.coord.Get(ctx, sessionID)
	if err != nil || s.State != session.StateInProgress || s.CurrentPlayer().ID != botID {
		return
	}

	guess, ok := ChooseGuess(s, botID)
	if !ok {
		log.Printf("[ERROR] bot %s has no guess for session %s", botID, sessionID)
		return
	}

	if _, err := sc.coord.SubmitGuess(ctx, sessionID, botID, guess); err != nil {
		// Lost a race with a pause or the human's move; nothing to do.
		log.Printf("bot %s guess skipped in session %s: %v", botID, sessionID, err)
	}
}

func (sc *Scheduler) randomDelay() time.Duration {
	spread := sc.maxDelay - sc.minDelay
	if spread <= 0 {
		return sc.minDelay
	}
	return sc.minDelay + rand.N(spread)
}
