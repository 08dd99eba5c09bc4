package session

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/wordclash/wordclash/internal/apperrors"
	"github.com/wordclash/wordclash/internal/protocol"
)

// Store persists game sessions. Get returns a detached copy. Mutate must
// serialize callers per session id: fn runs under a per-id lock, and the
// coordinator relies on this to keep vote counting and state transitions
// race-free.
type Store interface {
	Create(ctx context.Context, s *GameSession) error
	Get(ctx context.Context, id string) (*GameSession, error)
	Mutate(ctx context.Context, id string, fn func(*GameSession) error) error
}

// Notifier receives a snapshot after every successful session mutation.
// Calls are made in mutation order for a given session.
type Notifier interface {
	SessionChanged(snap *protocol.SessionSnapshot)
}

// NopNotifier discards snapshots.
type NopNotifier struct{}

func (NopNotifier) SessionChanged(*protocol.SessionSnapshot) {}

// Evaluator decides whether a guess wins the round against the target word.
// Scoring internals live behind this boundary.
type Evaluator func(guess, target string) bool

// NewParticipant describes a player joining a new session.
type NewParticipant struct {
	ID    string
	Name  string
	IsBot bool
	Words []string
}

// Settings are the immutable match parameters copied into a session.
type Settings struct {
	TurnTimeLimit int // seconds
	MaxAttempts   int
}

// RoundOutcome is the result of a single guess.
type RoundOutcome struct {
	Correct       bool `json:"correct"`
	RoundComplete bool `json:"round_complete"`
	GameOver      bool `json:"game_over"`
}

// Coordinator owns the session state machine and the unanimous-vote
// start/resume protocol.
type Coordinator struct {
	store    Store
	notifier Notifier
	evaluate Evaluator
}

// NewCoordinator creates a coordinator. A nil evaluator defaults to the
// exact-match check.
func NewCoordinator(store Store, notifier Notifier, evaluate Evaluator) *Coordinator {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if evaluate == nil {
		evaluate = DefaultEvaluator
	}
	return &Coordinator{store: store, notifier: notifier, evaluate: evaluate}
}

// CreateSession creates a waiting session for two participants. Word counts
// and lengths must already agree between the two sides. Bot participants
// cast their ready vote immediately, so a bot-paired session starts as soon
// as the human votes.
func (c *Coordinator) CreateSession(ctx context.Context, p1, p2 NewParticipant, settings Settings) (*GameSession, error) {
	if len(p1.Words) == 0 || len(p1.Words) != len(p2.Words) {
		return nil, apperrors.Validationf("both players must provide the same number of words")
	}
	wordLength := len(p1.Words[0])
	for _, w := range append(append([]string{}, p1.Words...), p2.Words...) {
		if len(w) != wordLength {
			return nil, apperrors.Validationf("all words must be %d letters long", wordLength)
		}
	}

	rounds := len(p1.Words)
	players := []Participant{
		{ID: p1.ID, Name: p1.Name, IsBot: p1.IsBot, Words: p1.Words, Attempts: make([][]Attempt, rounds)},
		{ID: p2.ID, Name: p2.Name, IsBot: p2.IsBot, Words: p2.Words, Attempts: make([][]Attempt, rounds)},
	}

	// Humans move first against a bot; otherwise the opener is random.
	firstTurn := rand.IntN(2)
	if p1.IsBot {
		firstTurn = 1
	} else if p2.IsBot {
		firstTurn = 0
	}

	s := &GameSession{
		ID:            uuid.NewString(),
		Players:       players,
		TurnTimeLimit: settings.TurnTimeLimit,
		RoundCount:    rounds,
		WordLength:    wordLength,
		MaxAttempts:   settings.MaxAttempts,
		State:         StateWaiting,
		ReadyVotes:    VoteSet{},
		ResumeVotes:   VoteSet{},
		CurrentRound:  1,
		CurrentTurn:   firstTurn,
		CreatedAt:     time.Now(),
	}

	for i := range s.Players {
		if s.Players[i].IsBot {
			s.ReadyVotes.Add(s.Players[i].ID)
		}
	}

	if err := c.store.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s, nil
}

// Get returns a detached copy of a session by id.
func (c *Coordinator) Get(ctx context.Context, sessionID string) (*GameSession, error) {
	s, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperrors.ErrSessionNotFound
	}
	return s, nil
}

// CastReadyVote records a start vote. Returns true iff this vote moved the
// session from waiting to in progress. Re-voting is a no-op, not an error.
func (c *Coordinator) CastReadyVote(ctx context.Context, sessionID, participantID string) (bool, error) {
	started := false
	err := c.store.Mutate(ctx, sessionID, func(s *GameSession) error {
		if !s.IsMember(participantID) {
			return apperrors.ErrNotAMember
		}
		if s.State != StateWaiting {
			return apperrors.ErrNotWaiting
		}
		// A repeat vote changes nothing, so nothing is broadcast.
		if !s.ReadyVotes.Add(participantID) {
			return nil
		}
		if s.ReadyVotes.Count() == len(s.Players) {
			s.State = StateInProgress
			s.ReadyVotes = VoteSet{}
			started = true
		}
		c.notifier.SessionChanged(Snapshot(s))
		return nil
	})
	return started, err
}

// Pause moves an in-progress session to paused. Any single participant may
// pause; pending resume votes are cleared on entry. Bot members affirm
// resumption immediately, the same way they cast their ready vote, so a
// human-versus-bot pause only waits on the human.
func (c *Coordinator) Pause(ctx context.Context, sessionID, participantID string) error {
	return c.store.Mutate(ctx, sessionID, func(s *GameSession) error {
		if !s.IsMember(participantID) {
			return apperrors.ErrNotAMember
		}
		switch s.State {
		case StateInProgress:
		case StatePaused:
			return apperrors.ErrAlreadyPaused
		case StateGameOver:
			return apperrors.ErrGameOver
		default:
			return apperrors.ErrNotInProgress
		}
		s.State = StatePaused
		s.ResumeVotes = VoteSet{}
		for i := range s.Players {
			if s.Players[i].IsBot {
				s.ResumeVotes.Add(s.Players[i].ID)
			}
		}
		c.notifier.SessionChanged(Snapshot(s))
		return nil
	})
}

// CastResumeVote records a resume vote. Returns true iff this vote moved the
// session from paused back to in progress.
func (c *Coordinator) CastResumeVote(ctx context.Context, sessionID, participantID string) (bool, error) {
	resumed := false
	err := c.store.Mutate(ctx, sessionID, func(s *GameSession) error {
		if !s.IsMember(participantID) {
			return apperrors.ErrNotAMember
		}
		if s.State != StatePaused {
			return apperrors.ErrNotPaused
		}
		if !s.ResumeVotes.Add(participantID) {
			return nil
		}
		if s.ResumeVotes.Count() == len(s.Players) {
			s.State = StateInProgress
			s.ResumeVotes = VoteSet{}
			resumed = true
		}
		c.notifier.SessionChanged(Snapshot(s))
		return nil
	})
	return resumed, err
}

// SubmitGuess processes one guess from the participant whose turn it is.
// A correct guess wins the round; when both players exhaust their attempts
// the round completes with no winner. Completing the final round ends the
// game.
func (c *Coordinator) SubmitGuess(ctx context.Context, sessionID, participantID, guess string) (RoundOutcome, error) {
	var outcome RoundOutcome
	err := c.store.Mutate(ctx, sessionID, func(s *GameSession) error {
		if !s.IsMember(participantID) {
			return apperrors.ErrNotAMember
		}
		if s.State != StateInProgress {
			if s.State == StateGameOver {
				return apperrors.ErrGameOver
			}
			return apperrors.ErrNotInProgress
		}
		player := s.CurrentPlayer()
		if player.ID != participantID {
			return apperrors.ErrNotYourTurn
		}
		if len(guess) != s.WordLength {
			return apperrors.Validationf("guess must be %d letters long", s.WordLength)
		}
		if len(s.RoundAttempts(player)) >= s.MaxAttempts {
			return apperrors.Validationf("no attempts left this round")
		}

		correct := c.evaluate(guess, s.TargetWord(participantID))
		player.Attempts[s.CurrentRound-1] = append(player.Attempts[s.CurrentRound-1], Attempt{
			Guess:   guess,
			Correct: correct,
			At:      time.Now(),
		})

		outcome.Correct = correct
		if correct {
			player.Score++
			outcome.RoundComplete = true
		} else if s.roundExhausted() {
			outcome.RoundComplete = true
		}

		if outcome.RoundComplete {
			if s.IsLastRound() {
				s.State = StateGameOver
				s.Outcome = &Outcome{
					WinnerID:    s.leader(),
					Reason:      "rounds_complete",
					CompletedAt: time.Now(),
				}
				outcome.GameOver = true
			} else {
				s.CurrentRound++
			}
		}
		s.nextTurn()

		c.notifier.SessionChanged(Snapshot(s))
		return nil
	})
	return outcome, err
}
