package session

import (
	"strings"
	"time"
)

// State is the game session lifecycle state.
type State string

const (
	StateWaiting    State = "waiting"     // created, both ready votes pending
	StateInProgress State = "in_progress" // gameplay active
	StatePaused     State = "paused"      // paused, resume votes pending
	StateGameOver   State = "game_over"   // terminal
)

// Attempt is one recorded guess.
type Attempt struct {
	Guess   string    `json:"guess"`
	Correct bool      `json:"correct"`
	At      time.Time `json:"at"`
}

// Participant is one of the two players, human or bot. Words holds the
// participant's own secret words, one per round; a guess is always checked
// against the opponent's word for the current round.
type Participant struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	IsBot    bool        `json:"is_bot"`
	Words    []string    `json:"words"`
	Attempts [][]Attempt `json:"attempts"` // indexed by round-1
	Score    int         `json:"score"`
}

// Outcome describes a finished game.
type Outcome struct {
	WinnerID    string    `json:"winner_id,omitempty"` // empty on a draw
	Reason      string    `json:"reason"`
	CompletedAt time.Time `json:"completed_at"`
}

// GameSession is the live match record. All mutation goes through the
// Coordinator under the store's per-session serialization.
type GameSession struct {
	ID            string        `json:"id"`
	Players       []Participant `json:"players"`         // exactly two, ordered
	TurnTimeLimit int           `json:"turn_time_limit"` // seconds
	RoundCount    int           `json:"round_count"`
	WordLength    int           `json:"word_length"`
	MaxAttempts   int           `json:"max_attempts"`
	State         State         `json:"state"`
	ReadyVotes    VoteSet       `json:"ready_votes"`
	ResumeVotes   VoteSet       `json:"resume_votes"`
	CurrentRound  int           `json:"current_round"` // 1-based
	CurrentTurn   int           `json:"current_turn"`  // index into Players
	Outcome       *Outcome      `json:"outcome,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Clone returns a deep copy. The store hands clones to readers so they
// never alias state a concurrent mutation is writing.
func (s *GameSession) Clone() *GameSession {
	c := *s
	c.Players = make([]Participant, len(s.Players))
	for i, p := range s.Players {
		p.Words = append([]string(nil), p.Words...)
		attempts := make([][]Attempt, len(p.Attempts))
		for r, round := range p.Attempts {
			attempts[r] = append([]Attempt(nil), round...)
		}
		p.Attempts = attempts
		c.Players[i] = p
	}
	c.ReadyVotes = s.ReadyVotes.Clone()
	c.ResumeVotes = s.ResumeVotes.Clone()
	if s.Outcome != nil {
		o := *s.Outcome
		c.Outcome = &o
	}
	return &c
}

// Player returns the participant with the given id, or nil.
func (s *GameSession) Player(id string) *Participant {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// Opponent returns the other participant, or nil if id is not a member.
func (s *GameSession) Opponent(id string) *Participant {
	for i := range s.Players {
		if s.Players[i].ID != id {
			return &s.Players[i]
		}
	}
	return nil
}

// IsMember reports whether id is one of the two participants.
func (s *GameSession) IsMember(id string) bool {
	return s.Player(id) != nil
}

// CurrentPlayer returns the participant whose turn it is.
func (s *GameSession) CurrentPlayer() *Participant {
	return &s.Players[s.CurrentTurn]
}

// TargetWord returns the word the given participant is trying to guess in
// the current round: the opponent's word for that round.
func (s *GameSession) TargetWord(id string) string {
	opp := s.Opponent(id)
	if opp == nil || s.CurrentRound < 1 || s.CurrentRound > len(opp.Words) {
		return ""
	}
	return opp.Words[s.CurrentRound-1]
}

// RoundAttempts returns the attempts a participant has made this round.
func (s *GameSession) RoundAttempts(p *Participant) []Attempt {
	if s.CurrentRound < 1 || s.CurrentRound > len(p.Attempts) {
		return nil
	}
	return p.Attempts[s.CurrentRound-1]
}

// IsLastRound reports whether the current round is the final one.
func (s *GameSession) IsLastRound() bool {
	return s.CurrentRound >= s.RoundCount
}

func (s *GameSession) nextTurn() {
	s.CurrentTurn = (s.CurrentTurn + 1) % len(s.Players)
}

// roundExhausted reports whether every participant has used all attempts
// for the current round.
func (s *GameSession) roundExhausted() bool {
	for i := range s.Players {
		if len(s.RoundAttempts(&s.Players[i])) < s.MaxAttempts {
			return false
		}
	}
	return true
}

// leader returns the id of the participant with the strictly higher score,
// or "" on a tie.
func (s *GameSession) leader() string {
	a, b := &s.Players[0], &s.Players[1]
	switch {
	case a.Score > b.Score:
		return a.ID
	case b.Score > a.Score:
		return b.ID
	default:
		return ""
	}
}

// DefaultEvaluator is the round-winning check: an exact, case-insensitive
// match of the guess against the target word.
func DefaultEvaluator(guess, target string) bool {
	return strings.EqualFold(guess, target)
}
