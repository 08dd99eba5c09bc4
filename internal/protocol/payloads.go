package protocol

import "time"

// GuessPayload carries a word guess from a client.
type GuessPayload struct {
	Word string `json:"word"`
}

// ErrorPayload is sent when a client action fails.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// PingPayload / PongPayload carry the client timestamp for latency tracking.
type PingPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"`
}

type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"`
}

// AttemptView is one guess as seen by both players.
type AttemptView struct {
	PlayerID string    `json:"player_id"`
	Guess    string    `json:"guess"`
	Correct  bool      `json:"correct"`
	At       time.Time `json:"at"`
}

// PlayerView is a participant projection. Secret words are never included.
type PlayerView struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	IsBot    bool            `json:"is_bot"`
	Score    int             `json:"score"`
	Attempts [][]AttemptView `json:"attempts"` // indexed by round-1
}

// OutcomeView describes a finished game.
type OutcomeView struct {
	WinnerID    string    `json:"winner_id,omitempty"`
	Reason      string    `json:"reason"`
	CompletedAt time.Time `json:"completed_at"`
}

// SessionSnapshot is the full session state pushed on attach and on every
// transition. Identical for both players; vote membership is included so
// clients can render "N of 2 ready".
type SessionSnapshot struct {
	ID            string       `json:"id"`
	State         string       `json:"state"`
	Players       []PlayerView `json:"players"`
	ReadyVotes    []string     `json:"ready_votes"`
	ResumeVotes   []string     `json:"resume_votes"`
	CurrentRound  int          `json:"current_round"`
	CurrentTurn   string       `json:"current_turn"` // player id
	RoundCount    int          `json:"round_count"`
	WordLength    int          `json:"word_length"`
	MaxAttempts   int          `json:"max_attempts"`
	TurnTimeLimit int          `json:"turn_time_limit"` // seconds
	Outcome       *OutcomeView `json:"outcome,omitempty"`
}
