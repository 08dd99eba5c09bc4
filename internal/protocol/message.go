package protocol

import "encoding/json"

// Message is the envelope for every websocket frame.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType identifies the meaning of a message.
type MessageType string

// Client -> server message types.
const (
	MsgReadyVote  MessageType = "ready_vote"  // vote to start a waiting session
	MsgPause      MessageType = "pause"       // pause an in-progress session
	MsgResumeVote MessageType = "resume_vote" // vote to resume a paused session
	MsgGuess      MessageType = "guess"       // submit a word guess
	MsgPing       MessageType = "ping"        // heartbeat
)

// Server -> client message types.
const (
	MsgSessionState MessageType = "session_state" // full session snapshot
	MsgPong         MessageType = "pong"
	MsgError        MessageType = "error"
)

// Error codes carried by error payloads and apperrors sentinels.
const (
	ErrCodeUnknown = 1000 + iota
	ErrCodeLobbyNotFound
	ErrCodeLobbyFull
	ErrCodeLobbyActive
	ErrCodeNotHost
	ErrCodeWordMismatch
	ErrCodeSessionNotFound
	ErrCodeUserNotFound
	ErrCodeNotAMember
	ErrCodeNotYourTurn
	ErrCodeNotWaiting
	ErrCodeNotInProgress
	ErrCodeNotPaused
	ErrCodeAlreadyPaused
	ErrCodeGameOver
)
