package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/wordclash/wordclash/internal/protocol"
)

// Kind classifies a GameError for transport mapping.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindValidation
	KindForbidden
	KindInvalidTransition
)

// GameError is a typed failure shared by the matchmaker and coordinator.
type GameError struct {
	Kind    Kind
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// Predefined errors
var (
	ErrLobbyNotFound   = &GameError{Kind: KindNotFound, Code: protocol.ErrCodeLobbyNotFound, Message: "lobby not found"}
	ErrSessionNotFound = &GameError{Kind: KindNotFound, Code: protocol.ErrCodeSessionNotFound, Message: "game session not found"}
	ErrUserNotFound    = &GameError{Kind: KindNotFound, Code: protocol.ErrCodeUserNotFound, Message: "user not found"}

	ErrLobbyFull   = &GameError{Kind: KindConflict, Code: protocol.ErrCodeLobbyFull, Message: "lobby is full"}
	ErrLobbyActive = &GameError{Kind: KindConflict, Code: protocol.ErrCodeLobbyActive, Message: "lobby already has a second player"}

	ErrNotHost    = &GameError{Kind: KindForbidden, Code: protocol.ErrCodeNotHost, Message: "only the host can do that"}
	ErrNotAMember = &GameError{Kind: KindForbidden, Code: protocol.ErrCodeNotAMember, Message: "you are not part of this session"}

	ErrNotYourTurn   = &GameError{Kind: KindInvalidTransition, Code: protocol.ErrCodeNotYourTurn, Message: "it is not your turn"}
	ErrNotWaiting    = &GameError{Kind: KindInvalidTransition, Code: protocol.ErrCodeNotWaiting, Message: "session is not waiting to start"}
	ErrNotInProgress = &GameError{Kind: KindInvalidTransition, Code: protocol.ErrCodeNotInProgress, Message: "session is not in progress"}
	ErrNotPaused     = &GameError{Kind: KindInvalidTransition, Code: protocol.ErrCodeNotPaused, Message: "session is not paused"}
	ErrAlreadyPaused = &GameError{Kind: KindInvalidTransition, Code: protocol.ErrCodeAlreadyPaused, Message: "session is already paused"}
	ErrGameOver      = &GameError{Kind: KindInvalidTransition, Code: protocol.ErrCodeGameOver, Message: "game is already over"}
)

// Validationf builds a word/parameter validation error with an actionable message.
func Validationf(format string, args ...any) *GameError {
	return &GameError{
		Kind:    KindValidation,
		Code:    protocol.ErrCodeWordMismatch,
		Message: fmt.Sprintf(format, args...),
	}
}

// KindOf extracts the Kind from an error chain, KindUnknown otherwise.
func KindOf(err error) Kind {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindUnknown
}

// CodeOf extracts the wire code from an error chain.
func CodeOf(err error) int {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return protocol.ErrCodeUnknown
}

// HTTPStatus maps an error to a REST status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
