package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/wordclash/wordclash/internal/apperrors"
	"github.com/wordclash/wordclash/internal/game/bot"
	"github.com/wordclash/wordclash/internal/game/lobby"
	"github.com/wordclash/wordclash/internal/game/session"
	"github.com/wordclash/wordclash/internal/game/words"
	"github.com/wordclash/wordclash/internal/storage"
)

// lobbyView is the lobby projection returned to clients. Secret words stay
// on the server.
type lobbyView struct {
	Code          string `json:"code"`
	HostID        string `json:"host_id"`
	GuestID       string `json:"guest_id,omitempty"`
	TurnTimeLimit int    `json:"turn_time_limit"`
	WordLength    int    `json:"word_length"`
	Rounds        int    `json:"rounds"`
	SessionID     string `json:"session_id,omitempty"`
	CreatedAt     int64  `json:"created_at"`
}

func viewOf(rec *storage.LobbyRecord) lobbyView {
	return lobbyView{
		Code:          rec.Code,
		HostID:        rec.HostID,
		GuestID:       rec.GuestID,
		TurnTimeLimit: rec.TurnTimeLimit,
		WordLength:    rec.WordLength,
		Rounds:        rec.Rounds,
		SessionID:     rec.SessionID,
		CreatedAt:     rec.CreatedAt,
	}
}

type joinRequest struct {
	Code          string   `json:"code"`
	Words         []string `json:"words"`
	TurnTimeLimit int      `json:"turn_time_limit,omitempty"`
}

type joinResponse struct {
	SessionID string    `json:"session_id,omitempty"`
	Lobby     lobbyView `json:"lobby"`
	IsHost    bool      `json:"is_host"`
	IsReady   bool      `json:"is_ready"`
}

func (s *Server) handleJoinLobby(w http.ResponseWriter, r *http.Request) {
	playerID, deviceID := r.URL.Query().Get("player_id"), r.URL.Query().Get("device_id")
	if playerID == "" {
		writeError(w, apperrors.Validationf("player_id is required"))
		return
	}

	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validationf("malformed join request"))
		return
	}

	result, err := s.matchmaker.Join(r.Context(), lobby.JoinParams{
		Code:          req.Code,
		PlayerID:      playerID,
		DeviceID:      deviceID,
		Words:         req.Words,
		TurnTimeLimit: req.TurnTimeLimit,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, joinResponse{
		SessionID: result.SessionID,
		Lobby:     viewOf(result.Lobby),
		IsHost:    result.IsHost,
		IsReady:   result.IsReady,
	})
}

func (s *Server) handleGetLobby(w http.ResponseWriter, r *http.Request) {
	rec, err := s.matchmaker.Get(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(rec))
}

func (s *Server) handleDeleteLobby(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("player_id")
	if err := s.matchmaker.Delete(r.Context(), r.PathValue("code"), playerID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type botGameRequest struct {
	Words         []string `json:"words"`
	TurnTimeLimit int      `json:"turn_time_limit,omitempty"`
}

type botGameResponse struct {
	SessionID string `json:"session_id"`
	Opponent  string `json:"opponent"`
}

// handleCreateBotGame starts a session between the caller and a bot. The
// bot's words are drawn from the embedded vocabulary.
func (s *Server) handleCreateBotGame(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		writeError(w, apperrors.Validationf("player_id is required"))
		return
	}

	var req botGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validationf("malformed request"))
		return
	}
	if len(req.Words) == 0 {
		writeError(w, apperrors.Validationf("words list cannot be empty"))
		return
	}
	wordLength := len(req.Words[0])
	if !words.Supported(wordLength) {
		writeError(w, apperrors.Validationf("no bot vocabulary for %d-letter words", wordLength))
		return
	}

	user, err := s.users.GetByID(r.Context(), playerID)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeError(w, apperrors.ErrUserNotFound)
		return
	}

	opponent, err := bot.NewOpponent(len(req.Words), wordLength)
	if err != nil {
		writeError(w, err)
		return
	}

	turnTime := req.TurnTimeLimit
	if turnTime <= 0 {
		turnTime = s.config.Game.TurnTimeLimit
	}

	created, err := s.coordinator.CreateSession(r.Context(),
		session.NewParticipant{ID: user.ID, Name: user.DisplayName, Words: req.Words},
		opponent,
		session.Settings{TurnTimeLimit: turnTime, MaxAttempts: s.config.Game.MaxAttempts},
	)
	if err != nil {
		writeError(w, err)
		return
	}

	log.Printf("bot session %s created for %s vs %s", created.ID, user.ID, opponent.Name)
	writeJSON(w, http.StatusOK, botGameResponse{SessionID: created.ID, Opponent: opponent.Name})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[ERROR] request failed: %v", err)
	}
	writeJSON(w, status, map[string]any{
		"code":    apperrors.CodeOf(err),
		"message": err.Error(),
	})
}
