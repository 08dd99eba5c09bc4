package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/wordclash/wordclash/internal/apperrors"
	"github.com/wordclash/wordclash/internal/game/session"
	"github.com/wordclash/wordclash/internal/protocol"
)

// handleGameSocket attaches a participant's socket to its session. The
// client immediately receives the current snapshot so a reconnect can
// resynchronize from any state.
func (s *Server) handleGameSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	playerID := r.URL.Query().Get("player_id")

	sess, err := s.coordinator.Get(r.Context(), sessionID)
	if err != nil {
		http.Error(w, err.Error(), apperrors.HTTPStatus(err))
		return
	}
	if !sess.IsMember(playerID) {
		http.Error(w, apperrors.ErrNotAMember.Error(), http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := newClient(conn, playerID, sessionID)
	s.hub.Join(sessionID, client)
	go client.writePump()

	client.enqueue(protocol.MustNewMessage(protocol.MsgSessionState, session.Snapshot(sess)))
	log.Printf("player %s attached to session %s", playerID, sessionID)

	// A bot opponent must not keep the human waiting for a start vote.
	if sess.State == session.StateWaiting {
		for i := range sess.Players {
			p := &sess.Players[i]
			if p.IsBot && !sess.ReadyVotes.Has(p.ID) {
				if _, err := s.coordinator.CastReadyVote(r.Context(), sessionID, p.ID); err != nil {
					log.Printf("bot ready vote for session %s: %v", sessionID, err)
				}
			}
		}
	}

	client.readPump(s)
}

// dispatch routes one client message to the coordinator. Failures go back
// to the sender only; successful mutations reach everyone via the
// coordinator's broadcast.
func (s *Server) dispatch(c *Client, msg *protocol.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	switch msg.Type {
	case protocol.MsgPing:
		var ping protocol.PingPayload
		_ = protocol.DecodePayload(msg, &ping)
		c.enqueue(protocol.MustNewMessage(protocol.MsgPong, protocol.PongPayload{ClientTimestamp: ping.ClientTimestamp}))
		return
	case protocol.MsgReadyVote:
		_, err = s.coordinator.CastReadyVote(ctx, c.SessionID, c.PlayerID)
	case protocol.MsgPause:
		err = s.coordinator.Pause(ctx, c.SessionID, c.PlayerID)
	case protocol.MsgResumeVote:
		_, err = s.coordinator.CastResumeVote(ctx, c.SessionID, c.PlayerID)
	case protocol.MsgGuess:
		var guess protocol.GuessPayload
		if err = protocol.DecodePayload(msg, &guess); err == nil {
			_, err = s.coordinator.SubmitGuess(ctx, c.SessionID, c.PlayerID, guess.Word)
		}
	default:
		c.enqueue(protocol.NewErrorMessage(protocol.ErrCodeUnknown, "unknown message type"))
		return
	}

	if err != nil {
		c.enqueue(protocol.NewErrorMessage(apperrors.CodeOf(err), err.Error()))
	}
}
