package session

import (
	"github.com/wordclash/wordclash/internal/protocol"
)

// Snapshot projects a session into the wire view sent to clients.
// Secret words never leave the server.
func Snapshot(s *GameSession) *protocol.SessionSnapshot {
	players := make([]protocol.PlayerView, len(s.Players))
	for i := range s.Players {
		p := &s.Players[i]
		attempts := make([][]protocol.AttemptView, len(p.Attempts))
		for r, round := range p.Attempts {
			views := make([]protocol.AttemptView, len(round))
			for j, a := range round {
				views[j] = protocol.AttemptView{
					PlayerID: p.ID,
					Guess:    a.Guess,
					Correct:  a.Correct,
					At:       a.At,
				}
			}
			attempts[r] = views
		}
		players[i] = protocol.PlayerView{
			ID:       p.ID,
			Name:     p.Name,
			IsBot:    p.IsBot,
			Score:    p.Score,
			Attempts: attempts,
		}
	}

	snap := &protocol.SessionSnapshot{
		ID:            s.ID,
		State:         string(s.State),
		Players:       players,
		ReadyVotes:    s.ReadyVotes.Members(),
		ResumeVotes:   s.ResumeVotes.Members(),
		CurrentRound:  s.CurrentRound,
		CurrentTurn:   s.CurrentPlayer().ID,
		RoundCount:    s.RoundCount,
		WordLength:    s.WordLength,
		MaxAttempts:   s.MaxAttempts,
		TurnTimeLimit: s.TurnTimeLimit,
	}
	if s.Outcome != nil {
		snap.Outcome = &protocol.OutcomeView{
			WinnerID:    s.Outcome.WinnerID,
			Reason:      s.Outcome.Reason,
			CompletedAt: s.Outcome.CompletedAt,
		}
	}
	return snap
}
