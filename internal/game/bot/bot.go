// Package bot provides the non-human participant: identity, vocabulary
// strategy, and delayed move scheduling.
package bot

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/wordclash/wordclash/internal/game/session"
	"github.com/wordclash/wordclash/internal/game/words"
)

// IDPrefix marks bot participant ids.
const IDPrefix = "bot_"

var botNames = []string{
	"WordWiz",
	"LetterLord",
	"GuessGuru",
	"VocabVictor",
	"WordSmith",
	"LetterLegend",
	"PuzzlePro",
	"WordWarden",
}

// IsBotID reports whether a participant id belongs to a bot.
func IsBotID(id string) bool {
	return strings.HasPrefix(id, IDPrefix)
}

// NewOpponent builds a bot participant with random words matching the match
// parameters.
func NewOpponent(rounds, wordLength int) (session.NewParticipant, error) {
	secret, ok := words.Pick(wordLength, rounds)
	if !ok {
		return session.NewParticipant{}, fmt.Errorf("no %d-letter words in the bot vocabulary", wordLength)
	}
	return session.NewParticipant{
		ID:    fmt.Sprintf("%s%05d", IDPrefix, rand.IntN(100000)),
		Name:  fmt.Sprintf("%s%d", botNames[rand.IntN(len(botNames))], 10+rand.IntN(90)),
		IsBot: true,
		Words: secret,
	}, nil
}

// ChooseGuess picks the bot's next guess: a random word of the right
// length, avoiding words it already tried this round.
func ChooseGuess(s *session.GameSession, botID string) (string, bool) {
	p := s.Player(botID)
	if p == nil {
		return "", false
	}

	tried := make(map[string]bool)
	for _, a := range s.RoundAttempts(p) {
		tried[strings.ToLower(a.Guess)] = true
	}
	return words.Random(s.WordLength, tried)
}
