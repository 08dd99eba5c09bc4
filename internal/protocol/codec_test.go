package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageRoundTrip(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage(MsgGuess, GuessPayload{Word: "apple"})
	require.NoError(t, err)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, MsgGuess, decoded.Type)

	var guess GuessPayload
	require.NoError(t, DecodePayload(decoded, &guess))
	assert.Equal(t, "apple", guess.Word)
}

func TestNewMessageNilPayload(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage(MsgReadyVote, nil)
	require.NoError(t, err)
	assert.Empty(t, msg.Payload)

	var v struct{}
	assert.Error(t, DecodePayload(msg, &v))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("not json"))
	assert.Error(t, err)
}

func TestNewErrorMessage(t *testing.T) {
	t.Parallel()

	msg := NewErrorMessage(ErrCodeNotYourTurn, "not your turn")
	assert.Equal(t, MsgError, msg.Type)

	var p ErrorPayload
	require.NoError(t, DecodePayload(msg, &p))
	assert.Equal(t, ErrCodeNotYourTurn, p.Code)
	assert.Equal(t, "not your turn", p.Message)
}
