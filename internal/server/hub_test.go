package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordclash/wordclash/internal/protocol"
)

// enqueue and the hub never touch the connection, so a nil conn is fine
// for these tests.
func testClient(playerID, sessionID string) *Client {
	return newClient(nil, playerID, sessionID)
}

func TestHub_JoinBroadcastLeave(t *testing.T) {
	t.Parallel()

	h := NewHub()
	c1 := testClient("p1", "s1")
	c2 := testClient("p2", "s1")
	other := testClient("p3", "s2")

	h.Join("s1", c1)
	h.Join("s1", c2)
	h.Join("s2", other)
	assert.Equal(t, 2, h.GroupSize("s1"))
	assert.Equal(t, 1, h.GroupSize("s2"))

	msg := protocol.MustNewMessage(protocol.MsgSessionState, nil)
	h.Broadcast("s1", msg)

	for _, c := range []*Client{c1, c2} {
		select {
		case got := <-c.send:
			assert.Equal(t, msg, got)
		default:
			t.Fatalf("client %s received nothing", c.PlayerID)
		}
	}

	// The other session's client hears nothing.
	select {
	case <-other.send:
		t.Fatal("broadcast leaked across sessions")
	default:
	}

	h.Leave("s1", c1)
	assert.Equal(t, 1, h.GroupSize("s1"))

	// Leave closes the send channel exactly once; a repeat is a no-op.
	_, open := <-c1.send
	assert.False(t, open)
	h.Leave("s1", c1)

	h.Leave("s1", c2)
	assert.Zero(t, h.GroupSize("s1"))
}

func TestHub_BroadcastToUnknownSession(t *testing.T) {
	t.Parallel()

	h := NewHub()
	// Must not panic.
	h.Broadcast("nope", protocol.MustNewMessage(protocol.MsgSessionState, nil))
	assert.Zero(t, h.GroupSize("nope"))
}

func TestClient_EnqueueDropsWhenFull(t *testing.T) {
	t.Parallel()

	c := testClient("p1", "s1")
	msg := protocol.MustNewMessage(protocol.MsgPong, nil)

	for i := 0; i < sendBuffer; i++ {
		c.enqueue(msg)
	}
	require.Len(t, c.send, sendBuffer)

	// A full buffer drops instead of blocking.
	c.enqueue(msg)
	assert.Len(t, c.send, sendBuffer)
}
