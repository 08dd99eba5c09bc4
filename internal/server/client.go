package server

import (
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wordclash/wordclash/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// Client is one attached websocket for one participant of one session.
type Client struct {
	PlayerID  string
	SessionID string

	conn *websocket.Conn
	send chan *protocol.Message
}

func newClient(conn *websocket.Conn, playerID, sessionID string) *Client {
	return &Client{
		PlayerID:  playerID,
		SessionID: sessionID,
		conn:      conn,
		send:      make(chan *protocol.Message, sendBuffer),
	}
}

// enqueue hands a message to the write pump without blocking. A client that
// cannot keep up loses the message; the next snapshot resynchronizes it.
func (c *Client) enqueue(msg *protocol.Message) {
	select {
	case c.send <- msg:
	default:
		log.Printf("dropping message for slow client %s (session %s)", c.PlayerID, c.SessionID)
	}
}

// readPump consumes frames from the socket and dispatches them. It returns
// when the connection drops; only this client's loop ends, the session is
// untouched.
func (c *Client) readPump(s *Server) {
	defer func() {
		s.hub.Leave(c.SessionID, c)
		_ = c.conn.Close()
		log.Printf("player %s detached from session %s", c.PlayerID, c.SessionID)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("read error for player %s: %v", c.PlayerID, err)
			}
			return
		}

		msg, err := protocol.Decode(raw)
		if err != nil {
			c.enqueue(protocol.NewErrorMessage(protocol.ErrCodeUnknown, "malformed message"))
			continue
		}

		s.dispatch(c, msg)
	}
}

// writePump drains the send channel to the socket and keeps the connection
// alive with pings. It exits when the channel is closed by the hub.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
