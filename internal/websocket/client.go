package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	// must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// clients only send control frames
	maxMessageSize = 512

	sendBufferSize = 256
)

// SessionExpiredReason is the close reason sent when the session token expires
const SessionExpiredReason = "session expired"

// Client is one browser connection subscribed to an account's events
type Client struct {
	id        string
	accountID uuid.UUID
	conn      *websocket.Conn
	hub       *Hub
	expiresAt time.Time
	send      chan []byte
	closed    bool
	mu        sync.RWMutex
	closeOnce sync.Once
}

// NewClient creates a Client for a validated session. The connection is
// closed when the session expires.
func NewClient(conn *websocket.Conn, session Session, hub *Hub) *Client {
	return &Client{
		id:        uuid.NewString(),
		accountID: session.AccountID,
		conn:      conn,
		hub:       hub,
		expiresAt: session.ExpiresAt,
		send:      make(chan []byte, sendBufferSize),
	}
}

// ID returns the connection identifier
func (c *Client) ID() string {
	return c.id
}

// AccountID returns the account the connection is subscribed to
func (c *Client) AccountID() uuid.UUID {
	return c.accountID
}

// ExpiresAt returns when the session behind the connection ends
func (c *Client) ExpiresAt() time.Time {
	return c.expiresAt
}

// Send queues a message. A full buffer means the peer is too slow and the
// message is rejected.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrClientClosed
	}
}

// Close closes the connection. Safe to call more than once.
func (c *Client) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		closeErr = c.conn.Close()
	})
	return closeErr
}

// IsClosed reports whether Close has been called
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// ReadPump drains incoming frames until the peer goes away, then
// unregisters the client. Run it in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().
					Err(err).
					Str("client_id", c.id).
					Str("account_id", c.accountID.String()).
					Msg("WebSocket unexpected close")
			}
			return
		}
	}
}

// WritePump writes queued messages and keepalive pings until the session
// expires. Run it in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	var expired <-chan time.Time
	if !c.expiresAt.IsZero() {
		timer := time.NewTimer(time.Until(c.expiresAt))
		defer timer.Stop()
		expired = timer.C
	}
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().
					Err(err).
					Str("client_id", c.id).
					Str("account_id", c.accountID.String()).
					Msg("WebSocket write error")
				return
			}

		case <-expired:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, SessionExpiredReason))
			log.Info().
				Str("client_id", c.id).
				Str("account_id", c.accountID.String()).
				Msg("WebSocket session expired")
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
