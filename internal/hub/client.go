package hub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/SpiderKate/BeevyApp/internal/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum incoming frame size. Draw payloads are small batches of
	// stroke points, so 4 KiB leaves plenty of headroom.
	maxMessageSize = 4096

	// Buffered frames per client before the hub starts dropping.
	sendBufferSize = 256
)

// Client is one WebSocket connection attached to the hub. A client carries
// the authenticated user's ID; which rooms it receives frames from is
// tracked by the hub, not the client.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uint
	send   chan []byte
	log    *logrus.Logger
}

// NewClient wraps an upgraded connection for the given user.
func NewClient(hub *Hub, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
		log:    hub.log,
	}
}

// Run starts the client's read and write goroutines.
func (c *Client) Run() {
	go c.WritePump()
	go c.ReadPump()
}

// UserID returns the authenticated user behind this connection.
func (c *Client) UserID() uint { return c.userID }

// enqueue hands a frame to the write pump without blocking. It reports
// false when the client's buffer is full and the frame was dropped.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// ReadPump pumps frames from the WebSocket connection into the hub.
// It runs in its own goroutine; when it returns the client is detached
// from all of its rooms and the connection is closed.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Leave(c)
		close(c.send)
		c.conn.Close()
		c.log.WithField("user_id", c.userID).Info("readPump exited, client detached")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			logCtx := c.log.WithField("user_id", c.userID)
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logCtx.WithError(err).Warn("WebSocket read error (unexpected close)")
			} else {
				logCtx.Debug("WebSocket connection closed normally or read error")
			}
			break
		}
		if messageType != websocket.TextMessage {
			c.log.WithField("user_id", c.userID).Debugf("Ignoring non-text message type: %d", messageType)
			continue
		}
		c.dispatch(message)
	}
}

// dispatch routes one inbound frame. Malformed frames and frames without a
// room are ignored; draw frames are relayed byte for byte so the payload
// stays opaque to the server.
func (c *Client) dispatch(frame []byte) {
	var msg domain.ClientMessage
	if err := json.Unmarshal(frame, &msg); err != nil {
		c.log.WithField("user_id", c.userID).WithError(err).Debug("Dropping malformed frame")
		return
	}
	if msg.Room == "" {
		c.log.WithField("user_id", c.userID).Debug("Dropping frame without room")
		return
	}

	switch msg.Type {
	case domain.MessageTypeJoin:
		c.hub.Join(c, msg.Room)
	case domain.MessageTypeDraw:
		c.hub.HandleDraw(context.Background(), c, msg.Room, frame)
	default:
		c.log.WithFields(logrus.Fields{
			"user_id": c.userID,
			"type":    msg.Type,
		}).Debug("Dropping frame with unknown type")
	}
}

// WritePump pumps frames from the send channel to the WebSocket connection
// and keeps the connection alive with periodic pings. It runs in its own
// goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.log.WithField("user_id", c.userID).Info("writePump exited")
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.WithField("user_id", c.userID).WithError(err).Warn("Failed to write message to websocket")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithField("user_id", c.userID).WithError(err).Warn("Failed to send ping message")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})
		}
	}
}
