package hub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/SpiderKate/BeevyApp/internal/domain"
)

// DrawAuthorizer decides whether a user may draw in a room. The hub calls it
// once per draw frame so that access revocation takes effect immediately.
type DrawAuthorizer interface {
	CanDraw(ctx context.Context, userID uint, roomID string) bool
}

// room holds the live subscribers and the replay history of one canvas.
// Its mutex serializes history appends and fanout enqueues, which is what
// gives every subscriber the same per-room event order.
type room struct {
	mu          sync.Mutex
	subscribers map[*Client]struct{}
	history     *History
}

// Hub routes draw frames between clients grouped by room and keeps each
// room's bounded replay history. Rooms are created lazily on first join or
// draw; a room's history outlives its subscribers and is only lost when
// the process stops.
type Hub struct {
	mu      sync.Mutex
	rooms   map[string]*room
	members map[*Client]map[string]struct{}

	authorizer   DrawAuthorizer
	historyLimit int
	multiRoom    bool
	log          *logrus.Logger
}

// NewHub creates a hub. historyLimit bounds each room's replay backlog and
// multiRoom controls whether one connection may subscribe to several rooms
// at once; with multiRoom disabled a join implies leaving the previous room.
func NewHub(authorizer DrawAuthorizer, historyLimit int, multiRoom bool, log *logrus.Logger) *Hub {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Hub{
		rooms:        make(map[string]*room),
		members:      make(map[*Client]map[string]struct{}),
		authorizer:   authorizer,
		historyLimit: historyLimit,
		multiRoom:    multiRoom,
		log:          log,
	}
}

// Join subscribes c to roomID and sends it the room's replay backlog.
// Joining a room the client is already in is a no-op. The backlog is
// enqueued under the room lock, so it always precedes any draw broadcast
// after the join.
func (h *Hub) Join(c *Client, roomID string) {
	h.mu.Lock()
	joined := h.members[c]
	if joined == nil {
		joined = make(map[string]struct{})
		h.members[c] = joined
	}
	if _, ok := joined[roomID]; ok {
		h.mu.Unlock()
		return
	}
	if !h.multiRoom {
		for prev := range joined {
			h.detachLocked(c, prev)
		}
	}
	joined[roomID] = struct{}{}
	r := h.rooms[roomID]
	if r == nil {
		r = &room{
			subscribers: make(map[*Client]struct{}),
			history:     NewHistory(h.historyLimit),
		}
		h.rooms[roomID] = r
	}
	h.mu.Unlock()

	r.mu.Lock()
	r.subscribers[c] = struct{}{}
	backlog := r.history.Snapshot()
	if len(backlog) > 0 {
		frame, err := json.Marshal(domain.HistoryMessage{
			Type:   domain.MessageTypeHistory,
			Room:   roomID,
			Events: backlog,
		})
		if err == nil {
			c.enqueue(frame)
		} else {
			h.log.WithError(err).Error("Failed to encode history backlog")
		}
	}
	r.mu.Unlock()

	h.log.WithFields(logrus.Fields{
		"user_id": c.userID,
		"room_id": roomID,
		"backlog": len(backlog),
	}).Info("Client joined room")
}

// Leave unsubscribes c from every room it joined. Called when the
// connection closes.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	for roomID := range h.members[c] {
		h.detachLocked(c, roomID)
	}
	delete(h.members, c)
	h.mu.Unlock()
}

// detachLocked removes c from one room. The room entry stays even when
// empty so the replay history remains available to later joiners.
// Caller holds h.mu.
func (h *Hub) detachLocked(c *Client, roomID string) {
	delete(h.members[c], roomID)
	r := h.rooms[roomID]
	if r == nil {
		return
	}
	r.mu.Lock()
	delete(r.subscribers, c)
	r.mu.Unlock()
}

// HandleDraw records the frame in the room's history and relays it to every
// subscriber except the sender. Frames from users without verified access
// are dropped without a reply; authorization is re-read on every frame, not
// cached on the connection.
func (h *Hub) HandleDraw(ctx context.Context, c *Client, roomID string, frame []byte) {
	if !h.authorizer.CanDraw(ctx, c.userID, roomID) {
		h.log.WithFields(logrus.Fields{
			"user_id": c.userID,
			"room_id": roomID,
		}).Warn("Dropped draw frame from unauthorized user")
		return
	}

	h.mu.Lock()
	r := h.rooms[roomID]
	if r == nil {
		r = &room{
			subscribers: make(map[*Client]struct{}),
			history:     NewHistory(h.historyLimit),
		}
		h.rooms[roomID] = r
	}
	h.mu.Unlock()

	// Appending and enqueueing under one lock keeps history order and
	// delivery order identical for every subscriber. Network writes
	// happen later on each client's write pump.
	r.mu.Lock()
	r.history.Append(frame)
	for sub := range r.subscribers {
		if sub == c {
			continue
		}
		if !sub.enqueue(frame) {
			h.log.WithFields(logrus.Fields{
				"user_id": sub.userID,
				"room_id": roomID,
			}).Warn("Subscriber send buffer full, frame dropped")
		}
	}
	r.mu.Unlock()
}

// RoomSize reports the current subscriber count of a room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.Lock()
	r := h.rooms[roomID]
	h.mu.Unlock()
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscribers)
}
