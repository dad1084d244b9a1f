package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpiderKate/BeevyApp/internal/domain"
)

// authorizerFunc adapts a function to the DrawAuthorizer interface.
type authorizerFunc func(ctx context.Context, userID uint, roomID string) bool

func (f authorizerFunc) CanDraw(ctx context.Context, userID uint, roomID string) bool {
	return f(ctx, userID, roomID)
}

func allowAll(context.Context, uint, string) bool { return true }

func newTestHub(authorize authorizerFunc, historyLimit int, multiRoom bool) *Hub {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewHub(authorize, historyLimit, multiRoom, log)
}

// newTestClient builds a client that is never attached to a real
// connection; tests read delivered frames straight off the send channel.
func newTestClient(h *Hub, userID uint) *Client {
	return &Client{
		hub:    h,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
		log:    h.log,
	}
}

func drawFrame(roomID string, seq int) []byte {
	return []byte(fmt.Sprintf(`{"type":"draw","room":%q,"data":{"seq":%d}}`, roomID, seq))
}

func drainFrames(c *Client) [][]byte {
	var out [][]byte
	for {
		select {
		case frame := <-c.send:
			out = append(out, frame)
		default:
			return out
		}
	}
}

func TestHub_DrawFansOutToEveryoneButSender(t *testing.T) {
	h := newTestHub(allowAll, 10, true)
	alice := newTestClient(h, 1)
	bob := newTestClient(h, 2)
	carol := newTestClient(h, 3)
	for _, c := range []*Client{alice, bob, carol} {
		h.Join(c, "room-a")
	}

	frame := drawFrame("room-a", 1)
	h.HandleDraw(context.Background(), alice, "room-a", frame)

	assert.Empty(t, drainFrames(alice), "sender must not receive its own frame")
	require.Len(t, drainFrames(bob), 1)
	carolFrames := drainFrames(carol)
	require.Len(t, carolFrames, 1)
	assert.Equal(t, frame, carolFrames[0])
}

func TestHub_DrawOnlyReachesSameRoom(t *testing.T) {
	h := newTestHub(allowAll, 10, true)
	alice := newTestClient(h, 1)
	bob := newTestClient(h, 2)
	h.Join(alice, "room-a")
	h.Join(bob, "room-b")

	h.HandleDraw(context.Background(), alice, "room-a", drawFrame("room-a", 1))

	assert.Empty(t, drainFrames(bob))
}

func TestHub_JoinReplaysBacklogInOrder(t *testing.T) {
	h := newTestHub(allowAll, 10, true)
	alice := newTestClient(h, 1)
	h.Join(alice, "room-a")
	for seq := 1; seq <= 3; seq++ {
		h.HandleDraw(context.Background(), alice, "room-a", drawFrame("room-a", seq))
	}

	bob := newTestClient(h, 2)
	h.Join(bob, "room-a")

	frames := drainFrames(bob)
	require.Len(t, frames, 1, "backlog arrives as a single batch")

	var batch domain.HistoryMessage
	require.NoError(t, json.Unmarshal(frames[0], &batch))
	assert.Equal(t, domain.MessageTypeHistory, batch.Type)
	assert.Equal(t, "room-a", batch.Room)
	require.Len(t, batch.Events, 3)
	for i, event := range batch.Events {
		assert.Equal(t, drawFrame("room-a", i+1), []byte(event))
	}

	// The existing subscriber does not get a replay.
	assert.Empty(t, drainFrames(alice))
}

func TestHub_JoinEmptyRoomSendsNoBacklog(t *testing.T) {
	h := newTestHub(allowAll, 10, true)
	alice := newTestClient(h, 1)

	h.Join(alice, "room-a")

	assert.Empty(t, drainFrames(alice))
}

func TestHub_JoinTwiceIsIdempotent(t *testing.T) {
	h := newTestHub(allowAll, 10, true)
	alice := newTestClient(h, 1)
	bob := newTestClient(h, 2)
	h.Join(alice, "room-a")
	h.Join(bob, "room-a")
	h.HandleDraw(context.Background(), alice, "room-a", drawFrame("room-a", 1))
	drainFrames(bob)

	h.Join(bob, "room-a")

	assert.Empty(t, drainFrames(bob), "re-join must not replay the backlog again")
	assert.Equal(t, 2, h.RoomSize("room-a"))
}

func TestHub_UnauthorizedDrawIsDroppedSilently(t *testing.T) {
	deny := func(_ context.Context, userID uint, _ string) bool { return userID != 2 }
	h := newTestHub(deny, 10, true)
	alice := newTestClient(h, 1)
	mallory := newTestClient(h, 2)
	h.Join(alice, "room-a")
	h.Join(mallory, "room-a")

	h.HandleDraw(context.Background(), mallory, "room-a", drawFrame("room-a", 99))

	assert.Empty(t, drainFrames(alice), "dropped frame must not be broadcast")
	assert.Empty(t, drainFrames(mallory), "sender gets no error reply")

	// History stays untouched: a later joiner sees no backlog.
	bob := newTestClient(h, 3)
	h.Join(bob, "room-a")
	assert.Empty(t, drainFrames(bob))
}

func TestHub_AuthorizationIsReadPerFrame(t *testing.T) {
	allowed := true
	h := newTestHub(func(context.Context, uint, string) bool { return allowed }, 10, true)
	alice := newTestClient(h, 1)
	bob := newTestClient(h, 2)
	h.Join(alice, "room-a")
	h.Join(bob, "room-a")

	h.HandleDraw(context.Background(), alice, "room-a", drawFrame("room-a", 1))
	require.Len(t, drainFrames(bob), 1)

	// Revocation takes effect on the very next frame.
	allowed = false
	h.HandleDraw(context.Background(), alice, "room-a", drawFrame("room-a", 2))
	assert.Empty(t, drainFrames(bob))
}

func TestHub_HistoryEvictionCapsReplay(t *testing.T) {
	h := newTestHub(allowAll, 3, true)
	alice := newTestClient(h, 1)
	h.Join(alice, "room-a")
	for seq := 1; seq <= 5; seq++ {
		h.HandleDraw(context.Background(), alice, "room-a", drawFrame("room-a", seq))
	}

	bob := newTestClient(h, 2)
	h.Join(bob, "room-a")

	frames := drainFrames(bob)
	require.Len(t, frames, 1)
	var batch domain.HistoryMessage
	require.NoError(t, json.Unmarshal(frames[0], &batch))
	require.Len(t, batch.Events, 3)
	for i, want := range []int{3, 4, 5} {
		assert.Equal(t, drawFrame("room-a", want), []byte(batch.Events[i]))
	}
}

func TestHub_LeaveStopsDelivery(t *testing.T) {
	h := newTestHub(allowAll, 10, true)
	alice := newTestClient(h, 1)
	bob := newTestClient(h, 2)
	h.Join(alice, "room-a")
	h.Join(bob, "room-a")

	h.Leave(bob)
	h.HandleDraw(context.Background(), alice, "room-a", drawFrame("room-a", 1))

	assert.Empty(t, drainFrames(bob))
	assert.Equal(t, 1, h.RoomSize("room-a"))
}

func TestHub_SingleRoomModeLeavesPreviousRoom(t *testing.T) {
	h := newTestHub(allowAll, 10, false)
	alice := newTestClient(h, 1)
	bob := newTestClient(h, 2)
	h.Join(alice, "room-a")
	h.Join(bob, "room-a")

	h.Join(bob, "room-b")
	h.HandleDraw(context.Background(), alice, "room-a", drawFrame("room-a", 1))

	assert.Empty(t, drainFrames(bob), "joining a new room detached bob from room-a")
	assert.Equal(t, 1, h.RoomSize("room-a"))
	assert.Equal(t, 1, h.RoomSize("room-b"))
}

func TestHub_MultiRoomModeKeepsBothSubscriptions(t *testing.T) {
	h := newTestHub(allowAll, 10, true)
	alice := newTestClient(h, 1)
	bob := newTestClient(h, 2)
	h.Join(alice, "room-a")
	h.Join(bob, "room-a")
	h.Join(bob, "room-b")

	h.HandleDraw(context.Background(), alice, "room-a", drawFrame("room-a", 1))

	require.Len(t, drainFrames(bob), 1)
	assert.Equal(t, 1, h.RoomSize("room-b"))
}

func TestHub_HistorySurvivesEmptySubscriberSet(t *testing.T) {
	h := newTestHub(allowAll, 10, true)
	alice := newTestClient(h, 1)
	h.Join(alice, "room-a")
	frame := drawFrame("room-a", 1)
	h.HandleDraw(context.Background(), alice, "room-a", frame)

	h.Leave(alice)
	assert.Equal(t, 0, h.RoomSize("room-a"))

	// A later joiner still receives the backlog recorded before the
	// room emptied out.
	bob := newTestClient(h, 2)
	h.Join(bob, "room-a")
	frames := drainFrames(bob)
	require.Len(t, frames, 1)
	var batch domain.HistoryMessage
	require.NoError(t, json.Unmarshal(frames[0], &batch))
	require.Len(t, batch.Events, 1)
	assert.Equal(t, frame, []byte(batch.Events[0]))
}

func TestHub_DrawToUnjoinedRoomStillRecordsHistory(t *testing.T) {
	h := newTestHub(allowAll, 10, true)
	alice := newTestClient(h, 1)

	// Alice never sent a join for room-a; an authorized draw still
	// lands in the room's history.
	frame := drawFrame("room-a", 1)
	h.HandleDraw(context.Background(), alice, "room-a", frame)

	bob := newTestClient(h, 2)
	h.Join(bob, "room-a")
	frames := drainFrames(bob)
	require.Len(t, frames, 1)
	var batch domain.HistoryMessage
	require.NoError(t, json.Unmarshal(frames[0], &batch))
	require.Len(t, batch.Events, 1)
	assert.Equal(t, frame, []byte(batch.Events[0]))
}
