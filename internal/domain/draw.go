package domain

import "encoding/json"

// Client/server message types of the realtime protocol.
const (
	MessageTypeJoin    = "join"
	MessageTypeDraw    = "draw"
	MessageTypeHistory = "history"
)

// ClientMessage is the envelope read from a websocket client. For draw
// messages Data carries the stroke record; it is opaque to the server and
// relayed byte-for-byte.
type ClientMessage struct {
	Type string          `json:"type"`
	Room string          `json:"room"`
	Data json.RawMessage `json:"data,omitempty"`
}

// HistoryMessage is sent to a client right after it joins a room, carrying the
// previously recorded draw frames in their original order.
type HistoryMessage struct {
	Type   string            `json:"type"`
	Room   string            `json:"room"`
	Events []json.RawMessage `json:"events"`
}
