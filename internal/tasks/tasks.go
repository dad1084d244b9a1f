package tasks

import (
	"encoding/json"
)

// Task type names registered with asynq.
const (
	// TypeRoomDeactivateOwner marks every room owned by a user as inactive
	// after the account is deactivated.
	TypeRoomDeactivateOwner = "room:deactivate_owner"
)

// RoomDeactivateOwnerPayload carries the owner whose rooms go inactive.
type RoomDeactivateOwnerPayload struct {
	OwnerID uint `json:"owner_id"`
}

// NewRoomDeactivateOwnerPayload serializes the payload for enqueueing.
func NewRoomDeactivateOwnerPayload(ownerID uint) ([]byte, error) {
	return json.Marshal(RoomDeactivateOwnerPayload{OwnerID: ownerID})
}
