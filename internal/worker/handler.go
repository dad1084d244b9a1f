package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/SpiderKate/BeevyApp/internal/service"
	"github.com/SpiderKate/BeevyApp/internal/tasks"
)

// RoomDeactivationHandler processes room-deactivation tasks enqueued when an
// account is deactivated. Connections already subscribed to those rooms stay
// attached until they disconnect on their own.
type RoomDeactivationHandler struct {
	roomService *service.RoomService
}

func NewRoomDeactivationHandler(roomService *service.RoomService) *RoomDeactivationHandler {
	return &RoomDeactivationHandler{roomService: roomService}
}

// ProcessTask implements asynq.Handler.
func (h *RoomDeactivationHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	currentRetry, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	logCtx := logrus.WithFields(logrus.Fields{
		"task_id":   taskID,
		"task_type": t.Type(),
		"retry":     currentRetry,
		"max_retry": maxRetry,
	})
	logCtx.Info("Processing room deactivation task...")

	var payload tasks.RoomDeactivateOwnerPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	count, err := h.roomService.DeactivateRoomsForOwner(ctx, payload.OwnerID)
	if err != nil {
		logCtx.WithError(err).WithField("owner_id", payload.OwnerID).Error("Failed to deactivate rooms")
		return fmt.Errorf("deactivate rooms for owner %d: %w", payload.OwnerID, err)
	}

	logCtx.WithFields(logrus.Fields{
		"owner_id":    payload.OwnerID,
		"rooms_count": count,
	}).Info("Rooms deactivated for owner")
	return nil
}
