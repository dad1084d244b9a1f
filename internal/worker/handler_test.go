package worker_test

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SpiderKate/BeevyApp/internal/repository/mocks"
	"github.com/SpiderKate/BeevyApp/internal/service"
	"github.com/SpiderKate/BeevyApp/internal/tasks"
	"github.com/SpiderKate/BeevyApp/internal/worker"
)

func TestRoomDeactivationHandler_DeactivatesOwnerRooms(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	roomRepo.On("DeactivateByOwner", mock.Anything, uint(7)).Return(int64(3), nil)
	handler := worker.NewRoomDeactivationHandler(service.NewRoomService(roomRepo))

	payload, err := tasks.NewRoomDeactivateOwnerPayload(7)
	require.NoError(t, err)
	task := asynq.NewTask(tasks.TypeRoomDeactivateOwner, payload)

	err = handler.ProcessTask(context.Background(), task)

	assert.NoError(t, err)
	roomRepo.AssertExpectations(t)
}

func TestRoomDeactivationHandler_SkipsRetryOnBadPayload(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	handler := worker.NewRoomDeactivationHandler(service.NewRoomService(roomRepo))

	task := asynq.NewTask(tasks.TypeRoomDeactivateOwner, []byte("not json"))

	err := handler.ProcessTask(context.Background(), task)

	assert.ErrorIs(t, err, asynq.SkipRetry)
	roomRepo.AssertNotCalled(t, "DeactivateByOwner", mock.Anything, mock.Anything)
}
