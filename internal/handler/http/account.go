package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/SpiderKate/BeevyApp/internal/service"
	"github.com/SpiderKate/BeevyApp/internal/tasks"
)

// TaskEnqueuer is the slice of asynq.Client the account handler needs.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AccountHandler serves account-level actions, currently only deactivation.
type AccountHandler struct {
	authService *service.AuthService
	enqueuer    TaskEnqueuer
}

func NewAccountHandler(authService *service.AuthService, enqueuer TaskEnqueuer) *AccountHandler {
	return &AccountHandler{authService: authService, enqueuer: enqueuer}
}

type DeactivateRequest struct {
	Password string `json:"password" binding:"required"`
	Confirm  bool   `json:"confirm"`
}

// Deactivate handles POST /api/account/deactivate. The caller must confirm
// and re-supply their password. On success the user is soft-deactivated and
// a background task marks all of their rooms inactive.
func (h *AccountHandler) Deactivate(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}
	logCtx := logrus.WithField("user_id", userID)

	var req DeactivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logCtx.WithError(err).Warn("Handler.Deactivate: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: password is required")
		return
	}
	if !req.Confirm {
		ErrorResponse(c, http.StatusBadRequest, "Deactivation must be confirmed")
		return
	}

	user, err := h.authService.Deactivate(c.Request.Context(), userID, req.Password)
	if err != nil {
		logCtx.WithError(err).Warn("Handler.Deactivate: Deactivation failed")
		HandleServiceError(c, err)
		return
	}

	payload, err := tasks.NewRoomDeactivateOwnerPayload(user.ID)
	if err != nil {
		logCtx.WithError(err).Error("Handler.Deactivate: Failed to build room deactivation payload")
		ErrorResponse(c, http.StatusInternalServerError, "Account deactivated, room cleanup failed")
		return
	}
	if _, err := h.enqueuer.Enqueue(asynq.NewTask(tasks.TypeRoomDeactivateOwner, payload)); err != nil {
		// The account itself is already deactivated at this point.
		logCtx.WithError(err).Error("Handler.Deactivate: Failed to enqueue room deactivation task")
		ErrorResponse(c, http.StatusInternalServerError, "Account deactivated, room cleanup failed")
		return
	}

	logCtx.Info("Handler.Deactivate: Account deactivated, room cleanup enqueued")
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Account deactivated"})
}
