package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SpiderKate/BeevyApp/internal/domain"
	httpHandler "github.com/SpiderKate/BeevyApp/internal/handler/http"
	"github.com/SpiderKate/BeevyApp/internal/repository/mocks"
	"github.com/SpiderKate/BeevyApp/internal/service"
	"github.com/SpiderKate/BeevyApp/internal/tasks"
)

// recordingEnqueuer captures enqueued tasks instead of talking to Redis.
type recordingEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (r *recordingEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.tasks = append(r.tasks, task)
	return &asynq.TaskInfo{}, nil
}

type accountFixture struct {
	userRepo    *mocks.UserRepository
	sessionRepo *mocks.SessionRepository
	enqueuer    *recordingEnqueuer
	router      *gin.Engine
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userRepo := new(mocks.UserRepository)
	roomRepo := new(mocks.RoomRepository)
	sessionRepo := new(mocks.SessionRepository)
	authService, err := service.NewAuthService(userRepo, roomRepo, sessionRepo, "test-secret", 1)
	require.NoError(t, err)

	enqueuer := &recordingEnqueuer{}
	handler := httpHandler.NewAccountHandler(authService, enqueuer)

	router := gin.New()
	router.POST("/api/account/deactivate", func(c *gin.Context) {
		c.Set("user_id", uint(7))
	}, handler.Deactivate)

	return &accountFixture{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		enqueuer:    enqueuer,
		router:      router,
	}
}

func (f *accountFixture) post(t *testing.T, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/account/deactivate", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func deactivatableUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &domain.User{Username: "kate", Password: string(hash), Email: "kate@example.com"}
}

func TestAccountHandler_DeactivateEnqueuesRoomCleanup(t *testing.T) {
	f := newAccountFixture(t)
	user := deactivatableUser(t, "hunter2")
	user.ID = 7
	f.userRepo.On("FindByID", mock.Anything, uint(7)).Return(user, nil)
	f.userRepo.On("Save", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.DeactivatedAt != nil
	})).Return(nil)
	f.sessionRepo.On("ClearSession", mock.Anything, uint(7)).Return(nil)

	w := f.post(t, httpHandler.DeactivateRequest{Password: "hunter2", Confirm: true})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.enqueuer.tasks, 1)
	task := f.enqueuer.tasks[0]
	assert.Equal(t, tasks.TypeRoomDeactivateOwner, task.Type())

	var payload tasks.RoomDeactivateOwnerPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, uint(7), payload.OwnerID)
	f.userRepo.AssertExpectations(t)
}

func TestAccountHandler_DeactivateRequiresConfirmation(t *testing.T) {
	f := newAccountFixture(t)

	w := f.post(t, httpHandler.DeactivateRequest{Password: "hunter2", Confirm: false})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.enqueuer.tasks)
}

func TestAccountHandler_DeactivateRejectsWrongPassword(t *testing.T) {
	f := newAccountFixture(t)
	user := deactivatableUser(t, "hunter2")
	user.ID = 7
	f.userRepo.On("FindByID", mock.Anything, uint(7)).Return(user, nil)

	w := f.post(t, httpHandler.DeactivateRequest{Password: "wrong", Confirm: true})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, f.enqueuer.tasks)
	f.userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
