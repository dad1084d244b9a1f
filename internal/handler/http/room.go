package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/SpiderKate/BeevyApp/internal/domain"
	"github.com/SpiderKate/BeevyApp/internal/service"
)

// RoomHandler serves room listing, creation and the join/canvas flow that
// feeds the verified-room set.
type RoomHandler struct {
	roomService   *service.RoomService
	accessService *service.AccessService
}

func NewRoomHandler(roomService *service.RoomService, accessService *service.AccessService) *RoomHandler {
	return &RoomHandler{roomService: roomService, accessService: accessService}
}

// RoomView is the public shape of a room. Password hashes never leave the
// service layer.
type RoomView struct {
	RoomID   string `json:"room_id"`
	Name     string `json:"name"`
	IsPublic bool   `json:"is_public"`
	OwnerID  uint   `json:"owner_id"`
}

func toRoomView(room *domain.Room) RoomView {
	return RoomView{
		RoomID:   room.RoomID,
		Name:     room.Name,
		IsPublic: room.IsPublic,
		OwnerID:  room.OwnerID,
	}
}

func toRoomViews(rooms []domain.Room) []RoomView {
	views := make([]RoomView, 0, len(rooms))
	for i := range rooms {
		views = append(views, toRoomView(&rooms[i]))
	}
	return views
}

// ListPublic handles GET /api/rooms.
func (h *RoomHandler) ListPublic(c *gin.Context) {
	rooms, err := h.roomService.ListPublicRooms(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Handler.ListPublic: Failed to list public rooms")
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"rooms": toRoomViews(rooms)})
}

// ListMine handles GET /api/rooms/mine.
func (h *RoomHandler) ListMine(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}

	rooms, err := h.roomService.ListOwnedRooms(c.Request.Context(), userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Handler.ListMine: Failed to list owned rooms")
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"rooms": toRoomViews(rooms)})
}

type CreateRoomRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=64"`
	Password string `json:"password"`
}

type CreateRoomResponse struct {
	Message string   `json:"message"`
	Room    RoomView `json:"room"`
}

// Create handles POST /api/rooms. A room without a password is public; one
// with a password is private.
func (h *RoomHandler) Create(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Create: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: name is required")
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), userID, req.Name, req.Password)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Handler.Create: Failed to create room")
		HandleServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"user_id":   userID,
		"room_id":   room.RoomID,
		"is_public": room.IsPublic,
	}).Info("Handler.Create: Room created")
	SuccessResponse(c, http.StatusCreated, CreateRoomResponse{
		Message: "Room created successfully",
		Room:    toRoomView(room),
	})
}

type JoinStatusResponse struct {
	Room             RoomView `json:"room"`
	PasswordRequired bool     `json:"password_required"`
}

// ShowJoin handles GET /api/rooms/:roomID/join. For a public room the caller
// is verified on the spot; for a private room the response says whether a
// password prompt is still needed.
func (h *RoomHandler) ShowJoin(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}
	roomID := c.Param("roomID")
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})

	room, err := h.roomService.ResolveRoom(c.Request.Context(), roomID)
	if err != nil {
		logCtx.WithError(err).Warn("Handler.ShowJoin: Room lookup failed")
		HandleServiceError(c, err)
		return
	}

	decision, err := h.accessService.Authorize(c.Request.Context(), userID, room, "")
	if err != nil {
		logCtx.WithError(err).Error("Handler.ShowJoin: Authorization check failed")
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, JoinStatusResponse{
		Room:             toRoomView(room),
		PasswordRequired: decision == service.DecisionPasswordRequired,
	})
}

type JoinRoomRequest struct {
	Password string `json:"password"`
}

type JoinRoomResponse struct {
	Message string   `json:"message"`
	Room    RoomView `json:"room"`
}

// SubmitJoin handles POST /api/rooms/:roomID/join. A correct password adds
// the room to the caller's verified-room set; a wrong one gets 403 and may
// simply be retried.
func (h *RoomHandler) SubmitJoin(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}
	roomID := c.Param("roomID")
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})

	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logCtx.WithError(err).Warn("Handler.SubmitJoin: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	room, err := h.roomService.ResolveRoom(c.Request.Context(), roomID)
	if err != nil {
		logCtx.WithError(err).Warn("Handler.SubmitJoin: Room lookup failed")
		HandleServiceError(c, err)
		return
	}

	decision, err := h.accessService.Authorize(c.Request.Context(), userID, room, req.Password)
	if err != nil {
		logCtx.WithError(err).Error("Handler.SubmitJoin: Authorization failed")
		HandleServiceError(c, err)
		return
	}

	switch decision {
	case service.DecisionAllowed:
		logCtx.Info("Handler.SubmitJoin: Room unlocked")
		SuccessResponse(c, http.StatusOK, JoinRoomResponse{
			Message: "Joined room",
			Room:    toRoomView(room),
		})
	case service.DecisionWrongPassword:
		ErrorResponse(c, http.StatusForbidden, "wrong password")
	default:
		ErrorResponse(c, http.StatusForbidden, "password required")
	}
}

// Canvas handles GET /api/rooms/:roomID/canvas. A caller who has not
// unlocked a private room is redirected to the join endpoint instead of
// getting the canvas.
func (h *RoomHandler) Canvas(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}
	roomID := c.Param("roomID")
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})

	room, err := h.roomService.ResolveRoom(c.Request.Context(), roomID)
	if err != nil {
		logCtx.WithError(err).Warn("Handler.Canvas: Room lookup failed")
		HandleServiceError(c, err)
		return
	}

	// Authorize verifies public rooms as a side effect, so a session that
	// lands here directly can draw right away. Unverified private rooms
	// go back to the join prompt.
	decision, err := h.accessService.Authorize(c.Request.Context(), userID, room, "")
	if err != nil {
		logCtx.WithError(err).Error("Handler.Canvas: Authorization check failed")
		HandleServiceError(c, err)
		return
	}
	if decision != service.DecisionAllowed {
		logCtx.Debug("Handler.Canvas: Unverified, redirecting to join")
		c.Redirect(http.StatusFound, fmt.Sprintf("/api/rooms/%s/join", room.RoomID))
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"room": toRoomView(room)})
}
