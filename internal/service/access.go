package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/SpiderKate/BeevyApp/internal/domain"
	"github.com/SpiderKate/BeevyApp/internal/repository"
)

// Decision is the outcome of a room authorization attempt.
type Decision int

const (
	// DecisionAllowed grants access; the room is in the verified-room set.
	DecisionAllowed Decision = iota
	// DecisionWrongPassword rejects the supplied password. The caller may
	// retry; there is deliberately no lockout or rate limiting here.
	DecisionWrongPassword
	// DecisionPasswordRequired means the room is private, unverified, and no
	// password was supplied. The caller must prompt for one.
	DecisionPasswordRequired
)

// AccessService decides whether a session may join or draw in a room. The
// verified-room set lives in the session store and is read fresh on every
// check; nothing here is cached per connection.
type AccessService struct {
	sessionRepo repository.SessionRepository
}

// NewAccessService creates an AccessService.
func NewAccessService(sessionRepo repository.SessionRepository) *AccessService {
	if sessionRepo == nil {
		panic("SessionRepository cannot be nil for AccessService")
	}
	return &AccessService{sessionRepo: sessionRepo}
}

// Authorize evaluates a join attempt for the given room. On DecisionAllowed
// the room id is added to the user's verified-room set (idempotently). A
// wrong password never mutates any stored state.
func (s *AccessService) Authorize(ctx context.Context, userID uint, room *domain.Room, password string) (Decision, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": room.RoomID})

	if room.IsPublic {
		if err := s.sessionRepo.AddVerifiedRoom(ctx, userID, room.RoomID); err != nil {
			logCtx.WithError(err).Error("Failed to record public room in verified set")
			return DecisionPasswordRequired, ErrInternalServer
		}
		return DecisionAllowed, nil
	}

	verified, err := s.sessionRepo.IsRoomVerified(ctx, userID, room.RoomID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to read verified-room set")
		return DecisionPasswordRequired, ErrInternalServer
	}
	if verified {
		return DecisionAllowed, nil
	}

	if password == "" {
		return DecisionPasswordRequired, nil
	}

	if !checkPassword(password, room.PasswordHash) {
		logCtx.Warn("Room password mismatch")
		return DecisionWrongPassword, nil
	}

	if err := s.sessionRepo.AddVerifiedRoom(ctx, userID, room.RoomID); err != nil {
		logCtx.WithError(err).Error("Failed to record verified room after password match")
		return DecisionPasswordRequired, ErrInternalServer
	}
	logCtx.Info("Room password verified")
	return DecisionAllowed, nil
}

// CanDraw reports whether the user may publish draw events to the room right
// now. The verified-room set can change between a connection's join and later
// draw events, so this is re-evaluated from the store on every call.
func (s *AccessService) CanDraw(ctx context.Context, userID uint, roomID string) bool {
	verified, err := s.sessionRepo.IsRoomVerified(ctx, userID, roomID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"room_id": roomID,
		}).Error("Failed to check draw authorization, denying")
		return false
	}
	return verified
}
