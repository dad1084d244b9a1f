package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SpiderKate/BeevyApp/internal/domain"
	redisstate "github.com/SpiderKate/BeevyApp/internal/infra/state/redis"
	"github.com/SpiderKate/BeevyApp/internal/repository"
	"github.com/SpiderKate/BeevyApp/internal/service"
)

// newAccessService wires an AccessService against a miniredis-backed session
// repository, so the verified-room set behaves exactly like production.
func newAccessService(t *testing.T) (*service.AccessService, repository.SessionRepository) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionRepo := redisstate.NewRedisSessionRepository(client, "bv:", time.Hour)
	return service.NewAccessService(sessionRepo), sessionRepo
}

func privateRoom(t *testing.T, roomID, password string) *domain.Room {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &domain.Room{
		RoomID:       roomID,
		Name:         "private room",
		PasswordHash: string(hash),
		IsPublic:     false,
		OwnerID:      1,
		IsActive:     true,
	}
}

func TestAccessService_PublicRoomAlwaysAllowed(t *testing.T) {
	accessService, _ := newAccessService(t)
	ctx := context.Background()
	room := &domain.Room{RoomID: "PUB1", Name: "public room", IsPublic: true, OwnerID: 1, IsActive: true}

	decision, err := accessService.Authorize(ctx, 42, room, "")
	require.NoError(t, err)
	assert.Equal(t, service.DecisionAllowed, decision)

	// Joining a public room unlocks drawing with no password.
	assert.True(t, accessService.CanDraw(ctx, 42, "PUB1"))
}

func TestAccessService_PrivateRoomPasswordFlow(t *testing.T) {
	accessService, _ := newAccessService(t)
	ctx := context.Background()
	room := privateRoom(t, "ABC123", "secret")

	// No password, not verified: prompt for one.
	decision, err := accessService.Authorize(ctx, 7, room, "")
	require.NoError(t, err)
	assert.Equal(t, service.DecisionPasswordRequired, decision)
	assert.False(t, accessService.CanDraw(ctx, 7, "ABC123"))

	// Wrong password: rejected, verified set untouched. Retry is allowed.
	decision, err = accessService.Authorize(ctx, 7, room, "bad-pass")
	require.NoError(t, err)
	assert.Equal(t, service.DecisionWrongPassword, decision)
	assert.False(t, accessService.CanDraw(ctx, 7, "ABC123"))

	// Correct password: allowed and remembered for the session.
	decision, err = accessService.Authorize(ctx, 7, room, "secret")
	require.NoError(t, err)
	assert.Equal(t, service.DecisionAllowed, decision)
	assert.True(t, accessService.CanDraw(ctx, 7, "ABC123"))

	// Once verified, no password is needed on later joins.
	decision, err = accessService.Authorize(ctx, 7, room, "")
	require.NoError(t, err)
	assert.Equal(t, service.DecisionAllowed, decision)
}

func TestAccessService_WrongPasswordDoesNotMutateVerifier(t *testing.T) {
	accessService, _ := newAccessService(t)
	ctx := context.Background()
	room := privateRoom(t, "ABC123", "secret")
	originalHash := room.PasswordHash

	_, err := accessService.Authorize(ctx, 7, room, "bad-pass")
	require.NoError(t, err)

	assert.Equal(t, originalHash, room.PasswordHash, "stored verifier must never change on mismatch")

	// The correct password still works afterwards.
	decision, err := accessService.Authorize(ctx, 7, room, "secret")
	require.NoError(t, err)
	assert.Equal(t, service.DecisionAllowed, decision)
}

func TestAccessService_VerificationIsPerUser(t *testing.T) {
	accessService, _ := newAccessService(t)
	ctx := context.Background()
	room := privateRoom(t, "ABC123", "secret")

	decision, err := accessService.Authorize(ctx, 1, room, "secret")
	require.NoError(t, err)
	require.Equal(t, service.DecisionAllowed, decision)

	assert.True(t, accessService.CanDraw(ctx, 1, "ABC123"))
	assert.False(t, accessService.CanDraw(ctx, 2, "ABC123"), "another user must not inherit the grant")
}

func TestAccessService_CanDrawReadsFreshState(t *testing.T) {
	accessService, sessionRepo := newAccessService(t)
	ctx := context.Background()

	// The HTTP join flow can unlock a room while a realtime connection for
	// the same user is already open; the next draw check must see it.
	assert.False(t, accessService.CanDraw(ctx, 3, "LATE1"))
	require.NoError(t, sessionRepo.AddVerifiedRoom(ctx, 3, "LATE1"))
	assert.True(t, accessService.CanDraw(ctx, 3, "LATE1"))
}
