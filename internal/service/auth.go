package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/SpiderKate/BeevyApp/internal/domain"
	"github.com/SpiderKate/BeevyApp/internal/repository"
)

// AuthService handles account registration, login and deactivation.
type AuthService struct {
	userRepo    repository.UserRepository
	roomRepo    repository.RoomRepository
	sessionRepo repository.SessionRepository
	jwtSecret   []byte
	jwtExpiry   time.Duration
}

// NewAuthService creates an AuthService. jwtSecretKey must come from
// configuration; jwtExpiryHours defaults to 24 when non-positive.
func NewAuthService(
	userRepo repository.UserRepository,
	roomRepo repository.RoomRepository,
	sessionRepo repository.SessionRepository,
	jwtSecretKey string,
	jwtExpiryHours int,
) (*AuthService, error) {
	if userRepo == nil || roomRepo == nil || sessionRepo == nil {
		panic("all repositories must be non-nil for AuthService")
	}
	if jwtSecretKey == "" {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	if jwtExpiryHours <= 0 {
		jwtExpiryHours = 24
	}
	return &AuthService{
		userRepo:    userRepo,
		roomRepo:    roomRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   []byte(jwtSecretKey),
		jwtExpiry:   time.Duration(jwtExpiryHours) * time.Hour,
	}, nil
}

// Register creates a new account.
func (s *AuthService) Register(ctx context.Context, username, password, email string) (*domain.User, error) {
	logCtx := logrus.WithFields(logrus.Fields{"username": username, "email": email})

	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, ErrInternalServer
	}

	user := &domain.User{
		Username: username,
		Password: hashedPassword,
		Email:    email,
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("Registration failed: username or email already exists")
			return nil, ErrRegistrationFailed
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	user.Password = "" // never return the hash
	return user, nil
}

// Login verifies the credentials and returns a signed JWT.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	logCtx := logrus.WithField("username", username)

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.WithError(err).Warn("Login attempt failed: user not found")
		} else {
			logCtx.WithError(err).Warn("Login attempt failed: error finding user")
		}
		return "", ErrAuthenticationFailed
	}
	if user == nil {
		logCtx.Warn("Login attempt failed: repository returned nil user without error")
		return "", ErrAuthenticationFailed
	}

	if !user.IsActive() {
		logCtx.Warn("Login attempt failed: account deactivated")
		return "", ErrAccountDeactivated
	}

	if !checkPassword(password, user.Password) {
		logCtx.Warn("Login attempt failed: invalid password")
		return "", ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate JWT token during login")
		return "", ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	return token, nil
}

// Deactivate soft-deletes the account after re-checking the password. The
// caller is responsible for enqueueing the room-deactivation task afterwards;
// rooms owned by the user go inactive as a side effect of this event.
func (s *AuthService) Deactivate(ctx context.Context, userID uint, password string) (*domain.User, error) {
	logCtx := logrus.WithField("user_id", userID)

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logCtx.WithError(err).Error("Failed to load user for deactivation")
		return nil, ErrInternalServer
	}

	if !checkPassword(password, user.Password) {
		logCtx.Warn("Deactivation refused: invalid password")
		return nil, ErrAuthenticationFailed
	}

	now := time.Now().UTC()
	user.DeactivatedAt = &now
	if err := s.userRepo.Save(ctx, user); err != nil {
		logCtx.WithError(err).Error("Failed to save deactivated user")
		return nil, ErrInternalServer
	}

	// Drop the volatile session state so stale verified rooms do not outlive
	// the account.
	if err := s.sessionRepo.ClearSession(ctx, userID); err != nil {
		logCtx.WithError(err).Warn("Failed to clear session state on deactivation")
	}

	logCtx.Info("User deactivated")
	return user, nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *AuthService) generateJWT(userID uint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}
