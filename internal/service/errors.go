package service

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrRoomNotFound         = errors.New("room not found")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: username or email already exists")
	ErrWrongPassword        = errors.New("wrong room password")
	ErrInvalidInput         = errors.New("invalid input")
	ErrAccountDeactivated   = errors.New("account is deactivated")
	ErrInternalServer       = errors.New("internal server error")
)
