package utils

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidSchedule    = errors.New("invalid schedule times")
	ErrCheckInNotFound    = errors.New("check-in not found")
	ErrContactNotFound    = errors.New("emergency contact not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrDatabaseError      = errors.New("database error")
)
