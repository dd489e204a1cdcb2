package domain

import "errors"

var (
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrNotAuthorized       = errors.New("not authorized")
	ErrSenderNotFound      = errors.New("sender not found")
	ErrReceiverNotFound    = errors.New("receiver not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrCourseNotFound      = errors.New("course instance not found")
	ErrSkillNotFound       = errors.New("skill not found")
	ErrInvalidStatus       = errors.New("invalid session status")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrSelfTransfer        = errors.New("sender and receiver are the same user")
)
