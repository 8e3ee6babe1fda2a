package notify

import "errors"

var (
	// ErrInvalidRequest wraps every request validation failure.
	ErrInvalidRequest = errors.New("invalid notification request")

	ErrMissingUserID   = errors.New("user id is required")
	ErrUnknownEvent    = errors.New("unknown event")
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrMissingTitle    = errors.New("title is required")
	ErrTitleTooLong    = errors.New("title exceeds maximum length")
	ErrMissingMessage  = errors.New("message is required")
	ErrMessageTooLong  = errors.New("message exceeds maximum length")
	ErrUnknownChannel  = errors.New("unknown channel")

	// ErrRecordNotFound indicates the notification record does not exist.
	ErrRecordNotFound = errors.New("notification not found")
)
