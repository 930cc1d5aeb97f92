package service

import "errors"

var (
	// ErrInvalidInput marks request payloads that pass struct validation but
	// fail semantic checks, like content that sanitizes to nothing.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForumForbidden indicates the user attempted an operation on a topic
	// they do not own without moderator rights.
	ErrForumForbidden = errors.New("insufficient permissions for forum operation")

	// ErrEmptyUpdate indicates a partial update carried no whitelisted field.
	ErrEmptyUpdate = errors.New("no updatable fields provided")

	// ErrToggleConflict indicates a like toggle kept colliding with
	// concurrent toggles and ran out of retries.
	ErrToggleConflict = errors.New("like toggle conflicted with a concurrent update")
)
