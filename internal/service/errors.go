package service

import "errors"

var (
	// ErrInvalidAddress marks a caller-supplied address that is not valid hex.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrChallengeNotFound marks a lookup for an unknown instance address.
	ErrChallengeNotFound = errors.New("challenge not found")
)
