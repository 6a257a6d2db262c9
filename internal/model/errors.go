package model

import "errors"

// Common errors used across the application
var (
	// Join code errors
	ErrInvalidCode = errors.New("invalid join code")

	// Session errors
	ErrNotAMember       = errors.New("player is not a member of the voice group")
	ErrAlreadyJoined    = errors.New("player is already joined")
	ErrNotJoined        = errors.New("player is not joined")
	ErrPaletteExhausted = errors.New("no free colors left in the palette")
	ErrSessionClosed    = errors.New("session has been torn down")

	// Persistence errors
	ErrRosterNotFound = errors.New("no saved roster for group")

	// Membership errors
	ErrGroupNotFound = errors.New("group not found")
)
