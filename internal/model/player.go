package model

// PlayerID uniquely identifies a member of a voice group across the system.
// It is the identity reported by the external membership source (e.g. the
// Discord user ID), not something this server mints.
type PlayerID string

// GroupID identifies a voice group. Each group has at most one live session.
type GroupID string

// Color is a player's assigned display color as a CSS hex string
type Color string

// PlayerState is the client-reported pose within the shared space.
// The server applies updates verbatim; it does not validate poses.
type PlayerState struct {
	Position Vector3        `json:"position"`
	Rotation RadianRotation `json:"rotation"`
	// Cursor is the point the player is pointing at, absent when not pointing.
	Cursor *Vector3 `json:"cursor,omitempty"`
}

// OfflinePlayer is what remains of a player after they disconnect: identity,
// color and last pose. Transient fields (cursor, connection) are dropped on
// demotion.
type OfflinePlayer struct {
	UserID   PlayerID       `json:"userId"`
	Color    Color          `json:"color"`
	Position Vector3        `json:"position"`
	Rotation RadianRotation `json:"rotation"`
}
