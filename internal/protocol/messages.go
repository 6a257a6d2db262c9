// Package protocol defines the JSON frames exchanged over the game websocket.
// Frames are bare JSON objects, one object per websocket message; the
// direction and position in the handshake determine how a frame is decoded.
package protocol

import "github.com/JupiterPi/verse/internal/model"

// JoinRequest is the first frame a client sends after connecting.
type JoinRequest struct {
	JoinCode string `json:"joinCode"`
}

// SelfInfo is the handshake reply telling the joining player who they are
// in the session.
type SelfInfo struct {
	Name            string               `json:"name"`
	ID              model.PlayerID       `json:"id"`
	Color           model.Color          `json:"color"`
	InitialPosition model.Vector3        `json:"initialPosition"`
	InitialRotation model.RadianRotation `json:"initialRotation"`
}

// StateUpdate is sent by an active client whenever its pose changes.
type StateUpdate struct {
	Position model.Vector3        `json:"position"`
	Rotation model.RadianRotation `json:"rotation"`
	Cursor   *model.Vector3       `json:"cursor,omitempty"`
}

// PlayerInfo describes one online player within a GameState broadcast.
type PlayerInfo struct {
	Name  string            `json:"name"`
	ID    model.PlayerID    `json:"id"`
	Color model.Color       `json:"color"`
	State model.PlayerState `json:"state"`
}

// AvailablePlayer is a voice group member who could join the session.
type AvailablePlayer struct {
	Name      string         `json:"name"`
	ID        model.PlayerID `json:"id"`
	AvatarURL string         `json:"avatarUrl"`
}

// GameState is the full-state roster broadcast sent to every online player
// after each join, leave or state update. It is not a delta.
type GameState struct {
	Players          []PlayerInfo      `json:"players"`
	AvailablePlayers []AvailablePlayer `json:"availablePlayers"`
}
