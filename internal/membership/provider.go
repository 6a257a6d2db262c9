// Package membership is the boundary to the external source of truth about
// who is physically present in a voice group. The real source (a Discord bot
// watching voice channels) lives outside this server and pushes rosters in;
// sessions only ever see the two narrow interfaces below.
package membership

import (
	"context"

	"github.com/JupiterPi/verse/internal/model"
)

// Member is one person currently present in a voice group.
type Member struct {
	ID        model.PlayerID `json:"id"`
	Name      string         `json:"name"`
	AvatarURL string         `json:"avatar_url"`
}

// Provider answers queries about the current roster of a voice group.
type Provider interface {
	// IsMember reports whether the player is currently present in the group.
	IsMember(ctx context.Context, group model.GroupID, id model.PlayerID) (bool, error)

	// Members returns the group's current roster. Unknown groups return an
	// empty roster, not an error.
	Members(ctx context.Context, group model.GroupID) ([]Member, error)

	// Member returns a single member of the group, or model.ErrNotAMember.
	Member(ctx context.Context, group model.GroupID, id model.PlayerID) (Member, error)
}

// EventKind classifies membership change notifications.
type EventKind string

const (
	// EventMemberLeft fires once per player who left the voice group.
	EventMemberLeft EventKind = "member_left"
	// EventRosterChanged fires whenever the group's roster changed in any way.
	EventRosterChanged EventKind = "roster_changed"
)

// Event is a membership change notification.
type Event struct {
	Kind   EventKind
	Group  model.GroupID
	Member model.PlayerID // set for EventMemberLeft
}

// Listener receives membership change notifications. Events for one group are
// delivered sequentially in the order they occurred.
type Listener interface {
	HandleMembershipEvent(ctx context.Context, ev Event)
}
