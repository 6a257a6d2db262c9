package membership

import (
	"context"
	"log/slog"
	"sync"

	"github.com/JupiterPi/verse/internal/model"
)

// MemoryProvider holds group rosters pushed in by the external membership
// source. SetMembers replaces a group's roster and notifies the listener
// about the resulting changes.
type MemoryProvider struct {
	logger *slog.Logger

	mu       sync.RWMutex
	groups   map[model.GroupID][]Member
	listener Listener
}

var _ Provider = (*MemoryProvider)(nil)

// NewMemoryProvider creates an empty provider.
func NewMemoryProvider(logger *slog.Logger) *MemoryProvider {
	return &MemoryProvider{
		logger: logger.With(slog.String("component", "membership")),
		groups: make(map[model.GroupID][]Member),
	}
}

// SetListener registers the listener notified about roster changes.
// Must be called during wiring, before rosters are pushed.
func (p *MemoryProvider) SetListener(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listener = l
}

// IsMember reports whether the player is currently present in the group.
func (p *MemoryProvider) IsMember(_ context.Context, group model.GroupID, id model.PlayerID) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, m := range p.groups[group] {
		if m.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// Members returns the group's current roster.
func (p *MemoryProvider) Members(_ context.Context, group model.GroupID) ([]Member, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	members := make([]Member, len(p.groups[group]))
	copy(members, p.groups[group])
	return members, nil
}

// Member returns a single member of the group.
func (p *MemoryProvider) Member(_ context.Context, group model.GroupID, id model.PlayerID) (Member, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, m := range p.groups[group] {
		if m.ID == id {
			return m, nil
		}
	}
	return Member{}, model.ErrNotAMember
}

// SetMembers replaces the group's roster. Players present before but absent
// now produce one EventMemberLeft each; any difference at all produces a
// single EventRosterChanged. Events are delivered synchronously so a caller's
// next query observes the new roster.
func (p *MemoryProvider) SetMembers(ctx context.Context, group model.GroupID, members []Member) {
	p.mu.Lock()
	previous := p.groups[group]
	roster := make([]Member, len(members))
	copy(roster, members)
	p.groups[group] = roster
	listener := p.listener
	p.mu.Unlock()

	var left []model.PlayerID
	for _, old := range previous {
		if !containsMember(roster, old.ID) {
			left = append(left, old.ID)
		}
	}

	changed := len(left) > 0 || len(roster) != len(previous)
	if !changed {
		for _, m := range roster {
			if !containsMember(previous, m.ID) {
				changed = true
				break
			}
		}
	}

	p.logger.Info("roster updated",
		slog.String("group", string(group)),
		slog.Int("members", len(roster)),
		slog.Int("left", len(left)))

	if listener == nil || !changed {
		return
	}
	for _, id := range left {
		listener.HandleMembershipEvent(ctx, Event{Kind: EventMemberLeft, Group: group, Member: id})
	}
	listener.HandleMembershipEvent(ctx, Event{Kind: EventRosterChanged, Group: group})
}

func containsMember(members []Member, id model.PlayerID) bool {
	for _, m := range members {
		if m.ID == id {
			return true
		}
	}
	return false
}
