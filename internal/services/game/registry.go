package game

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/JupiterPi/verse/internal/dependencies/clock"
	"github.com/JupiterPi/verse/internal/membership"
	"github.com/JupiterPi/verse/internal/model"
	"github.com/JupiterPi/verse/internal/protocol"
	"github.com/JupiterPi/verse/internal/storage"
)

// Registry is the process-wide group → session table. Sessions are created on
// first join, seeded from the persistence gateway, and removed (with their
// offline roster persisted) when the last online player leaves.
type Registry struct {
	gateway storage.Gateway
	members membership.Provider
	clock   clock.Clock
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[model.GroupID]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry(gateway storage.Gateway, members membership.Provider, clk clock.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		gateway:  gateway,
		members:  members,
		clock:    clk,
		logger:   logger.With(slog.String("component", "registry")),
		sessions: make(map[model.GroupID]*Session),
	}
}

// Resolve returns the group's session, creating one seeded from the saved
// roster if none is live. Get-or-create is atomic: concurrent first joins to
// the same group share one session. The gateway load happens under the
// registry lock, which is acceptable because creation is rare and a second
// concurrent creation for the same group must not happen.
func (r *Registry) Resolve(ctx context.Context, group model.GroupID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[group]; ok {
		return s, nil
	}

	saved, err := r.gateway.LoadRoster(ctx, group)
	var offline []model.OfflinePlayer
	switch {
	case errors.Is(err, model.ErrRosterNotFound):
		// First session ever for this group.
	case err != nil:
		return nil, err
	case saved.Version != model.RosterVersion:
		r.logger.Warn("ignoring saved roster with unknown version",
			slog.String("group", string(group)),
			slog.Int("version", saved.Version))
	default:
		offline = saved.Players
	}

	s := newSession(group, offline, r.members, r.logger)
	r.sessions[group] = s
	r.logger.Info("session created",
		slog.String("group", string(group)),
		slog.Int("restored_players", len(offline)))
	return s, nil
}

// Get returns the live session for a group, or nil.
func (r *Registry) Get(group model.GroupID) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[group]
}

// Teardown removes the session and persists its offline roster. Only an
// empty session is torn down: if a join won the race since the last leave,
// the session stays live and nothing is persisted. The session is marked
// closed before it leaves the registry, so a join still holding the old
// pointer is rejected with model.ErrSessionClosed and must re-resolve.
func (r *Registry) Teardown(ctx context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sessions[s.Group()] != s {
		return nil // already torn down
	}
	if !s.closeIfEmpty() {
		return nil
	}

	roster := &model.SavedRoster{
		Version: model.RosterVersion,
		GroupID: s.Group(),
		SavedAt: r.clock.Now().UnixMilli(),
		Players: s.OfflineRoster(),
	}
	if err := r.gateway.SaveRoster(ctx, roster); err != nil {
		s.reopen()
		return err
	}

	delete(r.sessions, s.Group())
	r.logger.Info("session torn down",
		slog.String("group", string(s.Group())),
		slog.Int("persisted_players", len(roster.Players)))
	return nil
}

// HandleMembershipEvent reacts to changes in the tracked voice rooms: a
// player who left their room is evicted from the group's session, and any
// roster change re-broadcasts so availablePlayers stays current.
func (r *Registry) HandleMembershipEvent(ctx context.Context, ev membership.Event) {
	s := r.Get(ev.Group)
	if s == nil {
		return
	}

	switch ev.Kind {
	case membership.EventMemberLeft:
		s.Kick(ev.Member, protocol.CloseLeftChannel)
	case membership.EventRosterChanged:
		if err := s.Broadcast(ctx); err != nil {
			r.logger.Warn("roster change broadcast failed",
				slog.String("group", string(ev.Group)),
				slog.String("error", err.Error()))
		}
	}
}

var _ membership.Listener = (*Registry)(nil)
