package game

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/JupiterPi/verse/internal/membership"
	"github.com/JupiterPi/verse/internal/model"
	"github.com/JupiterPi/verse/internal/protocol"
)

// PlayerConn is the outbound half of a player's connection. The session never
// owns the transport; it only enqueues frames and can ask for a policy close.
type PlayerConn interface {
	// Send enqueues a frame for delivery. It must not block; a full send
	// queue returns an error and the frame is dropped.
	Send(frame []byte) error

	// Kick closes the connection with a policy-violation close frame carrying
	// the given reason. The normal read-loop teardown then runs as usual.
	Kick(reason string)
}

// Player is one online participant of a session. It exists for the duration
// of a single connection and is owned exclusively by its session.
type Player struct {
	ID    model.PlayerID
	Name  string
	Color model.Color
	State model.PlayerState

	conn PlayerConn
}

// Session owns one group's live roster. All roster mutation and every
// snapshot read go through the session mutex; concurrent joins, leaves and
// state updates on the same group are expected.
type Session struct {
	group   model.GroupID
	members membership.Provider
	logger  *slog.Logger

	mu      sync.Mutex
	closed  bool
	order   []model.PlayerID // online players in join order
	players map[model.PlayerID]*Player
	offline map[model.PlayerID]model.OfflinePlayer
}

func newSession(group model.GroupID, saved []model.OfflinePlayer, members membership.Provider, logger *slog.Logger) *Session {
	offline := make(map[model.PlayerID]model.OfflinePlayer, len(saved))
	for _, p := range saved {
		offline[p.UserID] = p
	}
	return &Session{
		group:   group,
		members: members,
		logger:  logger.With(slog.String("group", string(group))),
		players: make(map[model.PlayerID]*Player),
		offline: offline,
	}
}

// Group returns the group this session belongs to.
func (s *Session) Group() model.GroupID {
	return s.group
}

// Join adds an online player to the session, bound to the given connection.
// A player returning from the offline roster is promoted with their previous
// color and pose, cursor cleared; a new player takes the first free palette
// color. Returns a copy of the created player for the handshake reply.
// A session closed by registry teardown rejects joins with
// model.ErrSessionClosed; the caller must re-resolve through the registry.
func (s *Session) Join(id model.PlayerID, name string, conn PlayerConn) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Player{}, model.ErrSessionClosed
	}
	if _, online := s.players[id]; online {
		return Player{}, model.ErrAlreadyJoined
	}

	player := &Player{ID: id, Name: name, conn: conn}

	if prev, ok := s.offline[id]; ok {
		delete(s.offline, id)
		player.Color = prev.Color
		player.State = model.PlayerState{Position: prev.Position, Rotation: prev.Rotation}
	} else {
		color, err := s.freeColorLocked()
		if err != nil {
			return Player{}, err
		}
		player.Color = color
	}

	s.players[id] = player
	s.order = append(s.order, id)

	s.logger.Info("player joined",
		slog.String("player_id", string(id)),
		slog.String("color", string(player.Color)),
		slog.Int("online", len(s.players)))

	copied := *player
	copied.conn = nil
	return copied, nil
}

// freeColorLocked scans the palette in declared order for a color held by
// neither an online nor an offline player. Callers hold s.mu.
func (s *Session) freeColorLocked() (model.Color, error) {
	taken := make(map[model.Color]bool, len(s.players)+len(s.offline))
	for _, p := range s.players {
		taken[p.Color] = true
	}
	for _, p := range s.offline {
		taken[p.Color] = true
	}
	for _, c := range Palette {
		if !taken[c] {
			return c, nil
		}
	}
	return "", model.ErrPaletteExhausted
}

// UpdateState applies a client-reported pose verbatim.
func (s *Session) UpdateState(id model.PlayerID, state model.PlayerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.players[id]
	if !ok {
		return model.ErrNotJoined
	}
	player.State = state
	return nil
}

// Leave demotes the player from the online roster to the offline roster,
// keeping color and last pose and dropping the cursor. Idempotent: leaving
// twice is a no-op. Returns the number of players still online; at zero the
// caller must tear the session down through the registry, which persists the
// offline roster including this last departure.
func (s *Session) Leave(id model.PlayerID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.players[id]
	if !ok {
		return len(s.players)
	}

	delete(s.players, id)
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.offline[id] = model.OfflinePlayer{
		UserID:   id,
		Color:    player.Color,
		Position: player.State.Position,
		Rotation: player.State.Rotation,
	}

	s.logger.Info("player left",
		slog.String("player_id", string(id)),
		slog.Int("online", len(s.players)))

	return len(s.players)
}

// Kick asks the named player's connection for a policy close. The leave
// itself happens when that connection's read loop exits, so an eviction and
// a racing natural disconnect cannot double-process the player.
func (s *Session) Kick(id model.PlayerID, reason string) {
	s.mu.Lock()
	player, ok := s.players[id]
	s.mu.Unlock()

	if !ok {
		return
	}
	s.logger.Info("kicking player",
		slog.String("player_id", string(id)),
		slog.String("reason", reason))
	player.conn.Kick(reason)
}

// closeIfEmpty marks the session closed if no players are online. Checking
// emptiness and flipping the flag happen in one critical section, so a join
// racing a teardown either lands before the close (keeping the session live)
// or sees the closed flag and is rejected; it can never land in a session the
// registry is about to drop.
func (s *Session) closeIfEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.players) > 0 {
		return false
	}
	s.closed = true
	return true
}

// reopen clears the closed flag after a teardown that failed to persist.
func (s *Session) reopen() {
	s.mu.Lock()
	s.closed = false
	s.mu.Unlock()
}

// OnlineCount returns the number of online players.
func (s *Session) OnlineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// OfflineRoster returns the current offline roster for persistence.
func (s *Session) OfflineRoster() []model.OfflinePlayer {
	s.mu.Lock()
	defer s.mu.Unlock()

	roster := make([]model.OfflinePlayer, 0, len(s.offline))
	for _, p := range s.offline {
		roster = append(roster, p)
	}
	return roster
}

// Snapshot builds the full game state: every online player in join order,
// plus the group's current voice roster so clients can show who could join.
func (s *Session) Snapshot(ctx context.Context) (protocol.GameState, error) {
	// The provider may block on I/O; query it before taking the session lock.
	members, err := s.members.Members(ctx, s.group)
	if err != nil {
		return protocol.GameState{}, err
	}

	available := make([]protocol.AvailablePlayer, 0, len(members))
	for _, m := range members {
		available = append(available, protocol.AvailablePlayer{
			Name:      m.Name,
			ID:        m.ID,
			AvatarURL: m.AvatarURL,
		})
	}

	s.mu.Lock()
	players := make([]protocol.PlayerInfo, 0, len(s.order))
	for _, id := range s.order {
		p := s.players[id]
		players = append(players, protocol.PlayerInfo{
			Name:  p.Name,
			ID:    p.ID,
			Color: p.Color,
			State: p.State,
		})
	}
	s.mu.Unlock()

	return protocol.GameState{Players: players, AvailablePlayers: available}, nil
}

// Broadcast computes one snapshot and sends it to every online player. Full
// state, not a delta: the fan-out is O(players) per event, which is fine at
// voice-room sizes.
func (s *Session) Broadcast(ctx context.Context) error {
	state, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}

	frame, err := json.Marshal(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	conns := make([]*Player, 0, len(s.players))
	for _, p := range s.players {
		conns = append(conns, p)
	}
	s.mu.Unlock()

	for _, p := range conns {
		if err := p.conn.Send(frame); err != nil {
			s.logger.Warn("broadcast frame dropped",
				slog.String("player_id", string(p.ID)),
				slog.String("error", err.Error()))
		}
	}
	return nil
}
