// Package ws implements the game websocket: the per-connection protocol loop
// that redeems a join code, joins the group's session and relays state
// updates until the connection closes.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/JupiterPi/verse/internal/membership"
	"github.com/JupiterPi/verse/internal/model"
	"github.com/JupiterPi/verse/internal/protocol"
	"github.com/JupiterPi/verse/internal/services/game"
	"github.com/JupiterPi/verse/internal/services/joincode"
)

// handshakeTimeout bounds how long a connection may sit in the handshake
// without presenting a join code.
const handshakeTimeout = 30 * time.Second

// Handler upgrades game connections and drives their protocol loop.
type Handler struct {
	codes    *joincode.Service
	registry *game.Registry
	members  membership.Provider
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates the game websocket handler.
func NewHandler(codes *joincode.Service, registry *game.Registry, members membership.Provider, logger *slog.Logger) *Handler {
	return &Handler{
		codes:    codes,
		registry: registry,
		members:  members,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The 3D client is served from a different origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws")),
	}
}

// ServeHTTP upgrades the connection and runs its protocol loop to completion
// on the handler goroutine.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	socket, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	conn := newConn(socket, h.logger)
	go conn.writePump()
	defer conn.close()

	h.serve(r.Context(), conn)
}

// serve walks the connection through Handshaking → Active → Closed.
func (h *Handler) serve(ctx context.Context, conn *Conn) {
	player, sess, ok := h.handshake(ctx, conn)
	if !ok {
		return
	}

	// Closed: whatever ends the loop, the player leaves exactly once and the
	// empty session is torn down. Persistence must finish even though the
	// request context dies with the connection.
	defer func() {
		teardownCtx := context.WithoutCancel(ctx)
		remaining := sess.Leave(player.ID)
		if err := sess.Broadcast(teardownCtx); err != nil {
			conn.logger.Warn("leave broadcast failed", slog.String("error", err.Error()))
		}
		if remaining == 0 {
			if err := h.registry.Teardown(teardownCtx, sess); err != nil {
				conn.logger.Error("session teardown failed",
					slog.String("group", string(sess.Group())),
					slog.String("error", err.Error()))
			}
		}
	}()

	h.active(ctx, conn, sess, player.ID)
}

// handshake redeems the join code and joins the session. On any policy
// failure the connection is closed with the matching reason and no player is
// ever created.
func (h *Handler) handshake(ctx context.Context, conn *Conn) (game.Player, *game.Session, bool) {
	_ = conn.socket.SetReadDeadline(time.Now().Add(handshakeTimeout))

	var join protocol.JoinRequest
	if err := conn.socket.ReadJSON(&join); err != nil {
		conn.logger.Info("handshake aborted", slog.String("error", err.Error()))
		return game.Player{}, nil, false
	}

	grant, err := h.codes.Redeem(join.JoinCode)
	if err != nil {
		conn.Kick(protocol.CloseInvalidCode)
		return game.Player{}, nil, false
	}

	member, err := h.members.Member(ctx, grant.GroupID, grant.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotAMember) {
			conn.Kick(protocol.CloseNotInChannel)
		} else {
			conn.logger.Error("membership lookup failed", slog.String("error", err.Error()))
			conn.close()
		}
		return game.Player{}, nil, false
	}

	var player game.Player
	var sess *game.Session
	for {
		var err error
		sess, err = h.registry.Resolve(ctx, grant.GroupID)
		if err != nil {
			conn.logger.Error("session resolve failed", slog.String("error", err.Error()))
			conn.close()
			return game.Player{}, nil, false
		}

		player, err = sess.Join(grant.UserID, member.Name, conn)
		if errors.Is(err, model.ErrSessionClosed) {
			// Lost the race against a last-player teardown; the next Resolve
			// mints a fresh session seeded from the persisted roster.
			continue
		}
		switch {
		case errors.Is(err, model.ErrAlreadyJoined):
			conn.Kick(protocol.CloseAlreadyJoined)
			return game.Player{}, nil, false
		case errors.Is(err, model.ErrPaletteExhausted):
			conn.Kick(protocol.CloseNoFreeColor)
			return game.Player{}, nil, false
		case err != nil:
			conn.logger.Error("join failed", slog.String("error", err.Error()))
			conn.close()
			return game.Player{}, nil, false
		}
		break
	}

	self := protocol.SelfInfo{
		Name:            player.Name,
		ID:              player.ID,
		Color:           player.Color,
		InitialPosition: player.State.Position,
		InitialRotation: player.State.Rotation,
	}
	frame, err := json.Marshal(self)
	if err == nil {
		err = conn.Send(frame)
	}
	if err != nil {
		conn.logger.Error("handshake reply failed", slog.String("error", err.Error()))
		// Fall through: the player is joined, the leave path cleans up.
	}

	if err := sess.Broadcast(ctx); err != nil {
		conn.logger.Warn("join broadcast failed", slog.String("error", err.Error()))
	}

	_ = conn.socket.SetReadDeadline(time.Time{})
	return player, sess, true
}

// active receives state updates and re-broadcasts until the transport
// closes. A frame that does not decode as a state update is a protocol error
// and closes the connection; it is not silently ignored.
func (h *Handler) active(ctx context.Context, conn *Conn, sess *game.Session, id model.PlayerID) {
	for {
		var update protocol.StateUpdate
		if err := conn.socket.ReadJSON(&update); err != nil {
			if isTransportClosed(err) {
				return
			}
			conn.Kick(protocol.CloseMalformedMessage)
			return
		}

		state := model.PlayerState{
			Position: update.Position,
			Rotation: update.Rotation,
			Cursor:   update.Cursor,
		}
		if err := sess.UpdateState(id, state); err != nil {
			return
		}
		if err := sess.Broadcast(ctx); err != nil {
			conn.logger.Warn("state broadcast failed", slog.String("error", err.Error()))
		}
	}
}

// isTransportClosed distinguishes a closed connection from a frame that
// failed to decode.
func isTransportClosed(err error) bool {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, net.ErrClosed)
}
