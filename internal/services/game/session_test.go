package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/JupiterPi/verse/internal/membership"
	"github.com/JupiterPi/verse/internal/model"
	"github.com/JupiterPi/verse/internal/protocol"
	"github.com/JupiterPi/verse/internal/testutil"
)

// fakeConn records what the session pushes through a player's connection.
type fakeConn struct {
	frames  [][]byte
	kicks   []string
	sendErr error
}

func (c *fakeConn) Send(frame []byte) error {
	if c.sendErr != nil {
		return c.sendErr
	}
	c.frames = append(c.frames, frame)
	return nil
}

func (c *fakeConn) Kick(reason string) {
	c.kicks = append(c.kicks, reason)
}

type SessionSuite struct {
	suite.Suite
	members *membership.MemoryProvider
	session *Session
	ctx     context.Context
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.members = membership.NewMemoryProvider(testutil.NopLogger())
	s.session = newSession("group-1", nil, s.members, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *SessionSuite) join(id string) (Player, *fakeConn) {
	conn := &fakeConn{}
	player, err := s.session.Join(model.PlayerID(id), "Name "+id, conn)
	s.Require().NoError(err)
	return player, conn
}

// Join and color assignment

func (s *SessionSuite) TestJoinAssignsPaletteColorsInOrder() {
	first, _ := s.join("a")
	second, _ := s.join("b")
	third, _ := s.join("c")

	s.Equal(Palette[0], first.Color)
	s.Equal(Palette[1], second.Color)
	s.Equal(Palette[2], third.Color)
}

func (s *SessionSuite) TestConcurrentJoinsGetDistinctColors() {
	const joiners = 8

	players := make([]Player, joiners)
	errs := make([]error, joiners)
	var wg sync.WaitGroup
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("p%d", i)
			players[i], errs[i] = s.session.Join(model.PlayerID(id), "Name "+id, &fakeConn{})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		s.Require().NoError(err, "joiner %d", i)
	}

	colors := make(map[model.Color]struct{}, joiners)
	for _, player := range players {
		colors[player.Color] = struct{}{}
	}
	s.Len(colors, joiners)
}

func (s *SessionSuite) TestJoinStartsWithZeroState() {
	player, _ := s.join("a")

	s.Equal(model.PlayerState{}, player.State)
}

func (s *SessionSuite) TestJoinTwiceFails() {
	s.join("a")

	_, err := s.session.Join("a", "Name a", &fakeConn{})
	s.ErrorIs(err, model.ErrAlreadyJoined)
}

func (s *SessionSuite) TestJoinSkipsColorsHeldByOfflinePlayers() {
	s.join("a")
	s.join("b")
	s.session.Leave("a") // demoted, keeps Palette[0]

	player, _ := s.join("c")
	s.Equal(Palette[2], player.Color)
}

func (s *SessionSuite) TestJoinFailsWhenPaletteExhausted() {
	for i := range Palette {
		s.join(fmt.Sprintf("p%d", i))
	}

	_, err := s.session.Join("one-too-many", "Name", &fakeConn{})
	s.ErrorIs(err, model.ErrPaletteExhausted)
}

func (s *SessionSuite) TestOfflinePlayersCountTowardPaletteExhaustion() {
	for i := range Palette {
		s.join(fmt.Sprintf("p%d", i))
	}
	s.session.Leave("p0") // offline, still holds Palette[0]

	_, err := s.session.Join("extra", "Name", &fakeConn{})
	s.ErrorIs(err, model.ErrPaletteExhausted)
}

// Offline promotion and demotion

func (s *SessionSuite) TestLeaveDemotesToOfflineRoster() {
	s.join("a")
	s.join("b")

	cursor := &model.Vector3{X: 1}
	err := s.session.UpdateState("a", model.PlayerState{
		Position: model.Vector3{X: 3, Y: 4, Z: 5},
		Rotation: model.RadianRotation{Radians: 1.5},
		Cursor:   cursor,
	})
	s.Require().NoError(err)

	remaining := s.session.Leave("a")
	s.Equal(1, remaining)

	roster := s.session.OfflineRoster()
	s.Require().Len(roster, 1)
	s.Equal(model.PlayerID("a"), roster[0].UserID)
	s.Equal(Palette[0], roster[0].Color)
	s.Equal(model.Vector3{X: 3, Y: 4, Z: 5}, roster[0].Position)
	s.Equal(model.RadianRotation{Radians: 1.5}, roster[0].Rotation)
}

func (s *SessionSuite) TestLastLeaverIsDemotedToo() {
	s.join("a")
	_ = s.session.UpdateState("a", model.PlayerState{Position: model.Vector3{Z: 2}})

	remaining := s.session.Leave("a")
	s.Equal(0, remaining)

	roster := s.session.OfflineRoster()
	s.Require().Len(roster, 1)
	s.Equal(model.PlayerID("a"), roster[0].UserID)
	s.Equal(model.Vector3{Z: 2}, roster[0].Position)
}

func (s *SessionSuite) TestLeaveIsIdempotent() {
	s.join("a")
	s.join("b")

	s.session.Leave("a")
	remaining := s.session.Leave("a")

	s.Equal(1, remaining)
	s.Len(s.session.OfflineRoster(), 1)
}

func (s *SessionSuite) TestRejoinPromotesWithColorAndPose() {
	s.join("a")
	s.join("b")
	_ = s.session.UpdateState("a", model.PlayerState{
		Position: model.Vector3{X: 3},
		Rotation: model.RadianRotation{Radians: 2},
		Cursor:   &model.Vector3{X: 9},
	})
	s.session.Leave("a")

	player, _ := s.join("a")

	s.Equal(Palette[0], player.Color)
	s.Equal(model.Vector3{X: 3}, player.State.Position)
	s.Equal(model.RadianRotation{Radians: 2}, player.State.Rotation)
	s.Nil(player.State.Cursor)
	s.Empty(s.session.OfflineRoster())
}

func (s *SessionSuite) TestSavedRosterSeedsOfflinePlayers() {
	saved := []model.OfflinePlayer{
		{UserID: "a", Color: Palette[3], Position: model.Vector3{X: 7}, Rotation: model.RadianRotation{Radians: 1}},
	}
	session := newSession("group-2", saved, s.members, testutil.NopLogger())

	player, err := session.Join("a", "Name a", &fakeConn{})
	s.Require().NoError(err)
	s.Equal(Palette[3], player.Color)
	s.Equal(model.Vector3{X: 7}, player.State.Position)
}

// State updates

func (s *SessionSuite) TestUpdateStateRequiresOnlinePlayer() {
	err := s.session.UpdateState("ghost", model.PlayerState{})
	s.ErrorIs(err, model.ErrNotJoined)
}

// Snapshot and broadcast

func (s *SessionSuite) TestSnapshotListsPlayersInJoinOrder() {
	s.join("b")
	s.join("a")
	s.join("c")

	state, err := s.session.Snapshot(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(state.Players, 3)
	s.Equal(model.PlayerID("b"), state.Players[0].ID)
	s.Equal(model.PlayerID("a"), state.Players[1].ID)
	s.Equal(model.PlayerID("c"), state.Players[2].ID)
}

func (s *SessionSuite) TestSnapshotIncludesAvailablePlayers() {
	s.members.SetMembers(s.ctx, "group-1", []membership.Member{
		{ID: "a", Name: "Alice", AvatarURL: "https://cdn.example/a.png"},
		{ID: "b", Name: "Bob"},
	})

	state, err := s.session.Snapshot(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(state.AvailablePlayers, 2)
	s.Equal(protocol.AvailablePlayer{Name: "Alice", ID: "a", AvatarURL: "https://cdn.example/a.png"}, state.AvailablePlayers[0])
}

func (s *SessionSuite) TestSnapshotReflectsStateUpdates() {
	s.join("a")
	_ = s.session.UpdateState("a", model.PlayerState{Position: model.Vector3{Y: 2}})

	state, err := s.session.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.Vector3{Y: 2}, state.Players[0].State.Position)
}

func (s *SessionSuite) TestBroadcastReachesEveryPlayer() {
	_, connA := s.join("a")
	_, connB := s.join("b")

	err := s.session.Broadcast(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(connA.frames, 1)
	s.Require().Len(connB.frames, 1)

	var state protocol.GameState
	s.Require().NoError(json.Unmarshal(connA.frames[0], &state))
	s.Len(state.Players, 2)
}

func (s *SessionSuite) TestBroadcastSurvivesDroppedFrames() {
	_, connA := s.join("a")
	connA.sendErr = errors.New("queue full")
	_, connB := s.join("b")

	err := s.session.Broadcast(s.ctx)
	s.Require().NoError(err)
	s.Len(connB.frames, 1)
}

// Kick

func (s *SessionSuite) TestKickClosesConnectionWithReason() {
	_, conn := s.join("a")

	s.session.Kick("a", protocol.CloseLeftChannel)

	s.Equal([]string{protocol.CloseLeftChannel}, conn.kicks)
	// The player stays online until their read loop observes the close.
	s.Equal(1, s.session.OnlineCount())
}

func (s *SessionSuite) TestKickUnknownPlayerIsNoOp() {
	s.session.Kick("ghost", protocol.CloseLeftChannel)
	s.Equal(0, s.session.OnlineCount())
}
