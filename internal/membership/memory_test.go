package membership

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/JupiterPi/verse/internal/model"
	"github.com/JupiterPi/verse/internal/testutil"
)

type recordingListener struct {
	events []Event
}

func (l *recordingListener) HandleMembershipEvent(_ context.Context, ev Event) {
	l.events = append(l.events, ev)
}

type MemoryProviderSuite struct {
	suite.Suite
	provider *MemoryProvider
	listener *recordingListener
	ctx      context.Context
}

func TestMemoryProviderSuite(t *testing.T) {
	suite.Run(t, new(MemoryProviderSuite))
}

func (s *MemoryProviderSuite) SetupTest() {
	s.provider = NewMemoryProvider(testutil.NopLogger())
	s.listener = &recordingListener{}
	s.provider.SetListener(s.listener)
	s.ctx = context.Background()
}

func (s *MemoryProviderSuite) TestIsMember() {
	s.provider.SetMembers(s.ctx, "group-1", []Member{{ID: "a", Name: "Alice"}})

	ok, err := s.provider.IsMember(s.ctx, "group-1", "a")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.provider.IsMember(s.ctx, "group-1", "b")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *MemoryProviderSuite) TestMembersOfUnknownGroupIsEmpty() {
	members, err := s.provider.Members(s.ctx, "group-1")
	s.Require().NoError(err)
	s.Empty(members)
}

func (s *MemoryProviderSuite) TestMemberLookup() {
	s.provider.SetMembers(s.ctx, "group-1", []Member{
		{ID: "a", Name: "Alice", AvatarURL: "https://cdn.example/a.png"},
	})

	member, err := s.provider.Member(s.ctx, "group-1", "a")
	s.Require().NoError(err)
	s.Equal("Alice", member.Name)
	s.Equal("https://cdn.example/a.png", member.AvatarURL)

	_, err = s.provider.Member(s.ctx, "group-1", "b")
	s.ErrorIs(err, model.ErrNotAMember)
}

func (s *MemoryProviderSuite) TestSetMembersEmitsRosterChanged() {
	s.provider.SetMembers(s.ctx, "group-1", []Member{{ID: "a", Name: "Alice"}})

	s.Require().Len(s.listener.events, 1)
	s.Equal(EventRosterChanged, s.listener.events[0].Kind)
	s.Equal(model.GroupID("group-1"), s.listener.events[0].Group)
}

func (s *MemoryProviderSuite) TestSetMembersEmitsMemberLeftPerDeparture() {
	s.provider.SetMembers(s.ctx, "group-1", []Member{
		{ID: "a", Name: "Alice"},
		{ID: "b", Name: "Bob"},
		{ID: "c", Name: "Carol"},
	})
	s.listener.events = nil

	s.provider.SetMembers(s.ctx, "group-1", []Member{{ID: "b", Name: "Bob"}})

	s.Require().Len(s.listener.events, 3)
	s.Equal(EventMemberLeft, s.listener.events[0].Kind)
	s.Equal(EventMemberLeft, s.listener.events[1].Kind)
	left := []model.PlayerID{s.listener.events[0].Member, s.listener.events[1].Member}
	s.ElementsMatch([]model.PlayerID{"a", "c"}, left)
	s.Equal(EventRosterChanged, s.listener.events[2].Kind)
}

func (s *MemoryProviderSuite) TestSetMembersWithSameRosterEmitsNothing() {
	roster := []Member{{ID: "a", Name: "Alice"}}
	s.provider.SetMembers(s.ctx, "group-1", roster)
	s.listener.events = nil

	s.provider.SetMembers(s.ctx, "group-1", roster)
	s.Empty(s.listener.events)
}

func (s *MemoryProviderSuite) TestSetMembersSwapDetectedAsChange() {
	s.provider.SetMembers(s.ctx, "group-1", []Member{{ID: "a", Name: "Alice"}})
	s.listener.events = nil

	// Same size, different identity: one left, one arrived.
	s.provider.SetMembers(s.ctx, "group-1", []Member{{ID: "b", Name: "Bob"}})

	s.Require().Len(s.listener.events, 2)
	s.Equal(EventMemberLeft, s.listener.events[0].Kind)
	s.Equal(model.PlayerID("a"), s.listener.events[0].Member)
	s.Equal(EventRosterChanged, s.listener.events[1].Kind)
}

func (s *MemoryProviderSuite) TestListenerObservesUpdatedRoster() {
	s.provider.SetMembers(s.ctx, "group-1", []Member{{ID: "a", Name: "Alice"}})

	// Events are synchronous: by handler time the new roster is queryable.
	var observed []Member
	s.provider.SetListener(listenerFunc(func(ctx context.Context, ev Event) {
		observed, _ = s.provider.Members(ctx, ev.Group)
	}))
	s.provider.SetMembers(s.ctx, "group-1", nil)

	s.Empty(observed)
}

type listenerFunc func(ctx context.Context, ev Event)

func (f listenerFunc) HandleMembershipEvent(ctx context.Context, ev Event) {
	f(ctx, ev)
}
