package joincode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/JupiterPi/verse/internal/dependencies/mocks"
	"github.com/JupiterPi/verse/internal/model"
	"github.com/JupiterPi/verse/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.clock, s.random, DefaultConfig(), testutil.NopLogger())
}

func (s *ServiceSuite) TestCreateUsesGeneratedCode() {
	s.random.QueueString("a1b2c3d4")

	grant := s.service.Create("user-1", "group-1")

	s.Equal("a1b2c3d4", grant.Code)
	s.Equal(model.PlayerID("user-1"), grant.UserID)
	s.Equal(model.GroupID("group-1"), grant.GroupID)
	s.Equal(s.clock.Now().Add(5*time.Minute), grant.ExpiresAt)
}

func (s *ServiceSuite) TestRedeemReturnsGrant() {
	s.random.QueueString("a1b2c3d4")
	s.service.Create("user-1", "group-1")

	grant, err := s.service.Redeem("a1b2c3d4")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("user-1"), grant.UserID)
	s.Equal(model.GroupID("group-1"), grant.GroupID)
}

func (s *ServiceSuite) TestRedeemIsSingleUse() {
	s.random.QueueString("a1b2c3d4")
	s.service.Create("user-1", "group-1")

	_, err := s.service.Redeem("a1b2c3d4")
	s.Require().NoError(err)

	_, err = s.service.Redeem("a1b2c3d4")
	s.ErrorIs(err, model.ErrInvalidCode)
}

func (s *ServiceSuite) TestRedeemUnknownCodeFails() {
	_, err := s.service.Redeem("nosuchcd")
	s.ErrorIs(err, model.ErrInvalidCode)
}

func (s *ServiceSuite) TestRedeemExpiredCodeFails() {
	s.random.QueueString("a1b2c3d4")
	s.service.Create("user-1", "group-1")

	s.clock.Advance(5*time.Minute + time.Second)

	_, err := s.service.Redeem("a1b2c3d4")
	s.ErrorIs(err, model.ErrInvalidCode)
}

func (s *ServiceSuite) TestRedeemExpiredCodeConsumesIt() {
	s.random.QueueString("a1b2c3d4")
	s.service.Create("user-1", "group-1")

	s.clock.Advance(10 * time.Minute)
	_, _ = s.service.Redeem("a1b2c3d4")

	// Rewinding the clock must not revive the code.
	s.clock.Set(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	_, err := s.service.Redeem("a1b2c3d4")
	s.ErrorIs(err, model.ErrInvalidCode)
}

func (s *ServiceSuite) TestRedeemAtExactExpirySucceeds() {
	s.random.QueueString("a1b2c3d4")
	s.service.Create("user-1", "group-1")

	s.clock.Advance(5 * time.Minute)

	_, err := s.service.Redeem("a1b2c3d4")
	s.NoError(err)
}

func (s *ServiceSuite) TestCustomTTL() {
	service := New(s.clock, s.random, Config{TTL: time.Minute}, testutil.NopLogger())
	s.random.QueueString("a1b2c3d4")
	service.Create("user-1", "group-1")

	s.clock.Advance(2 * time.Minute)

	_, err := service.Redeem("a1b2c3d4")
	s.ErrorIs(err, model.ErrInvalidCode)
}

func (s *ServiceSuite) TestCodesAreIndependent() {
	s.random.QueueString("code0001", "code0002")
	s.service.Create("user-1", "group-1")
	s.service.Create("user-2", "group-2")

	grant, err := s.service.Redeem("code0002")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("user-2"), grant.UserID)

	grant, err = s.service.Redeem("code0001")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("user-1"), grant.UserID)
}

func (s *ServiceSuite) TestCleanExpiredRemovesOnlyExpired() {
	s.random.QueueString("oldcode1", "newcode1")
	s.service.Create("user-1", "group-1")
	s.clock.Advance(4 * time.Minute)
	s.service.Create("user-2", "group-2")
	s.clock.Advance(2 * time.Minute)

	s.service.CleanExpired()

	_, err := s.service.Redeem("oldcode1")
	s.ErrorIs(err, model.ErrInvalidCode)
	_, err = s.service.Redeem("newcode1")
	s.NoError(err)
}
