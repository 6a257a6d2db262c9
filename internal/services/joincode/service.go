package joincode

import (
	"log/slog"
	"sync"
	"time"

	"github.com/JupiterPi/verse/internal/dependencies/clock"
	"github.com/JupiterPi/verse/internal/dependencies/random"
	"github.com/JupiterPi/verse/internal/model"
)

const (
	// CodeLength is the length of generated join codes
	CodeLength = 8
	// CodeAlphabet is the characters used in join codes
	CodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Grant is what a redeemed join code entitles its holder to: joining one
// group's session as one identity.
type Grant struct {
	Code      string
	UserID    model.PlayerID
	GroupID   model.GroupID
	ExpiresAt time.Time
}

// Config holds configuration for the join code service
type Config struct {
	// TTL is how long an issued code stays redeemable.
	TTL time.Duration
}

// DefaultConfig returns default join code configuration
func DefaultConfig() Config {
	return Config{
		TTL: 5 * time.Minute,
	}
}

// Service issues and redeems short-lived, single-use join codes. Codes are
// removed the instant they are redeemed, successfully or not, so each code
// admits at most one connection.
type Service struct {
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
	ttl    time.Duration

	mu    sync.Mutex
	codes map[string]Grant
}

// New creates a new join code service
func New(clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.TTL == 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	return &Service{
		clock:  clk,
		random: rnd,
		logger: logger.With(slog.String("component", "joincode")),
		ttl:    cfg.TTL,
		codes:  make(map[string]Grant),
	}
}

// Create issues a new join code for the user to join the group's session.
// Collisions are not handled beyond the size of the random space.
func (s *Service) Create(userID model.PlayerID, groupID model.GroupID) Grant {
	grant := Grant{
		Code:      s.random.String(CodeLength, CodeAlphabet),
		UserID:    userID,
		GroupID:   groupID,
		ExpiresAt: s.clock.Now().Add(s.ttl),
	}

	s.mu.Lock()
	s.codes[grant.Code] = grant
	s.mu.Unlock()

	s.logger.Info("join code issued",
		slog.String("user_id", string(userID)),
		slog.String("group_id", string(groupID)),
		slog.Time("expires_at", grant.ExpiresAt))

	return grant
}

// Redeem consumes a join code. The code is removed whether or not redemption
// succeeds; unknown, already-redeemed and expired codes all fail with
// model.ErrInvalidCode.
func (s *Service) Redeem(code string) (Grant, error) {
	s.mu.Lock()
	grant, ok := s.codes[code]
	if ok {
		delete(s.codes, code)
	}
	s.mu.Unlock()

	if !ok {
		return Grant{}, model.ErrInvalidCode
	}
	if s.clock.Now().After(grant.ExpiresAt) {
		return Grant{}, model.ErrInvalidCode
	}
	return grant, nil
}

// CleanExpired removes expired codes (call periodically). Redemption already
// rejects expired codes; this only bounds memory.
func (s *Service) CleanExpired() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for code, grant := range s.codes {
		if now.After(grant.ExpiresAt) {
			delete(s.codes, code)
		}
	}
}
