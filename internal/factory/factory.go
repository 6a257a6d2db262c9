package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/JupiterPi/verse/internal/dependencies/clock"
	"github.com/JupiterPi/verse/internal/dependencies/random"
	"github.com/JupiterPi/verse/internal/membership"
	"github.com/JupiterPi/verse/internal/services/game"
	"github.com/JupiterPi/verse/internal/services/joincode"
	"github.com/JupiterPi/verse/internal/storage"
	"github.com/JupiterPi/verse/internal/storage/memory"
	redisstorage "github.com/JupiterPi/verse/internal/storage/redis"
	"github.com/JupiterPi/verse/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Persistence
	Gateway storage.Gateway

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Membership ingress / queries
	Members *membership.MemoryProvider

	// Services
	JoinCodes *joincode.Service
	Registry  *game.Registry

	// Game websocket handler
	GameSocket *ws.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// JoinCodeConfig holds join code settings (optional)
	// If zero value, defaults to joincode.DefaultConfig()
	JoinCodeConfig joincode.Config
	// StorageType selects the persistence backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var gateway storage.Gateway
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		gateway = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisGateway, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		gateway = redisGateway
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	codeCfg := cfg.JoinCodeConfig
	if codeCfg.TTL == 0 {
		codeCfg = joincode.DefaultConfig()
	}

	return newWithDependencies(gateway, clk, rnd, codeCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(gateway storage.Gateway, clk clock.Clock, rnd random.Random, codeCfg joincode.Config, logger *slog.Logger) *App {
	members := membership.NewMemoryProvider(logger)
	joinCodes := joincode.New(clk, rnd, codeCfg, logger)
	registry := game.NewRegistry(gateway, members, clk, logger)

	// Membership changes drive evictions and roster re-broadcasts.
	members.SetListener(registry)

	gameSocket := ws.NewHandler(joinCodes, registry, members, logger)

	return &App{
		Gateway:    gateway,
		Clock:      clk,
		Random:     rnd,
		Members:    members,
		JoinCodes:  joinCodes,
		Registry:   registry,
		GameSocket: gameSocket,
	}
}
