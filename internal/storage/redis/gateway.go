package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JupiterPi/verse/internal/model"
	"github.com/JupiterPi/verse/internal/storage"
)

// Gateway is a Redis-backed implementation of the persistence gateway.
// Rosters are stored as opaque JSON blobs keyed by group.
type Gateway struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis gateway and verifies the connection.
func New(cfg Config) (*Gateway, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Gateway{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis gateway with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Gateway {
	return &Gateway{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (g *Gateway) Close() error {
	return g.client.Close()
}

var _ storage.Gateway = (*Gateway)(nil)

// LoadRoster returns the last saved roster for the group.
func (g *Gateway) LoadRoster(ctx context.Context, group model.GroupID) (*model.SavedRoster, error) {
	data, err := g.client.Get(ctx, rosterKey(group)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRosterNotFound
		}
		return nil, err
	}

	var roster model.SavedRoster
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, err
	}
	return &roster, nil
}

// SaveRoster overwrites the saved roster for roster.GroupID.
func (g *Gateway) SaveRoster(ctx context.Context, roster *model.SavedRoster) error {
	data, err := json.Marshal(roster)
	if err != nil {
		return err
	}

	return g.client.Set(ctx, rosterKey(roster.GroupID), data, g.cfg.RosterTTL).Err()
}
