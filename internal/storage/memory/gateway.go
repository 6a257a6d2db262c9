package memory

import (
	"context"
	"sync"

	"github.com/JupiterPi/verse/internal/model"
	"github.com/JupiterPi/verse/internal/storage"
)

// Gateway is an in-memory implementation of the persistence gateway. Rosters
// survive session teardown but not process restarts.
type Gateway struct {
	mu      sync.RWMutex
	rosters map[model.GroupID]*model.SavedRoster
}

// New creates a new in-memory gateway.
func New() *Gateway {
	return &Gateway{
		rosters: make(map[model.GroupID]*model.SavedRoster),
	}
}

var _ storage.Gateway = (*Gateway)(nil)

// LoadRoster returns the last saved roster for the group.
func (g *Gateway) LoadRoster(_ context.Context, group model.GroupID) (*model.SavedRoster, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	roster, ok := g.rosters[group]
	if !ok {
		return nil, model.ErrRosterNotFound
	}
	copied := *roster
	copied.Players = append([]model.OfflinePlayer(nil), roster.Players...)
	return &copied, nil
}

// SaveRoster overwrites the saved roster for roster.GroupID.
func (g *Gateway) SaveRoster(_ context.Context, roster *model.SavedRoster) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	copied := *roster
	copied.Players = append([]model.OfflinePlayer(nil), roster.Players...)
	g.rosters[roster.GroupID] = &copied
	return nil
}
