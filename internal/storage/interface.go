package storage

import (
	"context"

	"github.com/JupiterPi/verse/internal/model"
)

// Gateway persists a group's offline roster across session teardown. The
// roster is written exactly once per teardown as a whole snapshot; there is
// no incremental persistence.
type Gateway interface {
	// LoadRoster returns the last saved roster for the group, or
	// model.ErrRosterNotFound if the group was never persisted. Safe to call
	// repeatedly for any group.
	LoadRoster(ctx context.Context, group model.GroupID) (*model.SavedRoster, error)

	// SaveRoster overwrites the saved roster for roster.GroupID.
	SaveRoster(ctx context.Context, roster *model.SavedRoster) error
}
