package model

// RosterVersion is the current version of the persisted roster format.
// There is no migration: a saved roster with a different version loads as
// empty rather than failing the join.
const RosterVersion = 1

// SavedRoster is the durable snapshot of a session's offline players, written
// exactly once when the last online player leaves and read back when the
// group's next session is created.
type SavedRoster struct {
	Version int             `json:"version"`
	GroupID GroupID         `json:"groupId"`
	SavedAt int64           `json:"savedAt"` // epoch millis
	Players []OfflinePlayer `json:"players"`
}
