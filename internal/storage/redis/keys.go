package redis

import (
	"fmt"

	"github.com/JupiterPi/verse/internal/model"
)

// Key prefix for all verse data
const keyPrefix = "verse"

// rosterKey returns the Redis key for a group's saved roster
func rosterKey(group model.GroupID) string {
	return fmt.Sprintf("%s:roster:%s", keyPrefix, group)
}
