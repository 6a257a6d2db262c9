package response

import (
	"time"

	"github.com/JupiterPi/verse/internal/membership"
)

// JoinCode is the response for a minted join code
type JoinCode struct {
	Code      string    `json:"code"`
	JoinURL   string    `json:"join_url,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Member represents a group member in API responses
type Member struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// MemberFromModel converts a membership.Member to a response Member
func MemberFromModel(m membership.Member) Member {
	return Member{
		ID:        string(m.ID),
		Name:      m.Name,
		AvatarURL: m.AvatarURL,
	}
}

// Members is the response for a group roster query
type Members struct {
	Members []Member `json:"members"`
}
