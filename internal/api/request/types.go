package request

// CreateJoinCodeRequest is the request body for minting a join code
type CreateJoinCodeRequest struct {
	UserID  string `json:"user_id"`
	GroupID string `json:"group_id"`
}

// SetMembersRequest is the request body for replacing a group's voice roster
type SetMembersRequest struct {
	Members []MemberEntry `json:"members"`
}

// MemberEntry is one member in a roster push
type MemberEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}
