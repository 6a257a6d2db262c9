package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/JupiterPi/verse/internal/api/request"
	"github.com/JupiterPi/verse/internal/api/response"
	"github.com/JupiterPi/verse/internal/membership"
	"github.com/JupiterPi/verse/internal/model"
)

// GroupHandler is the roster ingress: the external membership source pushes
// each voice group's current members here.
type GroupHandler struct {
	members *membership.MemoryProvider
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(members *membership.MemoryProvider) *GroupHandler {
	return &GroupHandler{
		members: members,
	}
}

// SetMembers handles PUT /api/v1/groups/{group_id}/members
func (h *GroupHandler) SetMembers(w http.ResponseWriter, r *http.Request) {
	group := model.GroupID(mux.Vars(r)["group_id"])

	var req request.SetMembersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	members := make([]membership.Member, 0, len(req.Members))
	for _, m := range req.Members {
		if m.ID == "" {
			WriteError(w, NewInvalidRequestError("member id is required"))
			return
		}
		members = append(members, membership.Member{
			ID:        model.PlayerID(m.ID),
			Name:      m.Name,
			AvatarURL: m.AvatarURL,
		})
	}

	h.members.SetMembers(r.Context(), group, members)
	response.NoContent(w)
}

// GetMembers handles GET /api/v1/groups/{group_id}/members
func (h *GroupHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
	group := model.GroupID(mux.Vars(r)["group_id"])

	members, err := h.members.Members(r.Context(), group)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.Members{Members: make([]response.Member, 0, len(members))}
	for _, m := range members {
		resp.Members = append(resp.Members, response.MemberFromModel(m))
	}
	response.JSON(w, http.StatusOK, resp)
}
