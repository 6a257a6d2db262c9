package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/JupiterPi/verse/internal/api/request"
	"github.com/JupiterPi/verse/internal/api/response"
	"github.com/JupiterPi/verse/internal/model"
	"github.com/JupiterPi/verse/internal/services/joincode"
)

// JoinCodeHandler mints join codes on behalf of the external bot integration.
type JoinCodeHandler struct {
	codes *joincode.Service
	// joinLinkRoot is the client URL join links point at, e.g.
	// "https://verse.example.com". Empty disables join_url in responses.
	joinLinkRoot string
}

// NewJoinCodeHandler creates a new join code handler
func NewJoinCodeHandler(codes *joincode.Service, joinLinkRoot string) *JoinCodeHandler {
	return &JoinCodeHandler{
		codes:        codes,
		joinLinkRoot: joinLinkRoot,
	}
}

// Create handles POST /api/v1/join-codes
func (h *JoinCodeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateJoinCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.UserID == "" {
		WriteError(w, NewInvalidRequestError("user_id is required"))
		return
	}
	if req.GroupID == "" {
		WriteError(w, NewInvalidRequestError("group_id is required"))
		return
	}

	grant := h.codes.Create(model.PlayerID(req.UserID), model.GroupID(req.GroupID))

	resp := response.JoinCode{
		Code:      grant.Code,
		ExpiresAt: grant.ExpiresAt,
	}
	if h.joinLinkRoot != "" {
		resp.JoinURL = fmt.Sprintf("%s/join?t=%s", h.joinLinkRoot, grant.Code)
	}

	response.JSON(w, http.StatusCreated, resp)
}
