// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strings"
)

const teamsPrefix = "/api/teams/"

// TeamHandler handles team lookups by display id.
type TeamHandler struct {
	deps Dependencies
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(deps Dependencies) *TeamHandler {
	return &TeamHandler{deps: deps}
}

// HandleGetTeam handles GET /api/teams/{id} requests. When several teams
// share an id the first one seen wins.
func (h *TeamHandler) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, teamsPrefix)
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	snap := current(w, h.deps)
	if snap == nil {
		return
	}
	team, ok := snap.TeamByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("%w: %s", ErrNotFound, id))
		return
	}
	writeJSON(w, http.StatusOK, team)
}
