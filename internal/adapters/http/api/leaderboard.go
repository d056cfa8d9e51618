// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// SnapshotHandler serves the snapshot document and its parts.
type SnapshotHandler struct {
	deps Dependencies
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(deps Dependencies) *SnapshotHandler {
	return &SnapshotHandler{deps: deps}
}

// HandleSnapshot handles GET /api/snapshot requests.
func (h *SnapshotHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	snap := current(w, h.deps)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleLeaderboard handles GET /api/leaderboard requests.
func (h *SnapshotHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	snap := current(w, h.deps)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, snap.Leaderboard)
}

// HandleEvents handles GET /api/events requests.
func (h *SnapshotHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	snap := current(w, h.deps)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, snap.Events)
}
