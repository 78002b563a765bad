package handler

import (
	"net/http"

	"quizlive/internal/service"
	"quizlive/internal/transport/rest/middleware"
)

// LeaderboardHandler serves the ranked standings projection
type LeaderboardHandler struct {
	lbSvc *service.LeaderboardService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(lbSvc *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{lbSvc: lbSvc}
}

// Get handles GET /v1/leaderboard
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	lb, err := h.lbSvc.Current(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reading leaderboard failed")
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

// Refresh handles POST /v1/admin/leaderboard/refresh
func (h *LeaderboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	lb, err := h.lbSvc.Recompute(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "recomputing leaderboard failed")
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

// MyRank handles GET /v1/leaderboard/me
func (h *LeaderboardHandler) MyRank(w http.ResponseWriter, r *http.Request) {
	participantID := middleware.GetParticipantID(r.Context())
	rank, err := h.lbSvc.Rank(r.Context(), participantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reading rank failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"rank": rank})
}
