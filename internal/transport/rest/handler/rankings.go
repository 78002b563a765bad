package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"quizlive/internal/model"
	"quizlive/internal/service"
	"quizlive/internal/transport/rest/middleware"
)

// RankingHandler handles the durable finished-game scoreboard
type RankingHandler struct {
	rankingSvc *service.RankingService
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(rankingSvc *service.RankingService) *RankingHandler {
	return &RankingHandler{rankingSvc: rankingSvc}
}

// List handles GET /v1/rankings
func (h *RankingHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.rankingSvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing rankings failed")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type saveScoreRequest struct {
	Name           string  `json:"name"`
	Score          float64 `json:"score"`
	Percentage     float64 `json:"percentage"`
	IdempotencyKey string  `json:"idempotencyKey"`
}

// Save handles POST /v1/rankings
func (h *RankingHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := req.Name
	if name == "" {
		name = middleware.GetParticipantName(r.Context())
	}
	entry, err := h.rankingSvc.SaveScore(r.Context(), model.RankingEntry{
		Name:           name,
		Score:          req.Score,
		Percentage:     req.Percentage,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNameRequired):
			writeError(w, http.StatusBadRequest, "name is required")
		case errors.Is(err, model.ErrScoreAlreadySaved):
			writeError(w, http.StatusConflict, "score already saved")
		default:
			writeError(w, http.StatusInternalServerError, "saving score failed")
		}
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}
