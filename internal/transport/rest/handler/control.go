package handler

import (
	"encoding/json"
	"net/http"

	"quizlive/internal/service"
)

// ControlHandler exposes the presenter's game control operations
type ControlHandler struct {
	controlSvc *service.ControlService
}

// NewControlHandler creates a new control handler
func NewControlHandler(controlSvc *service.ControlService) *ControlHandler {
	return &ControlHandler{controlSvc: controlSvc}
}

// Get handles GET /v1/admin/control
func (h *ControlHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctrl, err := h.controlSvc.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reading game control failed")
		return
	}
	writeJSON(w, http.StatusOK, ctrl)
}

type setQuestionRequest struct {
	Index int `json:"index"`
}

// SetQuestion handles POST /v1/admin/control/question
func (h *ControlHandler) SetQuestion(w http.ResponseWriter, r *http.Request) {
	var req setQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Index < 0 {
		writeError(w, http.StatusBadRequest, "index must be non-negative")
		return
	}
	if err := h.controlSvc.SetCurrentQuestion(r.Context(), req.Index); err != nil {
		writeError(w, http.StatusInternalServerError, "setting question failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"currentQuestion": req.Index})
}

// NextQuestion handles POST /v1/admin/control/question/next
func (h *ControlHandler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	next, err := h.controlSvc.IncrementCurrentQuestion(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "advancing question failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"currentQuestion": next})
}

// OpenRound handles POST /v1/admin/control/round/open
func (h *ControlHandler) OpenRound(w http.ResponseWriter, r *http.Request) {
	if err := h.controlSvc.OpenRound(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "opening round failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"roundOpen": true})
}

// CloseRound handles POST /v1/admin/control/round/close
func (h *ControlHandler) CloseRound(w http.ResponseWriter, r *http.Request) {
	if err := h.controlSvc.CloseRound(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "closing round failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"roundOpen": false})
}

// ToggleRound handles POST /v1/admin/control/round/toggle
func (h *ControlHandler) ToggleRound(w http.ResponseWriter, r *http.Request) {
	open, err := h.controlSvc.ToggleRound(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "toggling round failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"roundOpen": open})
}

// StartGame handles POST /v1/admin/control/start
func (h *ControlHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	if err := h.controlSvc.StartGame(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "starting game failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"gameStarted": true})
}

// StopGame handles POST /v1/admin/control/stop
func (h *ControlHandler) StopGame(w http.ResponseWriter, r *http.Request) {
	if err := h.controlSvc.StopGame(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "stopping game failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"gameStarted": false})
}

// NewGame handles POST /v1/admin/control/new-game
func (h *ControlHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	sessionID, err := h.controlSvc.StartNewGame(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "starting a new game failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": sessionID})
}
