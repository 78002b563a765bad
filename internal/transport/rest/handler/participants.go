package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"quizlive/internal/model"
	"quizlive/internal/service"
)

// ParticipantHandler handles registration and the presenter's participant views
type ParticipantHandler struct {
	regSvc *service.RegistrationService
}

// NewParticipantHandler creates a new participant handler
func NewParticipantHandler(regSvc *service.RegistrationService) *ParticipantHandler {
	return &ParticipantHandler{regSvc: regSvc}
}

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type registerResponse struct {
	Participant *model.Participant `json:"participant"`
	Token       string             `json:"token"`
}

// Register handles POST /v1/register
func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	participant, token, err := h.regSvc.Register(r.Context(), req.Name, req.Email, req.Phone)
	if err != nil {
		if errors.Is(err, model.ErrNameRequired) {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{Participant: participant, Token: token})
}

// List handles GET /v1/admin/participants
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	participants, err := h.regSvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing participants failed")
		return
	}
	writeJSON(w, http.StatusOK, participants)
}

// ExportCSV handles GET /v1/admin/participants.csv
func (h *ParticipantHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="participants.csv"`)
	if err := h.regSvc.ExportCSV(r.Context(), w); err != nil {
		writeError(w, http.StatusInternalServerError, "export failed")
	}
}
