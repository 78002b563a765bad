package handler

import (
	"net/http"
	"strconv"

	"quizlive/internal/cache"
	"quizlive/internal/model"
	"quizlive/internal/service"
)

// QuestionHandler serves the question set and round statistics
type QuestionHandler struct {
	questions []model.Question
	control   cache.ControlCache
	answerSvc *service.AnswerService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questions []model.Question, control cache.ControlCache, answerSvc *service.AnswerService) *QuestionHandler {
	return &QuestionHandler{questions: questions, control: control, answerSvc: answerSvc}
}

// publicQuestion is a question with the answer key stripped.
type publicQuestion struct {
	Index   int      `json:"index"`
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Total   int      `json:"total"`
}

// Current handles GET /v1/questions/current. The answer key never leaves the
// server here; reveal happens through the engine's round_locked event.
func (h *QuestionHandler) Current(w http.ResponseWriter, r *http.Request) {
	ctrl, err := h.control.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reading game control failed")
		return
	}
	idx := ctrl.CurrentQuestion
	if idx < 0 || idx >= len(h.questions) {
		writeError(w, http.StatusNotFound, "no current question")
		return
	}
	q := h.questions[idx]
	writeJSON(w, http.StatusOK, publicQuestion{
		Index:   idx,
		Text:    q.Text,
		Options: q.Options,
		Total:   len(h.questions),
	})
}

// ListAdmin handles GET /v1/admin/questions, answer keys included.
func (h *QuestionHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.questions)
}

// RoundStats handles GET /v1/admin/round/stats?question=N. Without the query
// param it reports on the current question.
func (h *QuestionHandler) RoundStats(w http.ResponseWriter, r *http.Request) {
	idx := -1
	if raw := r.URL.Query().Get("question"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "question must be an integer")
			return
		}
		idx = n
	} else {
		ctrl, err := h.control.Get(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "reading game control failed")
			return
		}
		idx = ctrl.CurrentQuestion
	}
	if idx < 0 || idx >= len(h.questions) {
		writeError(w, http.StatusNotFound, "question index out of range")
		return
	}

	stats, err := h.answerSvc.RoundStats(r.Context(), idx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reading round stats failed")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
