package handlers

import (
	"errors"
	"net/http"
	"strings"

	"chorechampions/internal/service"
	"chorechampions/internal/teachback"
)

// TeachBackHandler serves teach-back submissions
type TeachBackHandler struct {
	teachBackService *service.TeachBackService
}

// NewTeachBackHandler creates a new teach-back handler
func NewTeachBackHandler(teachBackService *service.TeachBackService) *TeachBackHandler {
	return &TeachBackHandler{teachBackService: teachBackService}
}

// Evaluate grades one explanation. It accepts any method so non-POST calls
// get a JSON 405 rather than the mux's plain one.
func (h *TeachBackHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		respondWithError(w, http.StatusMethodNotAllowed, ErrMethodNotAllowed, "", nil)
		return
	}

	var req teachback.Request
	if err := decodeJSONLenient(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMissingFields, "", nil)
		return
	}
	if strings.TrimSpace(req.Explanation) == "" || strings.TrimSpace(req.TaskTitle) == "" {
		respondWithError(w, http.StatusBadRequest, ErrMissingFields, "", nil)
		return
	}

	verdict, err := h.teachBackService.Evaluate(r.Context(), req)
	switch {
	case err == nil:
		respondWithJSON(w, http.StatusOK, verdict)
	case errors.Is(err, teachback.ErrJudgeNotConfigured):
		respondWithError(w, http.StatusInternalServerError, "API key not configured", "", nil)
	case errors.Is(err, teachback.ErrEmptyResponse):
		respondWithError(w, http.StatusInternalServerError, "No response from AI", "Judge returned no text", err)
	case errors.Is(err, teachback.ErrInvalidVerdict):
		respondWithError(w, http.StatusInternalServerError, "Invalid AI response format", "Judge answer could not be parsed", err)
	default:
		respondWithError(w, http.StatusInternalServerError, "Failed to evaluate response", "Error calling judge", err)
	}
}

// Submit checks a learner's explanation for one of their tasks
func (h *TeachBackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Explanation string `json:"explanation"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	result, err := h.teachBackService.Submit(r.Context(), learnerID(r), taskID, req.Explanation)
	if err != nil {
		respondWithServiceError(w, "Teach-back failed", err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// Cancel aborts an in-flight teach-back check
func (h *TeachBackHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.teachBackService.Cancel(learnerID(r), taskID)
	w.WriteHeader(http.StatusNoContent)
}
