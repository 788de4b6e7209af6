package handlers

import (
	"net/http"
	"strconv"

	"chorechampions/internal/engine"
	"chorechampions/internal/models"
	"chorechampions/internal/service"
)

// LearnerHandler serves the endpoints a logged-in learner uses
type LearnerHandler struct {
	learnerService *service.LearnerService
}

// NewLearnerHandler creates a new learner handler
func NewLearnerHandler(learnerService *service.LearnerService) *LearnerHandler {
	return &LearnerHandler{learnerService: learnerService}
}

type completionResponse struct {
	Event       engine.Event   `json:"event"`
	PointsDelta int            `json:"pointsDelta"`
	Learner     models.Learner `json:"learner"`
}

// Prizes lists the preset goals
func (h *LearnerHandler) Prizes(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, models.PrizeOptions)
}

// Me returns the learner's profile with derived progression
func (h *LearnerHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.learnerService.Profile(learnerID(r))
	if err != nil {
		respondWithServiceError(w, "Failed to load profile", err)
		return
	}
	respondWithJSON(w, http.StatusOK, profile)
}

// ToggleTask completes or un-completes a task for today
func (h *LearnerHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.learnerService.Toggle(r.Context(), learnerID(r), taskID)
	if err != nil {
		respondWithServiceError(w, "Failed to toggle task", err)
		return
	}
	respondWithJSON(w, http.StatusOK, completionResponse{
		Event:       result.Event,
		PointsDelta: result.PointsDelta,
		Learner:     result.Learner,
	})
}

// Plant puts a seed into a garden plot
func (h *LearnerHandler) Plant(w http.ResponseWriter, r *http.Request) {
	plot, ok := plotIndex(w, r)
	if !ok {
		return
	}
	var req struct {
		Plant models.Species `json:"plant"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	learner, err := h.learnerService.Plant(r.Context(), learnerID(r), plot, req.Plant)
	if err != nil {
		respondWithServiceError(w, "Failed to plant", err)
		return
	}
	respondWithJSON(w, http.StatusOK, learner.Garden)
}

// Water grows a plant by one stage
func (h *LearnerHandler) Water(w http.ResponseWriter, r *http.Request) {
	plot, ok := plotIndex(w, r)
	if !ok {
		return
	}

	learner, err := h.learnerService.Water(r.Context(), learnerID(r), plot)
	if err != nil {
		respondWithServiceError(w, "Failed to water", err)
		return
	}
	respondWithJSON(w, http.StatusOK, learner.Garden)
}

// Harvest collects a grown plant and pays out its points
func (h *LearnerHandler) Harvest(w http.ResponseWriter, r *http.Request) {
	plot, ok := plotIndex(w, r)
	if !ok {
		return
	}

	learner, err := h.learnerService.Harvest(r.Context(), learnerID(r), plot)
	if err != nil {
		respondWithServiceError(w, "Failed to harvest", err)
		return
	}
	respondWithJSON(w, http.StatusOK, learner)
}

// AddBook starts a new book in the reading log
func (h *LearnerHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title      string `json:"title"`
		TotalPages int    `json:"totalPages"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	book, err := h.learnerService.AddBook(r.Context(), learnerID(r), req.Title, req.TotalPages)
	if err != nil {
		respondWithServiceError(w, "Failed to add book", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, book)
}

// LogReading records pages read in a book
func (h *LearnerHandler) LogReading(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Pages int `json:"pages"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	learner, err := h.learnerService.LogReading(r.Context(), learnerID(r), bookID, req.Pages)
	if err != nil {
		respondWithServiceError(w, "Failed to log reading", err)
		return
	}
	respondWithJSON(w, http.StatusOK, learner)
}

// Redeem spends points on the current goal
func (h *LearnerHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	learner, prize, err := h.learnerService.Redeem(r.Context(), learnerID(r))
	if err != nil {
		respondWithServiceError(w, "Failed to redeem prize", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"prize":   prize,
		"learner": learner,
	})
}

// SetTheme changes the learner's color theme
func (h *LearnerHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme models.Theme `json:"theme"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	learner, err := h.learnerService.SetTheme(r.Context(), learnerID(r), req.Theme)
	if err != nil {
		respondWithServiceError(w, "Failed to set theme", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]models.Theme{"theme": learner.Theme})
}

func learnerID(r *http.Request) string {
	if session := GetSessionFromContext(r.Context()); session != nil {
		return session.LearnerID
	}
	return ""
}

func plotIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	plot, err := strconv.Atoi(r.PathValue("plot"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid plot", "", nil)
		return 0, false
	}
	return plot, true
}
