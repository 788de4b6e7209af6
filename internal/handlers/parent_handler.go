package handlers

import (
	"net/http"
	"strconv"

	"chorechampions/internal/models"
	"chorechampions/internal/service"
)

// ParentHandler serves the parent-only endpoints
type ParentHandler struct {
	catalogService *service.CatalogService
	learnerService *service.LearnerService
}

// NewParentHandler creates a new parent handler
func NewParentHandler(catalogService *service.CatalogService, learnerService *service.LearnerService) *ParentHandler {
	return &ParentHandler{
		catalogService: catalogService,
		learnerService: learnerService,
	}
}

// Dashboard shows every learner's progress
func (h *ParentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.learnerService.Dashboard())
}

// ListTasks returns the whole catalog
func (h *ParentHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.catalogService.List())
}

// CreateTask adds a task to the catalog
func (h *ParentHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var task models.Task
	if err := decodeJSON(w, r, &task); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	created, err := h.catalogService.Create(r.Context(), task)
	if err != nil {
		respondWithServiceError(w, "Failed to create task", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// UpdateTask applies a partial edit to a task
func (h *ParentHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var update service.TaskUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	task, err := h.catalogService.Update(r.Context(), id, update)
	if err != nil {
		respondWithServiceError(w, "Failed to update task", err)
		return
	}
	respondWithJSON(w, http.StatusOK, task)
}

// DeleteTask removes a task from the catalog
func (h *ParentHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalogService.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, "Failed to delete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetGoal changes the prize a learner is saving for
func (h *ParentHandler) SetGoal(w http.ResponseWriter, r *http.Request) {
	var prize models.Prize
	if err := decodeJSON(w, r, &prize); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	learner, err := h.learnerService.SetGoal(r.Context(), r.PathValue("id"), prize)
	if err != nil {
		respondWithServiceError(w, "Failed to set goal", err)
		return
	}
	respondWithJSON(w, http.StatusOK, learner.Prize)
}

// RegeneratePIN issues a new login PIN for a learner
func (h *ParentHandler) RegeneratePIN(w http.ResponseWriter, r *http.Request) {
	pin, err := h.learnerService.RegeneratePIN(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, "Failed to regenerate PIN", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"pin": pin})
}

// pathID parses a numeric path parameter, writing a 400 when it is malformed
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid "+name, "", nil)
		return 0, false
	}
	return id, true
}
