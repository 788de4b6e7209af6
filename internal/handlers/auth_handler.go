package handlers

import (
	"net/http"
	"time"

	"chorechampions/internal/models"
	"chorechampions/internal/security"
	"chorechampions/internal/service"
)

// AuthHandler handles logins for parents and learners
type AuthHandler struct {
	authService    *service.AuthService
	learnerService *service.LearnerService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, learnerService *service.LearnerService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		learnerService: learnerService,
	}
}

type loginResponse struct {
	Role      models.Role `json:"role"`
	LearnerID string      `json:"learnerId,omitempty"`
	CSRFToken string      `json:"csrfToken"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// ListLearners returns who can log in, without any private fields
func (h *AuthHandler) ListLearners(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.learnerService.List())
}

// LoginParent checks the shared parent password
func (h *AuthHandler) LoginParent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	session, err := h.authService.LoginParent(req.Password)
	if err != nil {
		respondWithServiceError(w, "Failed to log in parent", err)
		return
	}
	h.startSession(w, r, session)
}

// LoginLearner checks a learner's PIN
func (h *AuthHandler) LoginLearner(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	session, err := h.authService.LoginLearner(r.PathValue("id"), req.PIN)
	if err != nil {
		respondWithServiceError(w, "Failed to log in learner", err)
		return
	}
	h.startSession(w, r, session)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, session *models.Session) {
	token, err := h.authService.CSRFToken(session.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to create CSRF token", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	respondWithJSON(w, http.StatusOK, loginResponse{
		Role:      session.Role,
		LearnerID: session.LearnerID,
		CSRFToken: token,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout ends the current session, if any
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		h.authService.Logout(cookie.Value)
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	w.WriteHeader(http.StatusNoContent)
}
