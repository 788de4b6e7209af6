package service

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"chorechampions/internal/models"
	"chorechampions/internal/repository"
	"chorechampions/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// AuthService handles parent and learner logins. Sessions live in memory and
// are lost on restart.
type AuthService struct {
	repo            *repository.StateRepository
	parentHash      string
	sessionDuration time.Duration
	csrf            *security.CSRFGenerator

	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// NewAuthService creates a new auth service. The parent password is hashed
// once at startup and only the hash is kept.
func NewAuthService(repo *repository.StateRepository, parentPassword, sessionSecret string, sessionDuration time.Duration) (*AuthService, error) {
	hash, err := security.HashPassword(parentPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash parent password: %w", err)
	}
	if sessionSecret == "" {
		log.Println("SESSION_SECRET not set, CSRF tokens will not survive a restart")
		sessionSecret = security.GenerateSessionID()
	}
	return &AuthService{
		repo:            repo,
		parentHash:      hash,
		sessionDuration: sessionDuration,
		csrf:            security.NewCSRFGenerator(sessionSecret),
		sessions:        make(map[string]*models.Session),
	}, nil
}

// LoginParent checks the shared parent password and creates a parent session
func (s *AuthService) LoginParent(password string) (*models.Session, error) {
	if !security.CheckPassword(password, s.parentHash) {
		return nil, ErrInvalidCredentials
	}
	return s.createSession(models.RoleParent, ""), nil
}

// LoginLearner checks a learner's PIN and creates a learner session
func (s *AuthService) LoginLearner(learnerID, pin string) (*models.Session, error) {
	learner, err := s.repo.Get(learnerID)
	if errors.Is(err, repository.ErrLearnerNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}
	if !security.ComparePIN(pin, learner.PIN) {
		return nil, ErrInvalidCredentials
	}
	return s.createSession(models.RoleLearner, learner.ID), nil
}

func (s *AuthService) createSession(role models.Role, learnerID string) *models.Session {
	now := time.Now()
	session := &models.Session{
		ID:        security.GenerateSessionID(),
		Role:      role,
		LearnerID: learnerID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	c := *session
	return &c
}

// ValidateSession checks if a session is valid and returns a copy of it
func (s *AuthService) ValidateSession(sessionID string) (*models.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		s.Logout(sessionID)
		return nil, ErrSessionExpired
	}

	c := *session
	return &c, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// CleanupExpiredSessions removes expired sessions and returns how many went
func (s *AuthService) CleanupExpiredSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.IsExpired() {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// CSRFToken returns the token a session must echo on mutating requests
func (s *AuthService) CSRFToken(sessionID string) (string, error) {
	return s.csrf.GenerateToken(sessionID)
}

// ValidateCSRF reports whether token belongs to the session
func (s *AuthService) ValidateCSRF(sessionID, token string) bool {
	return s.csrf.ValidateToken(sessionID, token)
}
