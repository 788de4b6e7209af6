package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"chorechampions/internal/engine"
	"chorechampions/internal/teachback"
)

// TeachBackResult is what a learner sees after submitting an explanation
type TeachBackResult struct {
	Verdict teachback.Verdict `json:"verdict"`
	State   string            `json:"state"`
}

// TeachBackService runs one teach-back session per learner and task and
// applies the bonus completion when a session passes
type TeachBackService struct {
	judge    teachback.Judge
	learners *LearnerService
	delay    time.Duration
	debug    bool

	mu       sync.Mutex
	sessions map[string]*teachback.Session
}

// NewTeachBackService creates a new teach-back service. delay is how long a
// passing verdict is shown before the bonus is applied.
func NewTeachBackService(judge teachback.Judge, learners *LearnerService, delay time.Duration, debug bool) *TeachBackService {
	return &TeachBackService{
		judge:    judge,
		learners: learners,
		delay:    delay,
		debug:    debug,
		sessions: make(map[string]*teachback.Session),
	}
}

// Evaluate grades a single explanation without touching any learner
func (s *TeachBackService) Evaluate(ctx context.Context, req teachback.Request) (teachback.Verdict, error) {
	return teachback.Evaluate(ctx, s.judge, req)
}

// Submit checks a learner's explanation for an assigned teach-back task
func (s *TeachBackService) Submit(ctx context.Context, learnerID string, taskID int64, explanation string) (TeachBackResult, error) {
	task, err := s.learners.EligibleForTeachBack(learnerID, taskID)
	if err != nil {
		return TeachBackResult{}, err
	}

	key := sessionKey(learnerID, taskID)
	session := s.session(key, task.Title, string(task.Subject), learnerID, taskID)
	verdict, err := session.Submit(ctx, explanation)
	state := session.State()
	s.forgetEnded(key, session)
	if err != nil {
		return TeachBackResult{State: state.String()}, err
	}

	if s.debug {
		log.Printf("[DEBUG] Teach-back %s/%d: passed=%v score=%d", learnerID, taskID, verdict.Passed, verdict.Score)
	}
	return TeachBackResult{Verdict: verdict, State: state.String()}, nil
}

// Cancel aborts an in-flight submission for a learner and task
func (s *TeachBackService) Cancel(learnerID string, taskID int64) {
	s.mu.Lock()
	session, ok := s.sessions[sessionKey(learnerID, taskID)]
	s.mu.Unlock()
	if ok {
		session.Cancel()
		s.forgetEnded(sessionKey(learnerID, taskID), session)
	}
}

// session returns the live session for key or starts one from the task as
// it is now
func (s *TeachBackService) session(key, title, subject, learnerID string, taskID int64) *teachback.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[key]; ok {
		return existing
	}

	var session *teachback.Session
	session = teachback.NewSession(teachback.SessionConfig{
		Judge:     s.judge,
		TaskTitle: title,
		Subject:   subject,
		Delay:     s.delay,
		OnPassed: func(v teachback.Verdict) {
			s.applyBonus(learnerID, taskID)
			s.forget(key, session)
		},
	})
	s.sessions[key] = session
	return session
}

func (s *TeachBackService) applyBonus(learnerID string, taskID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := s.learners.CompleteWithBonus(ctx, learnerID, taskID)
	if err != nil {
		log.Printf("Failed to apply teach-back bonus for %s/%d: %v", learnerID, taskID, err)
		return
	}
	if result.Event == engine.EventAllComplete {
		log.Printf("Learner %s finished every task today with a teach-back", learnerID)
	}
}

func (s *TeachBackService) forget(key string, session *teachback.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[key] == session {
		delete(s.sessions, key)
	}
}

// forgetEnded drops a session that can take no further part: a rejected,
// errored or cancelled one. Live and passed sessions stay until they finish.
func (s *TeachBackService) forgetEnded(key string, session *teachback.Session) {
	switch session.State() {
	case teachback.StateSubmitting, teachback.StatePassed:
		return
	}
	s.forget(key, session)
}

func sessionKey(learnerID string, taskID int64) string {
	return fmt.Sprintf("%s:%d", learnerID, taskID)
}
