// Package teachback runs the bonus-credit flow where a learner explains what
// they learned and an AI judge decides whether the explanation shows real
// understanding.
package teachback

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// DefaultPassDelay is how long a passing verdict is shown before the bonus
// completion is applied
const DefaultPassDelay = 2 * time.Second

var (
	ErrSubmissionInFlight = errors.New("an explanation is already being checked")
	ErrSessionClosed      = errors.New("teach-back already passed")
)

// State is the position of a session in its lifecycle
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StatePassed
	StateRejected
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StatePassed:
		return "passed"
	case StateRejected:
		return "rejected"
	case StateErrored:
		return "error"
	default:
		return "unknown"
	}
}

// SessionConfig describes one teach-back attempt for one task
type SessionConfig struct {
	Judge     Judge
	TaskTitle string
	Subject   string
	// Delay before OnPassed runs; zero means DefaultPassDelay
	Delay    time.Duration
	OnPassed func(Verdict)
}

// Session is the state machine behind a single teach-back dialog.
// Rejected and errored sessions accept another submission; a passed session
// is finished and calls OnPassed exactly once after the delay.
type Session struct {
	judge     Judge
	taskTitle string
	subject   string
	delay     time.Duration
	onPassed  func(Verdict)

	mu      sync.Mutex
	state   State
	attempt int
	cancel  context.CancelFunc

	once sync.Once
	done chan struct{}
}

// NewSession creates an idle session
func NewSession(cfg SessionConfig) *Session {
	delay := cfg.Delay
	if delay <= 0 {
		delay = DefaultPassDelay
	}
	return &Session{
		judge:     cfg.Judge,
		taskTitle: cfg.TaskTitle,
		subject:   cfg.Subject,
		delay:     delay,
		onPassed:  cfg.OnPassed,
		done:      make(chan struct{}),
	}
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed once the bonus completion callback has run
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Submit checks an explanation. Explanations shorter than
// MinExplanationLength are rejected locally with CoachingMessage. Judge and
// parse failures come back as a *VerificationError.
func (s *Session) Submit(ctx context.Context, explanation string) (Verdict, error) {
	s.mu.Lock()
	switch s.state {
	case StateSubmitting:
		s.mu.Unlock()
		return Verdict{}, ErrSubmissionInFlight
	case StatePassed:
		s.mu.Unlock()
		return Verdict{}, ErrSessionClosed
	}

	explanation = strings.TrimSpace(explanation)
	if utf8.RuneCountInString(explanation) < MinExplanationLength {
		s.state = StateRejected
		s.mu.Unlock()
		return Verdict{Passed: false, Feedback: CoachingMessage}, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.attempt++
	attempt := s.attempt
	s.cancel = cancel
	s.state = StateSubmitting
	s.mu.Unlock()

	verdict, err := Evaluate(ctx, s.judge, Request{
		TaskTitle:   s.taskTitle,
		Subject:     s.subject,
		Explanation: explanation,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempt != attempt || s.state != StateSubmitting {
		return Verdict{}, &VerificationError{Err: context.Canceled}
	}
	s.cancel = nil

	if err != nil {
		s.state = StateErrored
		return Verdict{}, &VerificationError{Err: err}
	}

	if !verdict.Passed {
		s.state = StateRejected
		return verdict, nil
	}

	s.state = StatePassed
	time.AfterFunc(s.delay, func() { s.complete(verdict) })
	return verdict, nil
}

// Cancel aborts an in-flight submission and returns the session to idle.
// A completion already scheduled by a passing verdict still runs.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSubmitting {
		return
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.attempt++
	s.state = StateIdle
}

func (s *Session) complete(v Verdict) {
	s.once.Do(func() {
		if s.onPassed != nil {
			s.onPassed(v)
		}
		close(s.done)
	})
}
