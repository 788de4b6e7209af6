package models

import "time"

// AppState is the whole persisted blob: the shared catalog plus every learner
type AppState struct {
	Tasks    []Task    `json:"tasks" yaml:"tasks"`
	Learners []Learner `json:"learners" yaml:"learners"`

	// LastReset is the local day (YYYY-MM-DD) of the last daily reset
	LastReset string `json:"lastReset,omitempty" yaml:"lastReset,omitempty"`
}

// Clone deep-copies the state
func (s AppState) Clone() AppState {
	c := AppState{
		Tasks:     make([]Task, len(s.Tasks)),
		Learners:  make([]Learner, len(s.Learners)),
		LastReset: s.LastReset,
	}
	for i, t := range s.Tasks {
		c.Tasks[i] = t.Clone()
	}
	for i, l := range s.Learners {
		c.Learners[i] = l.Clone()
	}
	return c
}

// TasksFor returns the tasks assigned to a learner, in catalog order
func (s AppState) TasksFor(learnerID string) []Task {
	var tasks []Task
	for _, t := range s.Tasks {
		if t.IsAssignedTo(learnerID) {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// Role identifies who is logged in
type Role string

const (
	RoleParent  Role = "parent"
	RoleLearner Role = "learner"
)

// Session represents an authenticated session
type Session struct {
	ID        string
	Role      Role
	LearnerID string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
