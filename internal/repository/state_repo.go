package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"chorechampions/internal/models"
)

var ErrLearnerNotFound = errors.New("learner not found")

// saveTimeout bounds a single write to the backing store
const saveTimeout = 5 * time.Second

// StorageError reports a failed write. The in-memory state is kept.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to persist state: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// LearnerMutation turns the current learner into the next one. catalog is a
// private copy of every task.
type LearnerMutation func(learner models.Learner, catalog []models.Task) (models.Learner, error)

// StateMutation turns the whole state into the next one and reports whether
// anything changed
type StateMutation func(state models.AppState) (models.AppState, bool, error)

// CatalogMutation turns the current task list into the next one
type CatalogMutation func(tasks []models.Task, learners []models.Learner) ([]models.Task, error)

// StateRepository holds the application state in memory and writes the whole
// blob to its Store after every successful mutation
type StateRepository struct {
	store Store
	key   string

	mu    sync.RWMutex
	state models.AppState
}

func NewStateRepository(store Store) *StateRepository {
	return &StateRepository{store: store, key: StateKey}
}

// Store returns the backing store
func (r *StateRepository) Store() Store {
	return r.store
}

// Load reads the saved state. When nothing has been saved yet, seed provides
// the initial state, which is written immediately. It reports whether seeding
// happened.
func (r *StateRepository) Load(ctx context.Context, seed func() (models.AppState, error)) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.store.Load(ctx, r.key)
	if errors.Is(err, ErrNotFound) {
		state, err := seed()
		if err != nil {
			return false, fmt.Errorf("failed to build seed state: %w", err)
		}
		r.state = normalize(state)
		if err := r.saveLocked(ctx); err != nil {
			return true, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	state, err := DecodeState(data)
	if err != nil {
		return false, err
	}
	r.state = state
	return false, nil
}

// Snapshot returns a deep copy of the whole state
func (r *StateRepository) Snapshot() models.AppState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Clone()
}

// Tasks returns a copy of the catalog
func (r *StateRepository) Tasks() []models.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Clone().Tasks
}

// Learners returns a copy of every learner
func (r *StateRepository) Learners() []models.Learner {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Clone().Learners
}

// Get returns a copy of one learner
func (r *StateRepository) Get(id string) (models.Learner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return models.Learner{}, ErrLearnerNotFound
	}
	return r.state.Learners[idx].Clone(), nil
}

// Update applies mutation to one learner and persists the result. A failing
// mutation leaves the state untouched.
func (r *StateRepository) Update(ctx context.Context, id string, mutation LearnerMutation) (models.Learner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return models.Learner{}, ErrLearnerNotFound
	}

	catalog := r.state.Clone().Tasks
	next, err := mutation(r.state.Learners[idx].Clone(), catalog)
	if err != nil {
		return models.Learner{}, err
	}

	r.state.Learners[idx] = next.Clone()
	r.persistLocked(ctx)
	return next, nil
}

// UpdateState applies mutation to a copy of the whole state. The result is
// stored and persisted only when mutation reports a change.
func (r *StateRepository) UpdateState(ctx context.Context, mutation StateMutation) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, changed, err := mutation(r.state.Clone())
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	r.state = normalize(next)
	r.persistLocked(ctx)
	return true, nil
}

// UpdateCatalog applies mutation to the task list and persists the result
func (r *StateRepository) UpdateCatalog(ctx context.Context, mutation CatalogMutation) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.state.Clone()
	tasks, err := mutation(snapshot.Tasks, snapshot.Learners)
	if err != nil {
		return nil, err
	}

	r.state.Tasks = tasks
	r.persistLocked(ctx)
	return r.state.Clone().Tasks, nil
}

// Replace swaps in a whole new state and writes it, returning any storage error
func (r *StateRepository) Replace(ctx context.Context, state models.AppState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = normalize(state)
	return r.saveLocked(ctx)
}

func (r *StateRepository) indexOf(id string) int {
	return slices.IndexFunc(r.state.Learners, func(l models.Learner) bool { return l.ID == id })
}

// persistLocked writes the state and only logs failures; callers keep the
// mutation either way
func (r *StateRepository) persistLocked(ctx context.Context) {
	if err := r.saveLocked(ctx); err != nil {
		log.Printf("Failed to save state: %v", err)
	}
}

func (r *StateRepository) saveLocked(ctx context.Context) error {
	data, err := EncodeState(r.state)
	if err != nil {
		return &StorageError{Err: err}
	}

	// A cancelled request must not abort the write that follows its mutation
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	if err := r.store.Save(ctx, r.key, data); err != nil {
		return &StorageError{Err: err}
	}
	return nil
}

// EncodeState serialises the persisted state shape
func EncodeState(state models.AppState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}

// DecodeState parses a saved state, rejecting unknown enum values, and fills
// in fields missing from older saves
func DecodeState(data []byte) (models.AppState, error) {
	var state models.AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return models.AppState{}, fmt.Errorf("failed to decode state: %w", err)
	}
	return normalize(state), nil
}

func normalize(state models.AppState) models.AppState {
	if state.Tasks == nil {
		state.Tasks = []models.Task{}
	}
	if state.Learners == nil {
		state.Learners = []models.Learner{}
	}
	for i := range state.Learners {
		state.Learners[i].Normalize()
	}
	return state
}
