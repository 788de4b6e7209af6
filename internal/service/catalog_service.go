package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"chorechampions/internal/models"
	"chorechampions/internal/repository"
	"chorechampions/internal/validation"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskUpdate is a partial task edit. Nil fields keep their current value.
type TaskUpdate struct {
	Title          *string          `json:"title"`
	Points         *int             `json:"points"`
	Category       *models.Category `json:"category"`
	Subject        *models.Subject  `json:"subject"`
	AssignedTo     []string         `json:"assignedTo"`
	TeachBackBonus *bool            `json:"teachBackBonus"`
}

// CatalogService manages the shared task catalog
type CatalogService struct {
	repo *repository.StateRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo *repository.StateRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// List returns every task in catalog order
func (s *CatalogService) List() []models.Task {
	return s.repo.Tasks()
}

// VisibleTo returns the tasks assigned to a learner
func (s *CatalogService) VisibleTo(learnerID string) ([]models.Task, error) {
	state := s.repo.Snapshot()
	if !slices.ContainsFunc(state.Learners, func(l models.Learner) bool { return l.ID == learnerID }) {
		return nil, repository.ErrLearnerNotFound
	}
	tasks := state.TasksFor(learnerID)
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Create validates a task and adds it with the next free id
func (s *CatalogService) Create(ctx context.Context, task models.Task) (models.Task, error) {
	task.Title = strings.TrimSpace(task.Title)

	var created models.Task
	_, err := s.repo.UpdateCatalog(ctx, func(tasks []models.Task, learners []models.Learner) ([]models.Task, error) {
		if err := validation.ValidateTask(task, learnerIDs(learners)); err != nil {
			return nil, err
		}
		task.ID = nextTaskID(tasks)
		created = task.Clone()
		return append(tasks, task), nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return created, nil
}

// Update merges the given fields into a task and re-validates the result
func (s *CatalogService) Update(ctx context.Context, id int64, update TaskUpdate) (models.Task, error) {
	var updated models.Task
	_, err := s.repo.UpdateCatalog(ctx, func(tasks []models.Task, learners []models.Learner) ([]models.Task, error) {
		idx := slices.IndexFunc(tasks, func(t models.Task) bool { return t.ID == id })
		if idx < 0 {
			return nil, ErrTaskNotFound
		}

		task := tasks[idx]
		if update.Title != nil {
			task.Title = strings.TrimSpace(*update.Title)
		}
		if update.Points != nil {
			task.Points = *update.Points
		}
		if update.Category != nil {
			task.Category = *update.Category
		}
		if update.Subject != nil {
			task.Subject = *update.Subject
		}
		if update.AssignedTo != nil {
			task.AssignedTo = slices.Clone(update.AssignedTo)
		}
		if update.TeachBackBonus != nil {
			task.TeachBackBonus = *update.TeachBackBonus
		}

		if err := validation.ValidateTask(task, learnerIDs(learners)); err != nil {
			return nil, err
		}
		tasks[idx] = task
		updated = task.Clone()
		return tasks, nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return updated, nil
}

// Delete removes a task from the catalog
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	_, err := s.repo.UpdateCatalog(ctx, func(tasks []models.Task, _ []models.Learner) ([]models.Task, error) {
		idx := slices.IndexFunc(tasks, func(t models.Task) bool { return t.ID == id })
		if idx < 0 {
			return nil, ErrTaskNotFound
		}
		return slices.Delete(tasks, idx, idx+1), nil
	})
	return err
}

func nextTaskID(tasks []models.Task) int64 {
	var id int64 = 1
	for _, t := range tasks {
		id = max(id, t.ID+1)
	}
	return id
}

func learnerIDs(learners []models.Learner) []string {
	ids := make([]string, 0, len(learners))
	for _, l := range learners {
		ids = append(ids, l.ID)
	}
	return ids
}
