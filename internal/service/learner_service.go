package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"chorechampions/internal/credentials"
	"chorechampions/internal/engine"
	"chorechampions/internal/models"
	"chorechampions/internal/progression"
	"chorechampions/internal/repository"
	"chorechampions/internal/validation"
)

var (
	ErrTaskNotAssigned  = errors.New("task is not assigned to this learner")
	ErrAlreadyCompleted = errors.New("task already completed today")
	ErrNotEligible      = errors.New("task has no teach-back bonus")
)

// Notifier is told about redemptions so a parent can hand over the prize
type Notifier interface {
	PrizeRedeemed(ctx context.Context, learner models.Learner, prize models.Prize) error
}

// LearnerSummary is the public view used on the login screen
type LearnerSummary struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Theme models.Theme `json:"theme"`
}

// LearnerProfile is a learner together with everything derived from it
type LearnerProfile struct {
	Learner       models.Learner             `json:"learner"`
	Level         progression.LevelInfo      `json:"level"`
	Skills        []progression.SubjectSkill `json:"skills"`
	UnlockedPlots int                        `json:"unlockedPlots"`
	Tasks         []models.Task              `json:"tasks"`
}

// LearnerOverview is one row of the parent dashboard
type LearnerOverview struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Points         int                   `json:"points"`
	LifetimePoints int                   `json:"lifetimePoints"`
	Streak         int                   `json:"streak"`
	BestStreak     int                   `json:"bestStreak"`
	Level          progression.LevelInfo `json:"level"`
	CompletedToday int                   `json:"completedToday"`
	AssignedToday  int                   `json:"assignedToday"`
	Prize          models.Prize          `json:"prize"`
	GoalProgress   float64               `json:"goalProgress"`
}

// LearnerService applies engine transitions to stored learners
type LearnerService struct {
	repo     *repository.StateRepository
	notifier Notifier
	now      func() time.Time
}

// NewLearnerService creates a new learner service. notifier may be nil.
func NewLearnerService(repo *repository.StateRepository, notifier Notifier) *LearnerService {
	return &LearnerService{repo: repo, notifier: notifier, now: time.Now}
}

// List returns the public summary of every learner
func (s *LearnerService) List() []LearnerSummary {
	learners := s.repo.Learners()
	summaries := make([]LearnerSummary, 0, len(learners))
	for _, l := range learners {
		summaries = append(summaries, LearnerSummary{ID: l.ID, Name: l.Name, Theme: l.Theme})
	}
	return summaries
}

// Profile returns a learner with level, skills, garden capacity and tasks
func (s *LearnerService) Profile(id string) (LearnerProfile, error) {
	state := s.repo.Snapshot()
	idx := slices.IndexFunc(state.Learners, func(l models.Learner) bool { return l.ID == id })
	if idx < 0 {
		return LearnerProfile{}, repository.ErrLearnerNotFound
	}
	learner := state.Learners[idx]

	tasks := state.TasksFor(id)
	if tasks == nil {
		tasks = []models.Task{}
	}
	return LearnerProfile{
		Learner:       learner,
		Level:         progression.GetLevelInfo(learner.LifetimePoints),
		Skills:        progression.GetSubjectSkills(learner.SubjectXP),
		UnlockedPlots: progression.UnlockedPlotsFor(learner.LifetimePoints),
		Tasks:         tasks,
	}, nil
}

// Toggle completes a task, or un-completes it when it is already done today
func (s *LearnerService) Toggle(ctx context.Context, learnerID string, taskID int64) (engine.CompletionResult, error) {
	return s.complete(ctx, learnerID, taskID, false)
}

// CompleteWithBonus completes a task in bonus mode after a passed
// teach-back. It never un-completes.
func (s *LearnerService) CompleteWithBonus(ctx context.Context, learnerID string, taskID int64) (engine.CompletionResult, error) {
	return s.complete(ctx, learnerID, taskID, true)
}

func (s *LearnerService) complete(ctx context.Context, learnerID string, taskID int64, bonusMode bool) (engine.CompletionResult, error) {
	var result engine.CompletionResult
	_, err := s.repo.Update(ctx, learnerID, func(l models.Learner, catalog []models.Task) (models.Learner, error) {
		task, assigned, err := assignedTask(l, catalog, taskID)
		if err != nil {
			return l, err
		}
		if bonusMode && l.HasCompleted(taskID) {
			return l, ErrAlreadyCompleted
		}
		result = engine.ToggleCompletion(l, task, assigned, bonusMode)
		return result.Learner, nil
	})
	if err != nil {
		return engine.CompletionResult{}, err
	}
	return result, nil
}

// EligibleForTeachBack returns the task when the learner can still earn a
// teach-back bonus on it today
func (s *LearnerService) EligibleForTeachBack(learnerID string, taskID int64) (models.Task, error) {
	learner, err := s.repo.Get(learnerID)
	if err != nil {
		return models.Task{}, err
	}
	task, _, err := assignedTask(learner, s.repo.Tasks(), taskID)
	if err != nil {
		return models.Task{}, err
	}
	if !task.TeachBackBonus {
		return models.Task{}, ErrNotEligible
	}
	if learner.HasCompleted(taskID) {
		return models.Task{}, ErrAlreadyCompleted
	}
	return task, nil
}

// assignedTask finds taskID in the catalog and checks the assignment. It
// also returns the learner's full assigned list.
func assignedTask(l models.Learner, catalog []models.Task, taskID int64) (models.Task, []models.Task, error) {
	idx := slices.IndexFunc(catalog, func(t models.Task) bool { return t.ID == taskID })
	if idx < 0 {
		return models.Task{}, nil, ErrTaskNotFound
	}
	task := catalog[idx]
	if !task.IsAssignedTo(l.ID) {
		return models.Task{}, nil, ErrTaskNotAssigned
	}
	return task, models.AppState{Tasks: catalog}.TasksFor(l.ID), nil
}

// Plant puts a seed in a garden plot
func (s *LearnerService) Plant(ctx context.Context, learnerID string, plot int, species models.Species) (models.Learner, error) {
	return s.repo.Update(ctx, learnerID, func(l models.Learner, _ []models.Task) (models.Learner, error) {
		return engine.Plant(l, plot, species)
	})
}

// Water grows a plant by one stage
func (s *LearnerService) Water(ctx context.Context, learnerID string, plot int) (models.Learner, error) {
	return s.repo.Update(ctx, learnerID, func(l models.Learner, _ []models.Task) (models.Learner, error) {
		return engine.Water(l, plot)
	})
}

// Harvest collects a fully grown plant
func (s *LearnerService) Harvest(ctx context.Context, learnerID string, plot int) (models.Learner, error) {
	return s.repo.Update(ctx, learnerID, func(l models.Learner, _ []models.Task) (models.Learner, error) {
		return engine.Harvest(l, plot, s.now())
	})
}

// AddBook starts a new book in the reading log
func (s *LearnerService) AddBook(ctx context.Context, learnerID, title string, totalPages int) (models.Book, error) {
	if err := validation.ValidateBook(title, totalPages); err != nil {
		return models.Book{}, err
	}

	var book models.Book
	_, err := s.repo.Update(ctx, learnerID, func(l models.Learner, _ []models.Task) (models.Learner, error) {
		next, added := engine.AddBook(l, title, totalPages)
		book = added
		return next, nil
	})
	if err != nil {
		return models.Book{}, err
	}
	return book, nil
}

// LogReading records pages read in a book
func (s *LearnerService) LogReading(ctx context.Context, learnerID string, bookID int64, pages int) (models.Learner, error) {
	if err := validation.ValidatePages(pages); err != nil {
		return models.Learner{}, err
	}
	return s.repo.Update(ctx, learnerID, func(l models.Learner, _ []models.Task) (models.Learner, error) {
		return engine.LogReading(l, bookID, pages)
	})
}

// SetGoal changes the prize a learner is saving for
func (s *LearnerService) SetGoal(ctx context.Context, learnerID string, prize models.Prize) (models.Learner, error) {
	if err := validation.ValidatePrize(prize); err != nil {
		return models.Learner{}, err
	}
	return s.repo.Update(ctx, learnerID, func(l models.Learner, _ []models.Task) (models.Learner, error) {
		return engine.SetGoal(l, prize), nil
	})
}

// Redeem spends points on the current goal and notifies the parent
func (s *LearnerService) Redeem(ctx context.Context, learnerID string) (models.Learner, models.Prize, error) {
	var prize models.Prize
	learner, err := s.repo.Update(ctx, learnerID, func(l models.Learner, _ []models.Task) (models.Learner, error) {
		prize = l.Prize
		return engine.Redeem(l)
	})
	if err != nil {
		return models.Learner{}, models.Prize{}, err
	}

	if s.notifier != nil {
		if err := s.notifier.PrizeRedeemed(ctx, learner, prize); err != nil {
			log.Printf("Failed to send redemption notice for %s: %v", learner.ID, err)
		}
	}
	return learner, prize, nil
}

// SetTheme changes a learner's color theme
func (s *LearnerService) SetTheme(ctx context.Context, learnerID string, theme models.Theme) (models.Learner, error) {
	if !theme.Valid() {
		return models.Learner{}, validation.ValidationError{Field: "theme", Message: fmt.Sprintf("unknown theme %q", theme)}
	}
	return s.repo.Update(ctx, learnerID, func(l models.Learner, _ []models.Task) (models.Learner, error) {
		return engine.SetTheme(l, theme), nil
	})
}

// RegeneratePIN gives a learner a new random PIN and returns it
func (s *LearnerService) RegeneratePIN(ctx context.Context, learnerID string) (string, error) {
	var pin string
	_, err := s.repo.Update(ctx, learnerID, func(l models.Learner, _ []models.Task) (models.Learner, error) {
		newPIN, err := credentials.GenerateNewPIN(l.PIN)
		if err != nil {
			return l, fmt.Errorf("failed to generate pin: %w", err)
		}
		pin = newPIN
		l.PIN = newPIN
		return l, nil
	})
	if err != nil {
		return "", err
	}
	return pin, nil
}

// Dashboard summarises every learner for the parent view
func (s *LearnerService) Dashboard() []LearnerOverview {
	state := s.repo.Snapshot()
	overview := make([]LearnerOverview, 0, len(state.Learners))
	for _, l := range state.Learners {
		assigned := state.TasksFor(l.ID)
		done := 0
		for _, t := range assigned {
			if l.HasCompleted(t.ID) {
				done++
			}
		}

		var goal float64
		if l.Prize.PointsNeeded > 0 {
			goal = min(100, max(0, float64(l.Points)/float64(l.Prize.PointsNeeded)*100))
		}

		overview = append(overview, LearnerOverview{
			ID:             l.ID,
			Name:           l.Name,
			Points:         l.Points,
			LifetimePoints: l.LifetimePoints,
			Streak:         l.Streak,
			BestStreak:     l.BestStreak,
			Level:          progression.GetLevelInfo(l.LifetimePoints),
			CompletedToday: done,
			AssignedToday:  len(assigned),
			Prize:          l.Prize,
			GoalProgress:   goal,
		})
	}
	return overview
}

// ResetDaily starts a new day for every learner and records today as the
// last reset
func (s *LearnerService) ResetDaily(ctx context.Context) error {
	today := engine.DayKey(s.now())
	_, err := s.repo.UpdateState(ctx, func(state models.AppState) (models.AppState, bool, error) {
		for i, l := range state.Learners {
			state.Learners[i] = engine.ResetDaily(l, state.TasksFor(l.ID))
		}
		state.LastReset = today
		return state, true, nil
	})
	return err
}

// RolloverIfDue resets every learner when the saved last reset is before
// today, counting days the server was down. State that has never been reset
// is stamped with today and left alone. It reports whether a reset ran.
func (s *LearnerService) RolloverIfDue(ctx context.Context) (bool, error) {
	today := engine.DayKey(s.now())
	ran := false
	_, err := s.repo.UpdateState(ctx, func(state models.AppState) (models.AppState, bool, error) {
		days, ok := engine.DaysBetween(state.LastReset, today)
		if !ok {
			state.LastReset = today
			return state, true, nil
		}
		if days <= 0 {
			return state, false, nil
		}
		for i, l := range state.Learners {
			state.Learners[i] = engine.Rollover(l, state.TasksFor(l.ID), days)
		}
		state.LastReset = today
		ran = true
		return state, true, nil
	})
	if err != nil {
		return false, err
	}
	return ran, nil
}
