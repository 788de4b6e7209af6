// Package engine holds the pure state transitions applied to a learner
// profile. Every function takes the current learner by value and returns the
// next one; the input is never modified.
package engine

import (
	"errors"
	"slices"

	"chorechampions/internal/models"
)

// BonusMultiplier is applied to teach-back eligible tasks completed in bonus mode
const BonusMultiplier = 1.5

var (
	ErrInvalidPlotState   = errors.New("invalid plot state")
	ErrNothingToHarvest   = errors.New("nothing to harvest")
	ErrInsufficientPoints = errors.New("not enough points")
	ErrBookNotFound       = errors.New("book not found")
)

// Event tells the presentation layer which acknowledgment to play
type Event string

const (
	EventTaskUncompleted Event = "task_uncompleted"
	EventTaskComplete    Event = "task_complete"
	EventAllComplete     Event = "all_complete"
)

// CompletionResult is the outcome of toggling one task
type CompletionResult struct {
	Learner     models.Learner
	Event       Event
	PointsDelta int
}

// EffectivePoints returns what a task is worth. Bonus mode only counts for
// tasks that are teach-back eligible.
func EffectivePoints(task models.Task, bonusMode bool) int {
	if bonusMode && task.TeachBackBonus {
		return int(float64(task.Points) * BonusMultiplier)
	}
	return task.Points
}

// ToggleCompletion completes the task, or un-completes it when it is already
// in today's set. assigned is the learner's full task list and decides
// whether this completion finishes the day.
//
// Un-completing gives back points, lifetime points and the completed count
// but leaves subject experience and the streak alone.
func ToggleCompletion(learner models.Learner, task models.Task, assigned []models.Task, bonusMode bool) CompletionResult {
	next := learner.Clone()
	points := EffectivePoints(task, bonusMode)

	if next.HasCompleted(task.ID) {
		next.CompletedToday = slices.DeleteFunc(next.CompletedToday, func(id int64) bool { return id == task.ID })
		next.Points -= points
		next.LifetimePoints -= points
		next.TotalCompleted--
		return CompletionResult{Learner: next, Event: EventTaskUncompleted, PointsDelta: -points}
	}

	next.CompletedToday = append(next.CompletedToday, task.ID)
	next.Points += points
	next.LifetimePoints += points
	next.TotalCompleted++

	if task.Category == models.CategoryLearning && task.Subject != "" {
		next.SubjectXP[task.Subject] += task.Points
	}

	event := EventTaskComplete
	if allComplete(next, assigned) {
		next.Streak++
		next.BestStreak = max(next.BestStreak, next.Streak)
		event = EventAllComplete
	}

	return CompletionResult{Learner: next, Event: event, PointsDelta: points}
}

func allComplete(learner models.Learner, assigned []models.Task) bool {
	for _, t := range assigned {
		if !learner.HasCompleted(t.ID) {
			return false
		}
	}
	return true
}
