package engine

import (
	"slices"

	"chorechampions/internal/models"
)

// AddBook appends a new, unread book to the reading log. Validation of the
// title and page count happens in the service layer.
func AddBook(learner models.Learner, title string, totalPages int) (models.Learner, models.Book) {
	next := learner.Clone()
	var id int64 = 1
	for _, b := range next.ReadingLog {
		id = max(id, b.ID+1)
	}
	book := models.Book{ID: id, Title: title, TotalPages: totalPages}
	next.ReadingLog = append(next.ReadingLog, book)
	return next, book
}

// LogReading records pages read in a book. The page count is capped at the
// book length but the full amount counts as reading experience.
func LogReading(learner models.Learner, bookID int64, pages int) (models.Learner, error) {
	idx := slices.IndexFunc(learner.ReadingLog, func(b models.Book) bool { return b.ID == bookID })
	if idx < 0 {
		return learner, ErrBookNotFound
	}

	next := learner.Clone()
	book := &next.ReadingLog[idx]
	book.PagesRead = min(book.PagesRead+pages, book.TotalPages)
	book.Completed = book.PagesRead >= book.TotalPages
	next.SubjectXP[models.SubjectReading] += pages
	next.ReadingStreak++
	return next, nil
}

// SetGoal replaces the prize the learner is saving for
func SetGoal(learner models.Learner, prize models.Prize) models.Learner {
	next := learner.Clone()
	next.Prize = prize
	return next
}

// Redeem spends the goal's cost. Below the goal the learner is returned
// unchanged together with ErrInsufficientPoints.
func Redeem(learner models.Learner) (models.Learner, error) {
	if learner.Points < learner.Prize.PointsNeeded {
		return learner, ErrInsufficientPoints
	}
	next := learner.Clone()
	next.Points -= learner.Prize.PointsNeeded
	return next, nil
}

// SetTheme changes the learner's color theme
func SetTheme(learner models.Learner, theme models.Theme) models.Learner {
	next := learner.Clone()
	next.Theme = theme
	return next
}

// ResetDaily starts a new day: today's completions are cleared and the
// streak is broken unless every assigned task was finished.
func ResetDaily(learner models.Learner, assigned []models.Task) models.Learner {
	next := learner.Clone()
	if !allComplete(next, assigned) {
		next.Streak = 0
	}
	next.CompletedToday = []int64{}
	next.TotalCompleted = 0
	return next
}
