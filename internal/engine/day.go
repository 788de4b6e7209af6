package engine

import (
	"time"

	"chorechampions/internal/models"
)

// DayLayout is the format of a stored calendar day
const DayLayout = "2006-01-02"

// DayKey returns the local calendar day of t
func DayKey(t time.Time) string {
	return t.In(time.Local).Format(DayLayout)
}

// DaysBetween counts calendar days from one day key to another. ok is false
// when either key does not parse.
func DaysBetween(from, to string) (days int, ok bool) {
	a, err := time.Parse(DayLayout, from)
	if err != nil {
		return 0, false
	}
	b, err := time.Parse(DayLayout, to)
	if err != nil {
		return 0, false
	}
	return int(b.Sub(a) / (24 * time.Hour)), true
}

// Rollover applies the daily reset for days elapsed calendar days. A whole
// day with nothing completed breaks the streak as well, so more than two
// passes never change the result.
func Rollover(learner models.Learner, assigned []models.Task, days int) models.Learner {
	next := learner.Clone()
	for i := 0; i < min(days, 2); i++ {
		next = ResetDaily(next, assigned)
	}
	return next
}
