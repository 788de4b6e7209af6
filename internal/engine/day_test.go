package engine

import (
	"testing"
	"time"

	"chorechampions/internal/models"
)

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name   string
		from   string
		to     string
		want   int
		wantOK bool
	}{
		{name: "same day", from: "2026-03-07", to: "2026-03-07", want: 0, wantOK: true},
		{name: "next day", from: "2026-03-07", to: "2026-03-08", want: 1, wantOK: true},
		{name: "across dst change", from: "2026-03-07", to: "2026-03-09", want: 2, wantOK: true},
		{name: "month boundary", from: "2026-01-31", to: "2026-02-01", want: 1, wantOK: true},
		{name: "clock went back", from: "2026-03-08", to: "2026-03-07", want: -1, wantOK: true},
		{name: "never reset", from: "", to: "2026-03-07", wantOK: false},
		{name: "garbage", from: "yesterday", to: "2026-03-07", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DaysBetween(tt.from, tt.to)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("DaysBetween(%q, %q) = %d, %v, want %d, %v", tt.from, tt.to, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDayKeyUsesLocalTime(t *testing.T) {
	at := time.Date(2026, 3, 7, 23, 30, 0, 0, time.Local)
	if got := DayKey(at); got != "2026-03-07" {
		t.Errorf("DayKey() = %q, want 2026-03-07", got)
	}
}

func TestRollover(t *testing.T) {
	assigned := []models.Task{{ID: 1, Points: 10}, {ID: 2, Points: 5}}

	tests := []struct {
		name       string
		completed  []int64
		assigned   []models.Task
		days       int
		wantStreak int
	}{
		{name: "no day passed", completed: []int64{1}, assigned: assigned, days: 0, wantStreak: 5},
		{name: "finished yesterday", completed: []int64{1, 2}, assigned: assigned, days: 1, wantStreak: 5},
		{name: "missed yesterday", completed: []int64{1}, assigned: assigned, days: 1, wantStreak: 0},
		{name: "finished then a day away", completed: []int64{1, 2}, assigned: assigned, days: 2, wantStreak: 0},
		{name: "a week away", completed: []int64{1, 2}, assigned: assigned, days: 7, wantStreak: 0},
		{name: "nothing assigned", completed: nil, assigned: nil, days: 3, wantStreak: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			learner := models.NewLearner("ella", "Ella", 9, "0909", models.ThemePink)
			learner.Streak = 5
			learner.CompletedToday = append([]int64{}, tt.completed...)

			got := Rollover(learner, tt.assigned, tt.days)
			if got.Streak != tt.wantStreak {
				t.Errorf("Streak = %d, want %d", got.Streak, tt.wantStreak)
			}
			if tt.days > 0 && len(got.CompletedToday) != 0 {
				t.Errorf("CompletedToday = %v, want empty", got.CompletedToday)
			}
			if tt.days == 0 && len(got.CompletedToday) != len(tt.completed) {
				t.Errorf("CompletedToday = %v, want %v", got.CompletedToday, tt.completed)
			}
		})
	}
}
