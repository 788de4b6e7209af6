package engine

import (
	"slices"
	"testing"

	"chorechampions/internal/models"
)

func testTasks() []models.Task {
	return []models.Task{
		{ID: 1, Title: "Make bed", Points: 10, Category: models.CategoryChore, AssignedTo: []string{"sophia"}},
		{ID: 2, Title: "Do homework", Points: 25, Category: models.CategoryLearning, Subject: models.SubjectMath, AssignedTo: []string{"sophia"}, TeachBackBonus: true},
		{ID: 3, Title: "Read", Points: 15, Category: models.CategoryLearning, Subject: models.SubjectReading, AssignedTo: []string{"sophia"}},
	}
}

func TestEffectivePoints(t *testing.T) {
	tests := []struct {
		name  string
		task  models.Task
		bonus bool
		want  int
	}{
		{name: "plain chore", task: models.Task{Points: 10}, bonus: false, want: 10},
		{name: "bonus ignored when not eligible", task: models.Task{Points: 10}, bonus: true, want: 10},
		{name: "eligible without bonus", task: models.Task{Points: 25, TeachBackBonus: true}, bonus: false, want: 25},
		{name: "eligible with bonus floors", task: models.Task{Points: 25, TeachBackBonus: true}, bonus: true, want: 37},
		{name: "even bonus", task: models.Task{Points: 20, TeachBackBonus: true}, bonus: true, want: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectivePoints(tt.task, tt.bonus); got != tt.want {
				t.Errorf("EffectivePoints() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToggleCompletionRoundTrip(t *testing.T) {
	tasks := testTasks()
	learner := models.NewLearner("sophia", "Sophia", 13, "1313", models.ThemePurple)
	learner.Points = 40
	learner.LifetimePoints = 90
	learner.Streak = 2

	done := ToggleCompletion(learner, tasks[1], tasks, false)
	if done.Event != EventTaskComplete {
		t.Errorf("Event = %v, want %v", done.Event, EventTaskComplete)
	}
	if done.Learner.Points != 65 || done.Learner.LifetimePoints != 115 || done.Learner.TotalCompleted != 1 {
		t.Errorf("after complete got points=%d lifetime=%d total=%d",
			done.Learner.Points, done.Learner.LifetimePoints, done.Learner.TotalCompleted)
	}
	if done.Learner.SubjectXP[models.SubjectMath] != 25 {
		t.Errorf("math xp = %d, want 25", done.Learner.SubjectXP[models.SubjectMath])
	}

	undone := ToggleCompletion(done.Learner, tasks[1], tasks, false)
	if undone.Event != EventTaskUncompleted {
		t.Errorf("Event = %v, want %v", undone.Event, EventTaskUncompleted)
	}
	if undone.PointsDelta != -25 {
		t.Errorf("PointsDelta = %d, want -25", undone.PointsDelta)
	}
	got := undone.Learner
	if got.Points != learner.Points || got.LifetimePoints != learner.LifetimePoints || got.TotalCompleted != learner.TotalCompleted {
		t.Errorf("round trip got points=%d lifetime=%d total=%d, want %d %d %d",
			got.Points, got.LifetimePoints, got.TotalCompleted, learner.Points, learner.LifetimePoints, learner.TotalCompleted)
	}
	if got.HasCompleted(tasks[1].ID) {
		t.Error("task still marked completed after un-completing")
	}
	// experience is not taken back
	if got.SubjectXP[models.SubjectMath] != 25 {
		t.Errorf("math xp after un-complete = %d, want 25", got.SubjectXP[models.SubjectMath])
	}
	if got.Streak != 2 {
		t.Errorf("streak = %d, want 2", got.Streak)
	}
}

func TestToggleCompletionStreakKeptOnUncomplete(t *testing.T) {
	tasks := testTasks()[:1]
	learner := models.NewLearner("sophia", "Sophia", 13, "1313", models.ThemePurple)

	done := ToggleCompletion(learner, tasks[0], tasks, false)
	if done.Event != EventAllComplete || done.Learner.Streak != 1 {
		t.Fatalf("Event = %v streak = %d, want all_complete and 1", done.Event, done.Learner.Streak)
	}

	undone := ToggleCompletion(done.Learner, tasks[0], tasks, false)
	if undone.Learner.Streak != 1 || undone.Learner.BestStreak != 1 {
		t.Errorf("streak = %d best = %d after un-complete, want 1 and 1", undone.Learner.Streak, undone.Learner.BestStreak)
	}
}

func TestToggleCompletionStreakOnLastTask(t *testing.T) {
	tasks := testTasks()
	learner := models.NewLearner("sophia", "Sophia", 13, "1313", models.ThemePurple)
	learner.Streak = 4
	learner.BestStreak = 4

	for _, task := range tasks[:len(tasks)-1] {
		res := ToggleCompletion(learner, task, tasks, false)
		if res.Event != EventTaskComplete {
			t.Errorf("completing %q: Event = %v, want %v", task.Title, res.Event, EventTaskComplete)
		}
		if res.Learner.Streak != 4 {
			t.Errorf("completing %q changed streak to %d", task.Title, res.Learner.Streak)
		}
		learner = res.Learner
	}

	res := ToggleCompletion(learner, tasks[len(tasks)-1], tasks, false)
	if res.Event != EventAllComplete {
		t.Errorf("Event = %v, want %v", res.Event, EventAllComplete)
	}
	if res.Learner.Streak != 5 || res.Learner.BestStreak != 5 {
		t.Errorf("streak = %d best = %d, want 5 and 5", res.Learner.Streak, res.Learner.BestStreak)
	}
}

func TestToggleCompletionBestStreakNotLowered(t *testing.T) {
	tasks := testTasks()[:1]
	learner := models.NewLearner("ella", "Ella", 9, "0909", models.ThemePink)
	learner.BestStreak = 10

	res := ToggleCompletion(learner, tasks[0], tasks, false)
	if res.Learner.Streak != 1 || res.Learner.BestStreak != 10 {
		t.Errorf("streak = %d best = %d, want 1 and 10", res.Learner.Streak, res.Learner.BestStreak)
	}
}

func TestToggleCompletionBonus(t *testing.T) {
	tasks := testTasks()
	learner := models.NewLearner("sophia", "Sophia", 13, "1313", models.ThemePurple)
	learner.Points = 40

	res := ToggleCompletion(learner, tasks[1], tasks, true)
	if res.Learner.Points != 77 {
		t.Errorf("Points = %d, want 77", res.Learner.Points)
	}
	if res.Learner.SubjectXP[models.SubjectMath] != 25 {
		t.Errorf("bonus must not multiply experience: math xp = %d, want 25", res.Learner.SubjectXP[models.SubjectMath])
	}
}

func TestToggleCompletionChoreGivesNoExperience(t *testing.T) {
	tasks := testTasks()
	learner := models.NewLearner("sophia", "Sophia", 13, "1313", models.ThemePurple)

	res := ToggleCompletion(learner, tasks[0], tasks, false)
	for subject, xp := range res.Learner.SubjectXP {
		if xp != 0 {
			t.Errorf("%s xp = %d, want 0", subject, xp)
		}
	}
}

func TestToggleCompletionDoesNotMutateInput(t *testing.T) {
	tasks := testTasks()
	learner := models.NewLearner("sophia", "Sophia", 13, "1313", models.ThemePurple)

	ToggleCompletion(learner, tasks[2], tasks, false)

	if len(learner.CompletedToday) != 0 || learner.SubjectXP[models.SubjectReading] != 0 || learner.Points != 0 {
		t.Errorf("input learner was modified: %+v", learner)
	}
}

func TestResetDaily(t *testing.T) {
	tasks := testTasks()

	tests := []struct {
		name       string
		completed  []int64
		wantStreak int
	}{
		{name: "all tasks finished keeps streak", completed: []int64{1, 2, 3}, wantStreak: 3},
		{name: "missed a task breaks streak", completed: []int64{1, 3}, wantStreak: 0},
		{name: "nothing done breaks streak", completed: nil, wantStreak: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			learner := models.NewLearner("sophia", "Sophia", 13, "1313", models.ThemePurple)
			learner.Streak = 3
			learner.BestStreak = 6
			learner.CompletedToday = slices.Clone(tt.completed)
			learner.TotalCompleted = len(tt.completed)

			got := ResetDaily(learner, tasks)
			if got.Streak != tt.wantStreak {
				t.Errorf("Streak = %d, want %d", got.Streak, tt.wantStreak)
			}
			if got.BestStreak != 6 {
				t.Errorf("BestStreak = %d, want 6", got.BestStreak)
			}
			if len(got.CompletedToday) != 0 || got.TotalCompleted != 0 {
				t.Errorf("completed today not cleared: %v / %d", got.CompletedToday, got.TotalCompleted)
			}
		})
	}
}
