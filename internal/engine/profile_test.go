package engine

import (
	"errors"
	"testing"

	"chorechampions/internal/models"
)

func TestReadingLog(t *testing.T) {
	learner := models.NewLearner("ella", "Ella", 9, "0909", models.ThemePink)

	learner, first := AddBook(learner, "Charlotte's Web", 180)
	learner, second := AddBook(learner, "Matilda", 40)
	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("book ids = %d, %d, want 1, 2", first.ID, second.ID)
	}

	learner, err := LogReading(learner, second.ID, 25)
	if err != nil {
		t.Fatalf("LogReading() unexpected error: %v", err)
	}
	learner, err = LogReading(learner, second.ID, 25)
	if err != nil {
		t.Fatalf("LogReading() unexpected error: %v", err)
	}

	book := learner.ReadingLog[1]
	if book.PagesRead != 40 || !book.Completed {
		t.Errorf("book = %+v, want 40 pages read and completed", book)
	}
	// the overflow still counts as reading experience
	if got := learner.SubjectXP[models.SubjectReading]; got != 50 {
		t.Errorf("reading xp = %d, want 50", got)
	}
	if learner.ReadingStreak != 2 {
		t.Errorf("ReadingStreak = %d, want 2", learner.ReadingStreak)
	}
	if learner.ReadingLog[0].PagesRead != 0 {
		t.Errorf("other book changed: %+v", learner.ReadingLog[0])
	}

	if _, err := LogReading(learner, 99, 5); !errors.Is(err, ErrBookNotFound) {
		t.Errorf("LogReading(unknown) error = %v, want %v", err, ErrBookNotFound)
	}
}

func TestRedeem(t *testing.T) {
	tests := []struct {
		name       string
		points     int
		needed     int
		wantPoints int
		wantErr    error
	}{
		{name: "below goal", points: 99, needed: 100, wantPoints: 99, wantErr: ErrInsufficientPoints},
		{name: "exactly goal", points: 100, needed: 100, wantPoints: 0},
		{name: "above goal", points: 130, needed: 100, wantPoints: 30},
		{name: "nothing saved", points: 0, needed: 50, wantPoints: 0, wantErr: ErrInsufficientPoints},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			learner := models.NewLearner("sophia", "Sophia", 13, "1313", models.ThemePurple)
			learner.Points = tt.points
			learner.LifetimePoints = 500
			learner.Prize = models.Prize{Name: "Ice Cream Trip", PointsNeeded: tt.needed}

			got, err := Redeem(learner)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Redeem() error = %v, want %v", err, tt.wantErr)
			}
			if got.Points != tt.wantPoints {
				t.Errorf("Points = %d, want %d", got.Points, tt.wantPoints)
			}
			if got.LifetimePoints != 500 {
				t.Errorf("LifetimePoints = %d, want 500", got.LifetimePoints)
			}
		})
	}
}

func TestSetGoalAndTheme(t *testing.T) {
	learner := models.NewLearner("sophia", "Sophia", 13, "1313", models.ThemePurple)

	got := SetGoal(learner, models.Prize{Name: "New Book", PointsNeeded: 120})
	if got.Prize.Name != "New Book" || got.Prize.PointsNeeded != 120 {
		t.Errorf("Prize = %+v", got.Prize)
	}
	if learner.Prize.Name != "Movie Night Pick" {
		t.Errorf("input prize changed to %+v", learner.Prize)
	}

	got = SetTheme(got, models.ThemeGreen)
	if got.Theme != models.ThemeGreen {
		t.Errorf("Theme = %v, want %v", got.Theme, models.ThemeGreen)
	}
}
