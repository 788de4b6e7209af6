package service

import (
	"context"
	"errors"
	"testing"

	"chorechampions/internal/models"
	"chorechampions/internal/repository"
	"chorechampions/internal/validation"
)

func TestCatalogCreate(t *testing.T) {
	tests := []struct {
		name      string
		task      models.Task
		wantField string
	}{
		{name: "valid chore", task: models.Task{Title: " Feed cat ", Points: 5, Category: models.CategoryChore, AssignedTo: []string{"ella"}}},
		{name: "blank title", task: models.Task{Title: "   ", Points: 5, Category: models.CategoryChore, AssignedTo: []string{"ella"}}, wantField: "title"},
		{name: "no learners", task: models.Task{Title: "Feed cat", Points: 5, Category: models.CategoryChore}, wantField: "assignedTo"},
		{name: "unknown learner", task: models.Task{Title: "Feed cat", Points: 5, Category: models.CategoryChore, AssignedTo: []string{"max"}}, wantField: "assignedTo"},
		{name: "negative points", task: models.Task{Title: "Feed cat", Points: -1, Category: models.CategoryChore, AssignedTo: []string{"ella"}}, wantField: "points"},
		{name: "unknown subject", task: models.Task{Title: "Study", Points: 5, Category: models.CategoryLearning, Subject: "history", AssignedTo: []string{"ella"}}, wantField: "subject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _ := newTestRepo(t)
			catalog := NewCatalogService(repo)

			task, err := catalog.Create(context.Background(), tt.task)
			if tt.wantField != "" {
				var verr validation.ValidationError
				if !errors.As(err, &verr) || verr.Field != tt.wantField {
					t.Fatalf("Create() error = %v, want ValidationError on %s", err, tt.wantField)
				}
				if got := len(catalog.List()); got != 6 {
					t.Errorf("catalog size = %d after a rejected create, want 6", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if task.ID != 7 || task.Title != "Feed cat" {
				t.Errorf("Create() = %+v, want id 7 with trimmed title", task)
			}
		})
	}
}

func TestCatalogUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	catalog := NewCatalogService(repo)

	points := 30
	bonus := false
	task, err := catalog.Update(ctx, 4, TaskUpdate{Points: &points, TeachBackBonus: &bonus})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if task.Points != 30 || task.TeachBackBonus || task.Title != "Do homework" {
		t.Errorf("Update() = %+v", task)
	}

	empty := ""
	if _, err := catalog.Update(ctx, 4, TaskUpdate{Title: &empty}); err == nil {
		t.Error("Update() accepted an empty title")
	}
	if _, err := catalog.Update(ctx, 99, TaskUpdate{Points: &points}); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Update() unknown id error = %v", err)
	}

	if err := catalog.Delete(ctx, 6); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := catalog.Delete(ctx, 6); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("second Delete() error = %v", err)
	}

	created, _ := catalog.Create(ctx, models.Task{Title: "Walk dog", Points: 10, Category: models.CategoryChore, AssignedTo: []string{"sophia"}})
	if created.ID != 6 {
		t.Errorf("next id after deleting the last task = %d, want 6", created.ID)
	}
}

func TestCatalogVisibleTo(t *testing.T) {
	repo, _ := newTestRepo(t)
	catalog := NewCatalogService(repo)

	tests := []struct {
		learner string
		want    int
		wantErr error
	}{
		{learner: "sophia", want: 6},
		{learner: "ella", want: 5},
		{learner: "max", wantErr: repository.ErrLearnerNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.learner, func(t *testing.T) {
			tasks, err := catalog.VisibleTo(tt.learner)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("VisibleTo() error = %v, want %v", err, tt.wantErr)
			}
			if len(tasks) != tt.want {
				t.Errorf("VisibleTo() returned %d tasks, want %d", len(tasks), tt.want)
			}
		})
	}
}
