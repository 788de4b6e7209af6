package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chorechampions/internal/models"
	"chorechampions/internal/repository"
)

func TestBackupExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepo(t)
	learners := NewLearnerService(repo, nil)
	learners.Toggle(ctx, "ella", 4)

	path := filepath.Join(t.TempDir(), "backup.json")
	backup := NewBackupService(store)
	if err := backup.Export(ctx, path); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	var data BackupData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("backup is not valid JSON: %v", err)
	}
	if data.Version != BackupVersion || data.StoreType != "memory" || len(data.State.Tasks) != 6 {
		t.Errorf("backup header = %s/%s, %d tasks", data.Version, data.StoreType, len(data.State.Tasks))
	}

	target := repository.NewMemoryStore()
	if err := NewBackupService(target).Import(ctx, path, true); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	restored := repository.NewStateRepository(target)
	if _, err := restored.Load(ctx, func() (models.AppState, error) { return models.AppState{}, errors.New("should not seed") }); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	ella, _ := restored.Get("ella")
	if ella.Points != 25 || !ella.HasCompleted(4) {
		t.Errorf("restored ella = %d points, completed %v", ella.Points, ella.CompletedToday)
	}
}

func TestBackupImportMerge(t *testing.T) {
	ctx := context.Background()
	_, store := newTestRepo(t)

	incoming := BackupData{
		Version: BackupVersion,
		State: models.AppState{
			Tasks: []models.Task{
				{ID: 1, Title: "Make bed neatly", Points: 12, Category: models.CategoryChore, AssignedTo: []string{"ella"}},
				{ID: 10, Title: "Walk dog", Points: 8, Category: models.CategoryChore, AssignedTo: []string{"max"}},
			},
			Learners: []models.Learner{models.NewLearner("max", "Max", 7, "7777", models.ThemeBlue)},
		},
	}
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(incoming)

	if err := NewBackupService(store).ImportFromReader(ctx, &buf, false); err != nil {
		t.Fatalf("ImportFromReader() error = %v", err)
	}

	data, _ := store.Load(ctx, repository.StateKey)
	state, err := repository.DecodeState(data)
	if err != nil {
		t.Fatalf("DecodeState() error = %v", err)
	}
	if len(state.Learners) != 3 || len(state.Tasks) != 7 {
		t.Errorf("merged state has %d learners, %d tasks; want 3, 7", len(state.Learners), len(state.Tasks))
	}
	if state.Tasks[0].Title != "Make bed neatly" {
		t.Errorf("task 1 not replaced: %+v", state.Tasks[0])
	}
}

func TestBackupImportRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: "garbage"},
		{name: "no version", input: `{"state":{"tasks":[],"learners":[]}}`},
		{name: "unknown category", input: `{"version":"1.0","state":{"tasks":[{"id":1,"title":"x","points":1,"category":"homework","assignedTo":["a"]}],"learners":[]}}`},
		{name: "task for missing learner", input: `{"version":"1.0","state":{"tasks":[{"id":1,"title":"x","points":1,"category":"chore","assignedTo":["nobody"]}],"learners":[]}}`},
		{name: "bad pin", input: `{"version":"1.0","state":{"tasks":[],"learners":[{"id":"a","name":"Al","pin":"12"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := repository.NewMemoryStore()
			err := NewBackupService(store).ImportFromReader(context.Background(), strings.NewReader(tt.input), true)
			if err == nil {
				t.Fatal("ImportFromReader() should fail")
			}
			if _, err := store.Load(context.Background(), repository.StateKey); !errors.Is(err, repository.ErrNotFound) {
				t.Error("a rejected import wrote state")
			}
		})
	}
}

func TestBackupExportEmptyStore(t *testing.T) {
	err := NewBackupService(repository.NewMemoryStore()).ExportToWriter(context.Background(), &bytes.Buffer{})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("ExportToWriter() error = %v, want %v", err, repository.ErrNotFound)
	}
}
