package service

import (
	"context"
	"testing"

	"chorechampions/internal/models"
	"chorechampions/internal/repository"
	"chorechampions/internal/seed"
)

// newTestRepo returns a repository over a memory store holding the default household
func newTestRepo(t *testing.T) (*repository.StateRepository, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	repo := repository.NewStateRepository(store)
	if _, err := repo.Load(context.Background(), func() (models.AppState, error) { return seed.Default(), nil }); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return repo, store
}

// withPoints sets a learner's balance directly
func withPoints(t *testing.T, repo *repository.StateRepository, id string, points, lifetime int) {
	t.Helper()
	_, err := repo.Update(context.Background(), id, func(l models.Learner, _ []models.Task) (models.Learner, error) {
		l.Points = points
		l.LifetimePoints = lifetime
		return l, nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
}
