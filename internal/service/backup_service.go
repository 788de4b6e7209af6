package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"time"

	"chorechampions/internal/models"
	"chorechampions/internal/repository"
	"chorechampions/internal/validation"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupData is the on-disk backup format
type BackupData struct {
	Version    string          `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	StoreType  string          `json:"store_type"`
	State      models.AppState `json:"state"`
}

// replacer is implemented by stores that can swap the blob atomically
type replacer interface {
	Replace(ctx context.Context, key string, value []byte) error
}

// BackupService exports and restores the persisted state blob. It talks to
// the store directly, so the server should be stopped during an import.
type BackupService struct {
	store repository.Store
}

// NewBackupService creates a new backup service
func NewBackupService(store repository.Store) *BackupService {
	return &BackupService{store: store}
}

// Export writes a backup of the stored state to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	log.Println("Starting state export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(ctx, file); err != nil {
		return err
	}

	log.Printf("State exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter writes a backup of the stored state to w
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	data, err := s.store.Load(ctx, repository.StateKey)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	state, err := repository.DecodeState(data)
	if err != nil {
		return err
	}

	backup := &BackupData{
		Version:    BackupVersion,
		ExportedAt: time.Now(),
		StoreType:  s.store.Kind(),
		State:      state,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported: %d tasks, %d learners", len(state.Tasks), len(state.Learners))
	return nil
}

// Import restores state from a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string, clear bool) error {
	log.Printf("Starting state import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file, clear)
}

// ImportFromReader restores state from a backup reader. With clear the
// stored state is replaced; otherwise learners and tasks are merged by id,
// with the backup winning.
func (s *BackupService) ImportFromReader(ctx context.Context, reader io.Reader, clear bool) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version == "" {
		return fmt.Errorf("backup has no version")
	}
	log.Printf("Backup version: %s, exported at: %s, from: %s", backup.Version, backup.ExportedAt, backup.StoreType)

	state := backup.State
	if !clear {
		existing, err := s.load(ctx)
		if err != nil {
			return err
		}
		state = mergeState(existing, state)
	}

	if err := validateState(state); err != nil {
		return fmt.Errorf("invalid backup: %w", err)
	}

	data, err := repository.EncodeState(state)
	if err != nil {
		return err
	}

	if clear {
		if r, ok := s.store.(replacer); ok {
			err = r.Replace(ctx, repository.StateKey, data)
		} else {
			if err = s.store.Delete(ctx, repository.StateKey); err == nil {
				err = s.store.Save(ctx, repository.StateKey, data)
			}
		}
	} else {
		err = s.store.Save(ctx, repository.StateKey, data)
	}
	if err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}

	log.Printf("State import completed: %d tasks, %d learners", len(state.Tasks), len(state.Learners))
	return nil
}

func (s *BackupService) load(ctx context.Context) (models.AppState, error) {
	data, err := s.store.Load(ctx, repository.StateKey)
	if errors.Is(err, repository.ErrNotFound) {
		return models.AppState{}, nil
	}
	if err != nil {
		return models.AppState{}, fmt.Errorf("failed to load state: %w", err)
	}
	return repository.DecodeState(data)
}

// mergeState overlays incoming on existing, matching learners and tasks by id
func mergeState(existing, incoming models.AppState) models.AppState {
	merged := existing.Clone()
	for _, l := range incoming.Learners {
		if i := slices.IndexFunc(merged.Learners, func(e models.Learner) bool { return e.ID == l.ID }); i >= 0 {
			merged.Learners[i] = l
		} else {
			merged.Learners = append(merged.Learners, l)
		}
	}
	for _, t := range incoming.Tasks {
		if i := slices.IndexFunc(merged.Tasks, func(e models.Task) bool { return e.ID == t.ID }); i >= 0 {
			merged.Tasks[i] = t
		} else {
			merged.Tasks = append(merged.Tasks, t)
		}
	}
	return merged
}

func validateState(state models.AppState) error {
	ids := make([]string, 0, len(state.Learners))
	for _, l := range state.Learners {
		if l.ID == "" {
			return fmt.Errorf("learner %q has no id", l.Name)
		}
		if slices.Contains(ids, l.ID) {
			return fmt.Errorf("duplicate learner %q", l.ID)
		}
		if err := validation.ValidatePIN(l.PIN); err != nil {
			return fmt.Errorf("learner %s: %w", l.ID, err)
		}
		ids = append(ids, l.ID)
	}

	seen := make(map[int64]bool, len(state.Tasks))
	for _, t := range state.Tasks {
		if seen[t.ID] {
			return fmt.Errorf("duplicate task %d", t.ID)
		}
		seen[t.ID] = true
		if err := validation.ValidateTask(t, ids); err != nil {
			return fmt.Errorf("task %d: %w", t.ID, err)
		}
	}
	return nil
}
