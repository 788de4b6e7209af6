// Package seed provides the state a fresh installation starts with, either
// the built-in household or one described in a YAML file.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"chorechampions/internal/models"
	"chorechampions/internal/validation"
)

// Default returns the built-in catalog and the two starter learners
func Default() models.AppState {
	sophia := models.NewLearner("sophia", "Sophia", 13, "1313", models.ThemePurple)
	sophia.Resources = []models.Resource{{
		Name:        "8th Grade Math Tutor",
		URL:         "https://gemini.google.com/gem/13DAOAjMybCBMuVwtAg12_l1rt_EMV4Bh",
		Description: "Your personal AI math tutor for 8th grade curriculum",
	}}

	ella := models.NewLearner("ella", "Ella", 9, "0909", models.ThemePink)
	ella.Resources = []models.Resource{{
		Name:        "4th Grade Math Tutor",
		URL:         "https://gemini.google.com/gem/1AvTu_mAJjX6YJwEvvQA_F57L3ARl8thl",
		Description: "Your personal AI math tutor for 4th grade curriculum",
	}}

	both := []string{"sophia", "ella"}
	return models.AppState{
		Tasks: []models.Task{
			{ID: 1, Title: "Make bed", Points: 10, Category: models.CategoryChore, AssignedTo: both},
			{ID: 2, Title: "Brush teeth (morning)", Points: 5, Category: models.CategoryChore, AssignedTo: both},
			{ID: 3, Title: "Clean room", Points: 20, Category: models.CategoryChore, AssignedTo: both},
			{ID: 4, Title: "Do homework", Points: 25, Category: models.CategoryLearning, Subject: models.SubjectMath, AssignedTo: both, TeachBackBonus: true},
			{ID: 5, Title: "Read for 20 minutes", Points: 15, Category: models.CategoryLearning, Subject: models.SubjectReading, AssignedTo: both, TeachBackBonus: true},
			{ID: 6, Title: "Practice piano", Points: 20, Category: models.CategoryLearning, Subject: models.SubjectMusic, AssignedTo: []string{"sophia"}, TeachBackBonus: true},
		},
		Learners: []models.Learner{sophia, ella},
	}
}

// file is the YAML layout. Learners only carry their identity; progression
// always starts from zero.
type file struct {
	Learners []struct {
		ID        string            `yaml:"id"`
		Name      string            `yaml:"name"`
		Age       int               `yaml:"age"`
		PIN       string            `yaml:"pin"`
		Theme     models.Theme      `yaml:"theme"`
		Resources []models.Resource `yaml:"resources"`
	} `yaml:"learners"`
	Tasks []models.Task `yaml:"tasks"`
}

// LoadFile reads a YAML seed file
func LoadFile(path string) (models.AppState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.AppState{}, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes and validates a YAML seed
func Parse(r io.Reader) (models.AppState, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return models.AppState{}, fmt.Errorf("failed to decode seed file: %w", err)
	}
	if len(f.Learners) == 0 {
		return models.AppState{}, fmt.Errorf("seed file must define at least one learner")
	}

	state := models.AppState{Tasks: []models.Task{}}
	ids := make([]string, 0, len(f.Learners))
	for _, l := range f.Learners {
		if l.ID == "" {
			return models.AppState{}, validation.ValidationError{Field: "id", Message: "learner id is required"}
		}
		if err := validation.ValidateName(l.Name); err != nil {
			return models.AppState{}, fmt.Errorf("learner %s: %w", l.ID, err)
		}
		if err := validation.ValidatePIN(l.PIN); err != nil {
			return models.AppState{}, fmt.Errorf("learner %s: %w", l.ID, err)
		}
		for _, existing := range ids {
			if existing == l.ID {
				return models.AppState{}, fmt.Errorf("duplicate learner id %q", l.ID)
			}
		}
		ids = append(ids, l.ID)

		theme := l.Theme
		if theme == "" {
			theme = models.ThemePurple
		}
		learner := models.NewLearner(l.ID, l.Name, l.Age, l.PIN, theme)
		learner.Resources = l.Resources
		state.Learners = append(state.Learners, learner)
	}

	seen := make(map[int64]bool, len(f.Tasks))
	for i, t := range f.Tasks {
		if t.ID == 0 {
			t.ID = int64(i + 1)
		}
		if seen[t.ID] {
			return models.AppState{}, fmt.Errorf("duplicate task id %d", t.ID)
		}
		seen[t.ID] = true
		if err := validation.ValidateTask(t, ids); err != nil {
			return models.AppState{}, fmt.Errorf("task %q: %w", t.Title, err)
		}
		state.Tasks = append(state.Tasks, t)
	}

	return state, nil
}
