package engine

import (
	"fmt"
	"time"

	"chorechampions/internal/models"
	"chorechampions/internal/progression"
)

var (
	ErrPlotLocked   = fmt.Errorf("%w: plot is locked", ErrInvalidPlotState)
	ErrPlotOccupied = fmt.Errorf("%w: plot is already planted", ErrInvalidPlotState)
	ErrPlotEmpty    = fmt.Errorf("%w: plot is empty", ErrInvalidPlotState)
	ErrUnknownPlot  = fmt.Errorf("%w: no such plot", ErrInvalidPlotState)
	ErrUnknownPlant = fmt.Errorf("%w: unknown species", ErrInvalidPlotState)
)

// Plant puts a seedling into an empty, unlocked plot
func Plant(learner models.Learner, plotIndex int, species models.Species) (models.Learner, error) {
	if !species.Valid() {
		return learner, ErrUnknownPlant
	}
	if err := checkUnlocked(learner, plotIndex); err != nil {
		return learner, err
	}
	if !learner.Garden.Plots[plotIndex].IsEmpty() {
		return learner, ErrPlotOccupied
	}

	next := learner.Clone()
	next.Garden.Plots[plotIndex] = models.Plot{ID: plotIndex, Plant: species, Stage: 0, Health: 100}
	return next, nil
}

// Water grows a planted plot by one stage, up to the harvestable stage
func Water(learner models.Learner, plotIndex int) (models.Learner, error) {
	if err := checkUnlocked(learner, plotIndex); err != nil {
		return learner, err
	}
	if learner.Garden.Plots[plotIndex].IsEmpty() {
		return learner, ErrPlotEmpty
	}

	next := learner.Clone()
	plot := &next.Garden.Plots[plotIndex]
	plot.Stage = min(models.MaxStage, plot.Stage+1)
	plot.Health = 100
	return next, nil
}

// Harvest clears a fully grown plot, records it and pays out its points
func Harvest(learner models.Learner, plotIndex int, now time.Time) (models.Learner, error) {
	if plotIndex < 0 || plotIndex >= len(learner.Garden.Plots) {
		return learner, ErrUnknownPlot
	}
	plot := learner.Garden.Plots[plotIndex]
	if plot.IsEmpty() || plot.Stage != models.MaxStage {
		return learner, ErrNothingToHarvest
	}
	if err := checkUnlocked(learner, plotIndex); err != nil {
		return learner, err
	}
	plant, ok := models.PlantTypes[plot.Plant]
	if !ok {
		return learner, ErrNothingToHarvest
	}

	next := learner.Clone()
	next.Garden.Plots[plotIndex] = models.Plot{ID: plotIndex, Health: 100}
	next.Garden.HarvestHistory = append(next.Garden.HarvestHistory, models.HarvestRecord{
		Plant:  plot.Plant,
		Points: plant.HarvestPoints,
		Date:   now,
	})
	next.Points += plant.HarvestPoints
	next.LifetimePoints += plant.HarvestPoints
	return next, nil
}

func checkUnlocked(learner models.Learner, plotIndex int) error {
	if plotIndex < 0 || plotIndex >= len(learner.Garden.Plots) {
		return ErrUnknownPlot
	}
	if plotIndex >= progression.UnlockedPlotsFor(learner.LifetimePoints) {
		return ErrPlotLocked
	}
	return nil
}
