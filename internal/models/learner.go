package models

import (
	"slices"
	"time"
)

// PlotCount is the fixed number of garden slots per learner
const PlotCount = 8

// MaxStage is the growth stage at which a plant can be harvested
const MaxStage = 4

// Learner represents a child profile and all of its progression state
type Learner struct {
	ID             string          `json:"id" yaml:"id"`
	Name           string          `json:"name" yaml:"name"`
	Age            int             `json:"age" yaml:"age"`
	PIN            string          `json:"pin" yaml:"pin"`
	Points         int             `json:"points" yaml:"points"`
	LifetimePoints int             `json:"lifetimePoints" yaml:"lifetimePoints"`
	TotalCompleted int             `json:"totalCompleted" yaml:"totalCompleted"`
	Streak         int             `json:"streak" yaml:"streak"`
	BestStreak     int             `json:"bestStreak" yaml:"bestStreak"`
	CompletedToday []int64         `json:"completedToday" yaml:"completedToday"`
	Prize          Prize           `json:"prize" yaml:"prize"`
	SubjectXP      map[Subject]int `json:"subjectXP" yaml:"subjectXP"`
	ReadingLog     []Book          `json:"readingLog" yaml:"readingLog"`
	ReadingStreak  int             `json:"readingStreak" yaml:"readingStreak"`
	Garden         Garden          `json:"garden" yaml:"garden"`
	Theme          Theme           `json:"theme" yaml:"theme"`
	Resources      []Resource      `json:"resources,omitempty" yaml:"resources,omitempty"`
}

// Prize is the goal a learner is saving points towards
type Prize struct {
	Name         string `json:"name" yaml:"name"`
	PointsNeeded int    `json:"pointsNeeded" yaml:"pointsNeeded"`
}

// Book is one entry of a learner's reading log
type Book struct {
	ID         int64  `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	TotalPages int    `json:"totalPages" yaml:"totalPages"`
	PagesRead  int    `json:"pagesRead" yaml:"pagesRead"`
	Completed  bool   `json:"completed" yaml:"completed"`
}

// Garden holds the plot slots and everything harvested so far
type Garden struct {
	Plots          []Plot          `json:"plots" yaml:"plots"`
	HarvestHistory []HarvestRecord `json:"harvestHistory" yaml:"harvestHistory"`
}

// Plot is a single garden slot. An empty Plant means nothing is growing.
type Plot struct {
	ID     int     `json:"id" yaml:"id"`
	Plant  Species `json:"plant" yaml:"plant"`
	Stage  int     `json:"stage" yaml:"stage"`
	Health int     `json:"health" yaml:"health"`
}

// IsEmpty reports whether nothing is planted in the plot
func (p Plot) IsEmpty() bool {
	return p.Plant == ""
}

// HarvestRecord is appended to the garden history on every harvest
type HarvestRecord struct {
	Plant  Species   `json:"plant" yaml:"plant"`
	Points int       `json:"points" yaml:"points"`
	Date   time.Time `json:"date" yaml:"date"`
}

// Resource is an external learning link shown to one learner
type Resource struct {
	Name        string `json:"name" yaml:"name"`
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description" yaml:"description"`
}

// NewLearner creates a learner with fresh progression state
func NewLearner(id, name string, age int, pin string, theme Theme) Learner {
	l := Learner{
		ID:             id,
		Name:           name,
		Age:            age,
		PIN:            pin,
		CompletedToday: []int64{},
		Prize:          Prize{Name: "Movie Night Pick", PointsNeeded: 100},
		SubjectXP:      make(map[Subject]int, len(Subjects)),
		ReadingLog:     []Book{},
		Garden:         NewGarden(),
		Theme:          theme,
	}
	for _, s := range Subjects {
		l.SubjectXP[s] = 0
	}
	return l
}

// NewGarden returns a garden with every plot empty and healthy
func NewGarden() Garden {
	plots := make([]Plot, PlotCount)
	for i := range plots {
		plots[i] = Plot{ID: i, Health: 100}
	}
	return Garden{Plots: plots, HarvestHistory: []HarvestRecord{}}
}

// HasCompleted reports whether the task is in today's completed set
func (l *Learner) HasCompleted(taskID int64) bool {
	return slices.Contains(l.CompletedToday, taskID)
}

// Clone returns a deep copy so mutations never alias the original
func (l Learner) Clone() Learner {
	c := l
	c.CompletedToday = slices.Clone(l.CompletedToday)
	if c.CompletedToday == nil {
		c.CompletedToday = []int64{}
	}
	c.SubjectXP = make(map[Subject]int, len(l.SubjectXP))
	for k, v := range l.SubjectXP {
		c.SubjectXP[k] = v
	}
	c.ReadingLog = slices.Clone(l.ReadingLog)
	if c.ReadingLog == nil {
		c.ReadingLog = []Book{}
	}
	c.Garden.Plots = slices.Clone(l.Garden.Plots)
	c.Garden.HarvestHistory = slices.Clone(l.Garden.HarvestHistory)
	if c.Garden.HarvestHistory == nil {
		c.Garden.HarvestHistory = []HarvestRecord{}
	}
	c.Resources = slices.Clone(l.Resources)
	return c
}

// Normalize fills in anything missing from older or hand-written records
func (l *Learner) Normalize() {
	if l.CompletedToday == nil {
		l.CompletedToday = []int64{}
	}
	if l.SubjectXP == nil {
		l.SubjectXP = make(map[Subject]int, len(Subjects))
	}
	for _, s := range Subjects {
		if _, ok := l.SubjectXP[s]; !ok {
			l.SubjectXP[s] = 0
		}
	}
	if l.ReadingLog == nil {
		l.ReadingLog = []Book{}
	}
	if len(l.Garden.Plots) != PlotCount {
		existing := l.Garden.Plots
		l.Garden.Plots = NewGarden().Plots
		for _, p := range existing {
			if p.ID >= 0 && p.ID < PlotCount {
				l.Garden.Plots[p.ID] = p
			}
		}
	}
	if l.Garden.HarvestHistory == nil {
		l.Garden.HarvestHistory = []HarvestRecord{}
	}
	if l.Theme == "" {
		l.Theme = ThemePurple
	}
}
