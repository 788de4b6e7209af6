package models

import "fmt"

// Subject is one of the fixed learning subjects that carry experience
type Subject string

const (
	SubjectMath     Subject = "math"
	SubjectReading  Subject = "reading"
	SubjectScience  Subject = "science"
	SubjectMusic    Subject = "music"
	SubjectLanguage Subject = "language"
	SubjectArt      Subject = "art"
)

// Subjects lists every subject in display order
var Subjects = []Subject{SubjectMath, SubjectReading, SubjectScience, SubjectMusic, SubjectLanguage, SubjectArt}

var subjectNames = map[Subject]string{
	SubjectMath:     "Math",
	SubjectReading:  "Reading",
	SubjectScience:  "Science",
	SubjectMusic:    "Music",
	SubjectLanguage: "Language",
	SubjectArt:      "Art",
}

// Valid reports whether s is a known subject
func (s Subject) Valid() bool {
	_, ok := subjectNames[s]
	return ok
}

// Name returns the display name of the subject
func (s Subject) Name() string {
	return subjectNames[s]
}

// UnmarshalText rejects unknown subjects; the empty string means "no subject"
func (s *Subject) UnmarshalText(text []byte) error {
	v := Subject(text)
	if v != "" && !v.Valid() {
		return fmt.Errorf("unknown subject %q", string(text))
	}
	*s = v
	return nil
}

// Category separates chores from learning tasks
type Category string

const (
	CategoryChore    Category = "chore"
	CategoryLearning Category = "learning"
)

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	return c == CategoryChore || c == CategoryLearning
}

// UnmarshalText rejects unknown categories
func (c *Category) UnmarshalText(text []byte) error {
	v := Category(text)
	if !v.Valid() {
		return fmt.Errorf("unknown category %q", string(text))
	}
	*c = v
	return nil
}

// Species is a plant that can grow in a garden plot
type Species string

const (
	SpeciesSunflower      Species = "sunflower"
	SpeciesTulip          Species = "tulip"
	SpeciesRose           Species = "rose"
	SpeciesKnowledgeBloom Species = "knowledge-bloom"
)

// PlantType describes a species. GrowthTime is cosmetic and never used in payouts.
type PlantType struct {
	Name          string `json:"name"`
	GrowthTime    int    `json:"growthTime"`
	HarvestPoints int    `json:"harvestPoints"`
}

// PlantTypes is the fixed species table
var PlantTypes = map[Species]PlantType{
	SpeciesSunflower:      {Name: "Sunflower", GrowthTime: 3, HarvestPoints: 25},
	SpeciesTulip:          {Name: "Tulip", GrowthTime: 2, HarvestPoints: 15},
	SpeciesRose:           {Name: "Rose", GrowthTime: 4, HarvestPoints: 35},
	SpeciesKnowledgeBloom: {Name: "Knowledge Bloom", GrowthTime: 3, HarvestPoints: 30},
}

// Valid reports whether s is a known species
func (s Species) Valid() bool {
	_, ok := PlantTypes[s]
	return ok
}

// UnmarshalText rejects unknown species; the empty string marks an empty plot
func (s *Species) UnmarshalText(text []byte) error {
	v := Species(text)
	if v != "" && !v.Valid() {
		return fmt.Errorf("unknown species %q", string(text))
	}
	*s = v
	return nil
}

// Theme is a cosmetic colour scheme picked by the learner
type Theme string

const (
	ThemePurple Theme = "purple"
	ThemeBlue   Theme = "blue"
	ThemeGreen  Theme = "green"
	ThemePink   Theme = "pink"
	ThemeOrange Theme = "orange"
)

// Themes lists the selectable themes
var Themes = []Theme{ThemePurple, ThemeBlue, ThemeGreen, ThemePink, ThemeOrange}

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	for _, known := range Themes {
		if t == known {
			return true
		}
	}
	return false
}

// UnmarshalText rejects unknown themes
func (t *Theme) UnmarshalText(text []byte) error {
	v := Theme(text)
	if !v.Valid() {
		return fmt.Errorf("unknown theme %q", string(text))
	}
	*t = v
	return nil
}
