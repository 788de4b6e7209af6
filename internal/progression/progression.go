// Package progression maps raw point and experience totals to levels, skill
// tiers and garden capacity. Everything here is pure.
package progression

import "chorechampions/internal/models"

// levelThresholds are the lifetime point totals at which each level starts
var levelThresholds = []int{0, 50, 150, 300, 500, 750, 1100, 1500, 2000, 2600, 3300}

// openEndedStep is the band width used past the last tabulated threshold
const openEndedStep = 1000

// LevelInfo describes a learner's position on the level ladder
type LevelInfo struct {
	Level            int     `json:"level"`
	Progress         float64 `json:"progress"`
	CurrentThreshold int     `json:"currentThreshold"`
	NextThreshold    int     `json:"nextThreshold"`
}

// GetLevelInfo computes the level for a lifetime point total.
// Negative totals behave like zero.
func GetLevelInfo(lifetimePoints int) LevelInfo {
	level := 1
	for i := 1; i < len(levelThresholds); i++ {
		if lifetimePoints >= levelThresholds[i] {
			level = i + 1
		} else {
			break
		}
	}

	current := levelThresholds[level-1]
	next := levelThresholds[len(levelThresholds)-1] + openEndedStep
	if level < len(levelThresholds) {
		next = levelThresholds[level]
	}

	progress := float64(lifetimePoints-current) / float64(next-current) * 100

	return LevelInfo{
		Level:            level,
		Progress:         clampPercent(progress),
		CurrentThreshold: current,
		NextThreshold:    next,
	}
}

// SkillTier is one step on the per-subject mastery ladder
type SkillTier struct {
	Name       string `json:"name"`
	XPRequired int    `json:"xpRequired"`
	Icon       string `json:"icon"`
}

// SkillTiers is ordered by ascending requirement
var SkillTiers = []SkillTier{
	{Name: "Beginner", XPRequired: 0, Icon: "🌱"},
	{Name: "Developing", XPRequired: 100, Icon: "🌿"},
	{Name: "Proficient", XPRequired: 300, Icon: "🌳"},
	{Name: "Advanced", XPRequired: 600, Icon: "⭐"},
	{Name: "Master", XPRequired: 1000, Icon: "👑"},
}

// SkillLevel is the tier reached for a given amount of experience
type SkillLevel struct {
	SkillTier
	Index    int        `json:"index"`
	Next     *SkillTier `json:"next,omitempty"`
	Progress float64    `json:"progress"`
}

// GetSkillLevel returns the highest tier whose requirement is met and the
// progress toward the following one (100 at the top tier).
func GetSkillLevel(xp int) SkillLevel {
	for i := len(SkillTiers) - 1; i >= 0; i-- {
		tier := SkillTiers[i]
		if xp < tier.XPRequired {
			continue
		}
		if i == len(SkillTiers)-1 {
			return SkillLevel{SkillTier: tier, Index: i, Progress: 100}
		}
		next := SkillTiers[i+1]
		progress := float64(xp-tier.XPRequired) / float64(next.XPRequired-tier.XPRequired) * 100
		return SkillLevel{SkillTier: tier, Index: i, Next: &next, Progress: clampPercent(progress)}
	}

	next := SkillTiers[1]
	return SkillLevel{SkillTier: SkillTiers[0], Index: 0, Next: &next, Progress: 0}
}

// SubjectSkill pairs a subject with the learner's tier in it
type SubjectSkill struct {
	Subject models.Subject `json:"subject"`
	Name    string         `json:"name"`
	XP      int            `json:"xp"`
	Skill   SkillLevel     `json:"skill"`
}

// GetSubjectSkills reports the tier for every subject, in display order
func GetSubjectSkills(xp map[models.Subject]int) []SubjectSkill {
	skills := make([]SubjectSkill, 0, len(models.Subjects))
	for _, s := range models.Subjects {
		skills = append(skills, SubjectSkill{
			Subject: s,
			Name:    s.Name(),
			XP:      xp[s],
			Skill:   GetSkillLevel(xp[s]),
		})
	}
	return skills
}

// UnlockedPlots returns how many garden plots a level may use:
// two at level 1, one more per level, all eight from level 7.
func UnlockedPlots(level int) int {
	if level < 1 {
		level = 1
	}
	return min(models.PlotCount, level+1)
}

// UnlockedPlotsFor is a shorthand for the plots available at a point total
func UnlockedPlotsFor(lifetimePoints int) int {
	return UnlockedPlots(GetLevelInfo(lifetimePoints).Level)
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
