package models

import "slices"

// Task is a parent-managed chore or learning activity
type Task struct {
	ID             int64    `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	Points         int      `json:"points" yaml:"points"`
	Category       Category `json:"category" yaml:"category"`
	Subject        Subject  `json:"subject,omitempty" yaml:"subject,omitempty"`
	AssignedTo     []string `json:"assignedTo" yaml:"assignedTo"`
	TeachBackBonus bool     `json:"teachBackBonus,omitempty" yaml:"teachBackBonus,omitempty"`
}

// IsAssignedTo reports whether the learner should see this task
func (t Task) IsAssignedTo(learnerID string) bool {
	return slices.Contains(t.AssignedTo, learnerID)
}

// Clone returns a copy that does not share the assignment slice
func (t Task) Clone() Task {
	c := t
	c.AssignedTo = slices.Clone(t.AssignedTo)
	return c
}

// PrizeOption is one of the preset goals a parent can pick from
type PrizeOption struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// PrizeOptions are the preset goals offered on the goal screen
var PrizeOptions = []PrizeOption{
	{Name: "Movie Night Pick", Points: 100},
	{Name: "$10 Gift Card", Points: 200},
	{Name: "Robux 800", Points: 250},
	{Name: "Extra Screen Time (1hr)", Points: 75},
	{Name: "Ice Cream Trip", Points: 150},
	{Name: "New Book", Points: 120},
	{Name: "Sleepover Permission", Points: 300},
	{Name: "Choose Dinner", Points: 80},
	{Name: "Skip One Chore", Points: 50},
	{Name: "Stay Up Late (30min)", Points: 60},
}
