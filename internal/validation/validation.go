package validation

import (
	"fmt"
	"regexp"
	"strings"

	"chorechampions/internal/models"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	pinRegex   = regexp.MustCompile(`^[0-9]{4}$`)
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateName checks if a learner name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidatePIN checks that a learner PIN is exactly four digits
func ValidatePIN(pin string) error {
	if pin == "" {
		return ValidationError{Field: "pin", Message: "pin is required"}
	}
	if !pinRegex.MatchString(pin) {
		return ValidationError{Field: "pin", Message: "pin must be 4 digits"}
	}
	return nil
}

// ValidateTask checks a catalog entry before it is stored. knownLearners
// holds the ids a task may be assigned to; nil skips that check.
func ValidateTask(task models.Task, knownLearners []string) error {
	if strings.TrimSpace(task.Title) == "" {
		return ValidationError{Field: "title", Message: "title is required"}
	}
	if task.Points < 0 {
		return ValidationError{Field: "points", Message: "points cannot be negative"}
	}
	if !task.Category.Valid() {
		return ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", task.Category)}
	}
	if task.Subject != "" && !task.Subject.Valid() {
		return ValidationError{Field: "subject", Message: fmt.Sprintf("unknown subject %q", task.Subject)}
	}
	if len(task.AssignedTo) == 0 {
		return ValidationError{Field: "assignedTo", Message: "assign the task to at least one learner"}
	}
	if knownLearners != nil {
		for _, id := range task.AssignedTo {
			if !contains(knownLearners, id) {
				return ValidationError{Field: "assignedTo", Message: fmt.Sprintf("unknown learner %q", id)}
			}
		}
	}
	return nil
}

// ValidatePrize checks a goal set by a parent
func ValidatePrize(prize models.Prize) error {
	if strings.TrimSpace(prize.Name) == "" {
		return ValidationError{Field: "name", Message: "prize name is required"}
	}
	if prize.PointsNeeded <= 0 {
		return ValidationError{Field: "pointsNeeded", Message: "points needed must be greater than 0"}
	}
	return nil
}

// ValidateBook checks a new reading log entry
func ValidateBook(title string, totalPages int) error {
	if strings.TrimSpace(title) == "" {
		return ValidationError{Field: "title", Message: "title is required"}
	}
	if totalPages <= 0 {
		return ValidationError{Field: "totalPages", Message: "total pages must be greater than 0"}
	}
	return nil
}

// ValidatePages checks a reading progress entry
func ValidatePages(pages int) error {
	if pages <= 0 {
		return ValidationError{Field: "pages", Message: "pages must be greater than 0"}
	}
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
