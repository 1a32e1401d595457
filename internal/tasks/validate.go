package tasks

import (
	"regexp"
	"strings"
	"time"

	"tasklist-cli/internal/model"
)

var reTitle = regexp.MustCompile(`^[A-Za-z0-9\s]+$`)

type taskInput struct {
	title      string
	category   string
	expiryDate string
}

// validateInput applies the create/edit rule. Fields are checked in order
// title, category, expiryDate and the first failure is returned.
func validateInput(title, category, expiryDate string, categories []string, now time.Time) (taskInput, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return taskInput{}, errValidation("title", "is required")
	}
	if !reTitle.MatchString(title) {
		return taskInput{}, errValidation("title", "must contain only letters, numbers and spaces")
	}

	category = strings.TrimSpace(category)
	if category == "" {
		return taskInput{}, errValidation("category", "is required")
	}
	canonical, ok := lookupCategory(categories, category)
	if !ok {
		return taskInput{}, errValidation("category", "must be one of "+strings.Join(categories, ", "))
	}

	d, err := model.ParseDate(expiryDate)
	if err != nil {
		return taskInput{}, errValidation("expiryDate", "must be a valid date (YYYY-MM-DD)")
	}
	if d.Before(model.StartOfDay(now)) {
		return taskInput{}, errValidation("expiryDate", "must be today or later")
	}

	return taskInput{
		title:      title,
		category:   canonical,
		expiryDate: d.Format(model.DateLayout),
	}, nil
}

func lookupCategory(categories []string, category string) (string, bool) {
	for _, c := range categories {
		if strings.EqualFold(c, category) {
			return c, true
		}
	}
	return "", false
}
