package tasks

import (
	"strings"
	"time"
	"unicode/utf8"

	"tasklist-cli/internal/model"
)

// MinSearchLength is the shortest search term that narrows the view.
// Shorter (non-empty) terms leave the view unfiltered.
const MinSearchLength = 2

// Criteria narrows the visible task set. The zero value filters nothing.
type Criteria struct {
	SearchTerm string `json:"searchTerm,omitempty"`
	Category   string `json:"category,omitempty"`
	StartDate  string `json:"startDate,omitempty"`
	EndDate    string `json:"endDate,omitempty"`
}

// NewCriteria builds criteria from raw filter-panel input.
// A non-empty category must be one of categories and is stored in its configured case.
// A start date needs an end date; dates must parse.
func NewCriteria(categories []string, search, category, startDate, endDate string) (Criteria, error) {
	c := Criteria{
		SearchTerm: strings.TrimSpace(search),
		Category:   strings.TrimSpace(category),
		StartDate:  strings.TrimSpace(startDate),
		EndDate:    strings.TrimSpace(endDate),
	}
	if c.Category != "" {
		canonical, ok := lookupCategory(categories, c.Category)
		if !ok {
			return Criteria{}, errValidation("category", "must be one of "+strings.Join(categories, ", "))
		}
		c.Category = canonical
	}
	if c.StartDate != "" && c.EndDate == "" {
		return Criteria{}, errValidation("endDate", "please select an end date")
	}
	if c.StartDate != "" {
		if _, err := model.ParseDate(c.StartDate); err != nil {
			return Criteria{}, errValidation("startDate", "must be a valid date (YYYY-MM-DD)")
		}
	}
	if c.EndDate != "" {
		if _, err := model.ParseDate(c.EndDate); err != nil {
			return Criteria{}, errValidation("endDate", "must be a valid date (YYYY-MM-DD)")
		}
	}
	return c, nil
}

// HasFilters reports whether any filter-panel field (category or dates) is set.
func (c Criteria) HasFilters() bool {
	return c.Category != "" || c.StartDate != "" || c.EndDate != ""
}

// IsEmpty reports whether Filter would return its input unchanged.
func (c Criteria) IsEmpty() bool {
	_, search := c.search()
	_, _, dates := c.dateRange()
	return !search && c.Category == "" && !dates
}

func (c Criteria) search() (string, bool) {
	term := strings.TrimSpace(c.SearchTerm)
	if utf8.RuneCountInString(term) < MinSearchLength {
		return "", false
	}
	return strings.ToLower(term), true
}

func (c Criteria) dateRange() (time.Time, time.Time, bool) {
	if c.StartDate == "" || c.EndDate == "" {
		return time.Time{}, time.Time{}, false
	}
	start, err := model.ParseDate(c.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := model.ParseDate(c.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// Filter returns the tasks matching every active criterion, in their original order.
func Filter(ts []model.Task, c Criteria) []model.Task {
	term, searching := c.search()
	start, end, ranged := c.dateRange()

	out := make([]model.Task, 0, len(ts))
	for _, t := range ts {
		if searching && !strings.Contains(strings.ToLower(t.Title), term) {
			continue
		}
		if c.Category != "" && t.Category != c.Category {
			continue
		}
		if ranged {
			d, ok := t.Expiry()
			if !ok || d.Before(start) || d.After(end) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
