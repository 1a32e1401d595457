package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of Task.ExpiryDate.
const DateLayout = "2006-01-02"

type Task struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	ExpiryDate string `json:"expiryDate"` // YYYY-MM-DD
	Notified   bool   `json:"notified"`
	Completed  bool   `json:"completed"`
}

// DefaultCategories is used when the config does not define its own set.
var DefaultCategories = []string{
	"Work",
	"Home",
	"Personal",
	"Shopping",
	"Health",
	"Study",
}

// ParseDate parses a YYYY-MM-DD calendar date as local midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	d, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return d, nil
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// Expiry returns the parsed expiry date. ok is false for records with an unparseable date.
func (t Task) Expiry() (time.Time, bool) {
	d, err := ParseDate(t.ExpiryDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// IsDue reports whether the task's expiry date has been reached at now.
func (t Task) IsDue(now time.Time) bool {
	d, ok := t.Expiry()
	if !ok {
		return false
	}
	return !d.After(now)
}
