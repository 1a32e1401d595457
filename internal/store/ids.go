package store

import (
	"strings"

	"github.com/google/uuid"
)

// NewTaskID returns a random (v4) UUID string.
func NewTaskID() string {
	return uuid.NewString()
}

// IsTaskID reports whether s looks like an id produced by NewTaskID.
func IsTaskID(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
