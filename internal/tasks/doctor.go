package tasks

import (
	"context"
	"errors"
	"fmt"

	"tasklist-cli/internal/store"
)

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level   DoctorIssueLevel `json:"level"`
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Key     string           `json:"key,omitempty"`
	TaskID  string           `json:"taskId,omitempty"`
}

type DoctorReport struct {
	Tasks  int           `json:"tasks"`
	Issues []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

var ErrDoctorIssuesFound = errors.New("doctor: issues found")

// Doctor inspects the stored payload directly, without the fail-soft fallback Load applies.
//
// Errors mean Load would discard the data. Warnings are records Load keeps but that
// create/edit would no longer accept (e.g. a category removed from the config).
func Doctor(ctx context.Context, kv store.KV, categories []string) DoctorReport {
	report := DoctorReport{Issues: []DoctorIssue{}}

	raw, ok, err := kv.Get(ctx, storageKey)
	switch {
	case err != nil:
		report.Issues = append(report.Issues, DoctorIssue{
			Level:   DoctorIssueLevelError,
			Code:    "tasks_read_failed",
			Message: err.Error(),
			Key:     storageKey,
		})
	case ok:
		ts, err := DecodeTasks(raw)
		if err != nil {
			report.Issues = append(report.Issues, DoctorIssue{
				Level:   DoctorIssueLevelError,
				Code:    "tasks_unreadable",
				Message: err.Error(),
				Key:     storageKey,
			})
			break
		}
		report.Tasks = len(ts)
		for _, t := range ts {
			if !reTitle.MatchString(t.Title) {
				report.Issues = append(report.Issues, DoctorIssue{
					Level:   DoctorIssueLevelWarn,
					Code:    "invalid_title",
					Message: fmt.Sprintf("title %q contains characters other than letters, numbers and spaces", t.Title),
					TaskID:  t.ID,
				})
			}
			if _, known := lookupCategory(categories, t.Category); !known {
				report.Issues = append(report.Issues, DoctorIssue{
					Level:   DoctorIssueLevelWarn,
					Code:    "unknown_category",
					Message: fmt.Sprintf("category %q is not configured", t.Category),
					TaskID:  t.ID,
				})
			}
		}
	}

	if _, ok, err := kv.Get(ctx, backupKey); err == nil && ok {
		report.Issues = append(report.Issues, DoctorIssue{
			Level:   DoctorIssueLevelWarn,
			Code:    "backup_present",
			Message: "an unreadable payload was set aside; inspect it and re-import what you need",
			Key:     backupKey,
		})
	}
	return report
}
