package models

import (
	"fmt"
	"strings"
	"time"
)

// DayRecord is the persisted state for one calendar date, stored under its
// YYYY-MM-DD key.
type DayRecord struct {
	Date        string     `json:"date,omitempty"`
	Task        *string    `json:"task"`
	Completed   bool       `json:"completed"`
	Skipped     bool       `json:"skipped,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// NewTaskRecord returns the record written when a task is set for date.
func NewTaskRecord(date, task string) DayRecord {
	return DayRecord{
		Date:      date,
		Task:      &task,
		Completed: false,
	}
}

// NewSkippedRecord returns the record written when date is skipped.
func NewSkippedRecord(date string) DayRecord {
	return DayRecord{
		Date:      date,
		Task:      nil,
		Completed: true,
		Skipped:   true,
	}
}

// HasTask reports whether a non-empty task is set.
func (r *DayRecord) HasTask() bool {
	return r != nil && r.Task != nil && strings.TrimSpace(*r.Task) != ""
}

// TaskText returns the task or "" when none is set.
func (r *DayRecord) TaskText() string {
	if !r.HasTask() {
		return ""
	}
	return *r.Task
}

// IsResolved reports whether the day is completed or skipped. A nil record
// is unresolved.
func (r *DayRecord) IsResolved() bool {
	return r != nil && (r.Completed || r.Skipped)
}

// CountsTowardStreak reports whether the day was completed and not skipped.
func (r *DayRecord) CountsTowardStreak() bool {
	return r != nil && r.Completed && !r.Skipped
}

// MarkCompleted keeps the existing task and stamps the completion time.
func (r DayRecord) MarkCompleted(at time.Time) DayRecord {
	r.Completed = true
	r.CompletedAt = &at
	return r
}

func (r *DayRecord) Validate() error {
	if r.Skipped {
		if !r.Completed {
			return fmt.Errorf("skipped day %s must also be completed", r.Date)
		}
		if r.Task != nil {
			return fmt.Errorf("skipped day %s must not carry a task", r.Date)
		}
	}
	if r.CompletedAt != nil && !r.Completed {
		return fmt.Errorf("day %s has a completion time but is not completed", r.Date)
	}
	return nil
}
