package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestSkippedRecordShape(t *testing.T) {
	rec := NewSkippedRecord("2024-01-03")
	if err := rec.Validate(); err != nil {
		t.Fatalf("skipped record invalid: %v", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"task":null`) {
		t.Errorf("skipped record should carry task:null, got %s", data)
	}
	if !rec.IsResolved() || rec.CountsTowardStreak() {
		t.Error("skipped day must be resolved but not count toward the streak")
	}
}

func TestTaskRecordLifecycle(t *testing.T) {
	rec := NewTaskRecord("2024-01-04", "Write report")
	if !rec.HasTask() || rec.TaskText() != "Write report" {
		t.Fatalf("task not set: %+v", rec)
	}
	if rec.IsResolved() {
		t.Error("fresh task should not be resolved")
	}

	at := time.Date(2024, 1, 4, 21, 0, 0, 0, time.UTC)
	done := rec.MarkCompleted(at)
	if !done.Completed || done.CompletedAt == nil || !done.CompletedAt.Equal(at) {
		t.Errorf("MarkCompleted() = %+v", done)
	}
	if done.TaskText() != "Write report" {
		t.Error("completion must keep the task")
	}
	if rec.Completed {
		t.Error("MarkCompleted must not mutate the receiver copy")
	}
	if !done.CountsTowardStreak() {
		t.Error("completed day should count")
	}
}

func TestNilRecordHelpers(t *testing.T) {
	var rec *DayRecord
	if rec.HasTask() || rec.IsResolved() || rec.CountsTowardStreak() || rec.TaskText() != "" {
		t.Error("nil record should behave as an absent day")
	}
}

func TestDayRecordValidate(t *testing.T) {
	task := "x"
	now := time.Now()
	tests := []struct {
		name    string
		rec     DayRecord
		wantErr bool
	}{
		{name: "open task", rec: DayRecord{Date: "2024-01-01", Task: &task}},
		{name: "skipped not completed", rec: DayRecord{Date: "2024-01-01", Skipped: true}, wantErr: true},
		{name: "skipped with task", rec: DayRecord{Date: "2024-01-01", Skipped: true, Completed: true, Task: &task}, wantErr: true},
		{name: "completion time on open day", rec: DayRecord{Date: "2024-01-01", CompletedAt: &now}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDayRecordDecodesOriginalShape(t *testing.T) {
	raw := `{"task":"Ship it","date":"2024-01-02","completed":true,"completedAt":"2024-01-02T19:04:05.000Z"}`
	var rec DayRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !rec.CountsTowardStreak() || rec.TaskText() != "Ship it" || rec.CompletedAt == nil {
		t.Errorf("decoded record = %+v", rec)
	}
}
