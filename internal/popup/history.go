package popup

import (
	"sort"

	"github.com/julianstephens/dailyfocus/internal/constants"
	"github.com/julianstephens/dailyfocus/internal/models"
)

const (
	HistorySkippedTask = "Day skipped"
	HistoryNoTask      = "No task set"

	StatusSkipped      = "Skipped"
	StatusCompleted    = "Completed ✓"
	StatusNotCompleted = "Not completed"
)

type HistoryEntry struct {
	Date      string
	Task      string
	Status    string
	Completed bool
	Skipped   bool
}

// History lists the records dated strictly before today, newest first, at
// most constants.HistoryLimit of them.
func History(records map[string]models.DayRecord, today string) []HistoryEntry {
	dates := make([]string, 0, len(records))
	for date := range records {
		// ISO dates compare lexically
		if date < today {
			dates = append(dates, date)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > constants.HistoryLimit {
		dates = dates[:constants.HistoryLimit]
	}

	entries := make([]HistoryEntry, 0, len(dates))
	for _, date := range dates {
		rec := records[date]
		entries = append(entries, historyEntry(date, &rec))
	}
	return entries
}

func historyEntry(date string, rec *models.DayRecord) HistoryEntry {
	if rec.Skipped {
		return HistoryEntry{
			Date:      date,
			Task:      HistorySkippedTask,
			Status:    StatusSkipped,
			Completed: rec.Completed,
			Skipped:   true,
		}
	}

	task := HistoryNoTask
	if rec.HasTask() {
		task = rec.TaskText()
	}
	status := StatusNotCompleted
	if rec.Completed {
		status = StatusCompleted
	}
	return HistoryEntry{
		Date:      date,
		Task:      task,
		Status:    status,
		Completed: rec.Completed,
	}
}
