package popup

import (
	"github.com/julianstephens/dailyfocus/internal/constants"
	"github.com/julianstephens/dailyfocus/internal/models"
)

type View string

const (
	ViewMorning        View = "morning"
	ViewEvening        View = "evening"
	ViewTodayTask      View = "today-task"
	ViewTodayCompleted View = "today-completed"
	ViewHistory        View = "history"
	ViewSettings       View = "settings"

	// ViewToday is a navigation target only. It resolves to one of the four
	// today views.
	ViewToday View = "today"
)

// IsToday reports whether v is one of the views shown under the today tab.
func (v View) IsToday() bool {
	switch v {
	case ViewMorning, ViewEvening, ViewTodayTask, ViewTodayCompleted, ViewToday:
		return true
	}
	return false
}

// SelectView picks the today view for rec at the given local hour.
func SelectView(rec *models.DayRecord, hour int) View {
	hasTask := rec.HasTask()
	skipped := rec != nil && rec.Skipped
	completed := rec != nil && rec.Completed

	switch {
	case !hasTask && !skipped:
		return ViewMorning
	case hasTask && !completed && hour >= constants.EveningViewHour:
		return ViewEvening
	case hasTask && !completed:
		return ViewTodayTask
	default:
		return ViewTodayCompleted
	}
}

// CompletedSummary returns the task line and status line of the completed
// view.
func CompletedSummary(rec *models.DayRecord) (task, status string) {
	switch {
	case rec == nil:
		return "", ""
	case rec.Skipped:
		return "Day skipped", "You skipped today"
	case rec.Completed && rec.HasTask():
		return rec.TaskText(), "Completed ✓"
	case rec.Completed:
		return "No task set", "Completed ✓"
	default:
		return rec.TaskText(), "Not completed"
	}
}
