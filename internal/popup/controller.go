// Package popup holds the view state machine behind the TUI and the focus
// commands. It reads and writes day state and asks the daemon to re-arm
// alarms after each write.
package popup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmhodges/clock"

	"github.com/julianstephens/dailyfocus/internal/constants"
	apperrors "github.com/julianstephens/dailyfocus/internal/errors"
	"github.com/julianstephens/dailyfocus/internal/logger"
	"github.com/julianstephens/dailyfocus/internal/models"
	"github.com/julianstephens/dailyfocus/internal/storage"
	"github.com/julianstephens/dailyfocus/internal/streak"
	"github.com/julianstephens/dailyfocus/internal/utils"
)

const (
	MsgEmptyTask     = "Please enter a task for today"
	MsgNoTask        = "Set a task for today before completing it"
	MsgSettingsSaved = "Settings saved"
	MsgSettingsReset = "Settings reset to defaults"
)

var (
	ErrEmptyTask = apperrors.Validation(MsgEmptyTask)
	ErrNoTask    = apperrors.Validation(MsgNoTask)
)

// Messenger delivers control messages to the background context.
type Messenger interface {
	Send(ctx context.Context, t constants.MessageType) error
}

// AppState is everything a view needs to render.
type AppState struct {
	View      View
	Today     string
	Record    *models.DayRecord
	Streak    int
	TaskInput string
	Message   string
	Settings  models.Settings
	History   []HistoryEntry
}

type Controller struct {
	days      *storage.DayStore
	messenger Messenger
	clock     clock.Clock
	loc       *time.Location
}

func New(days *storage.DayStore, messenger Messenger, clk clock.Clock, loc *time.Location) *Controller {
	if clk == nil {
		clk = clock.New()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Controller{
		days:      days,
		messenger: messenger,
		clock:     clk,
		loc:       loc,
	}
}

func (c *Controller) now() time.Time {
	return c.clock.Now().In(c.loc)
}

func (c *Controller) send(ctx context.Context, t constants.MessageType) {
	if c.messenger == nil {
		return
	}
	if err := c.messenger.Send(ctx, t); err != nil {
		logger.Warn("Could not reach background", "type", t, "error", err)
	}
}

// refresh reloads today's record, the streak and the settings into st.
func (c *Controller) refresh(ctx context.Context, st AppState) (AppState, error) {
	now := c.now()
	st.Today = utils.DateKey(now)

	rec, err := c.days.Day(ctx, st.Today)
	if err != nil {
		return st, err
	}
	st.Record = rec

	if st.Streak, err = c.streak(ctx, now); err != nil {
		return st, err
	}
	if st.Settings, err = c.days.Settings(ctx); err != nil {
		return st, err
	}
	return st, nil
}

func (c *Controller) streak(ctx context.Context, now time.Time) (int, error) {
	records, err := c.days.AllDays(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load history: %w", err)
	}
	return streak.Compute(records, now), nil
}

// Open builds the initial state and picks the today view.
func (c *Controller) Open(ctx context.Context) (AppState, error) {
	st, err := c.refresh(ctx, AppState{})
	if err != nil {
		return st, err
	}
	st.View = SelectView(st.Record, c.now().Hour())
	return st, nil
}

// Navigate switches to v. The today tab re-derives which today view to show.
func (c *Controller) Navigate(ctx context.Context, st AppState, v View) (AppState, error) {
	st.Message = ""
	switch v {
	case ViewToday:
		next, err := c.refresh(ctx, st)
		if err != nil {
			return st, err
		}
		next.View = SelectView(next.Record, c.now().Hour())
		return next, nil
	case ViewHistory:
		return c.ShowHistory(ctx, st)
	case ViewSettings:
		s, err := c.days.Settings(ctx)
		if err != nil {
			return st, err
		}
		st.Settings = s
	}
	st.View = v
	return st, nil
}

// SetTask stores text as today's task and asks for reminders. Empty text is
// refused with ErrEmptyTask and nothing is written.
func (c *Controller) SetTask(ctx context.Context, st AppState, text string) (AppState, error) {
	task := strings.TrimSpace(text)
	if task == "" {
		st.Message = MsgEmptyTask
		return st, ErrEmptyTask
	}

	today := utils.DateKey(c.now())
	rec := models.NewTaskRecord(today, task)
	if err := c.days.PutDay(ctx, rec); err != nil {
		return st, err
	}
	c.send(ctx, constants.MsgScheduleReminders)

	st.Today = today
	st.Record = &rec
	st.TaskInput = ""
	st.Message = ""
	st.View = ViewTodayTask
	return st, nil
}

// Skip marks today as skipped and stops reminders.
func (c *Controller) Skip(ctx context.Context, st AppState) (AppState, error) {
	today := utils.DateKey(c.now())
	rec := models.NewSkippedRecord(today)
	if err := c.days.PutDay(ctx, rec); err != nil {
		return st, err
	}
	c.send(ctx, constants.MsgClearReminders)

	st.Today = today
	st.Record = &rec
	st.TaskInput = ""
	st.Message = ""
	st.View = ViewTodayCompleted
	return st, nil
}

// Complete marks today's task done, keeping the task text, and recomputes
// the streak. A day without a task is refused with ErrNoTask.
func (c *Controller) Complete(ctx context.Context, st AppState) (AppState, error) {
	now := c.now()
	today := utils.DateKey(now)

	current := st.Record
	if current == nil || current.Date != today {
		var err error
		if current, err = c.days.Day(ctx, today); err != nil {
			return st, err
		}
	}

	if !current.HasTask() {
		st.Message = MsgNoTask
		return st, ErrNoTask
	}

	rec := current.MarkCompleted(now)
	rec.Date = today
	if err := c.days.PutDay(ctx, rec); err != nil {
		return st, err
	}
	c.send(ctx, constants.MsgClearReminders)

	n, err := c.streak(ctx, now)
	if err != nil {
		return st, err
	}

	st.Today = today
	st.Record = &rec
	st.Streak = n
	st.Message = ""
	st.View = ViewTodayCompleted
	return st, nil
}

// CompleteEarly jumps from the task view to the evening check-in before the
// evening hour.
func (c *Controller) CompleteEarly(st AppState) AppState {
	st.Message = ""
	st.View = ViewEvening
	return st
}

// Edit returns to task entry pre-filled with the current task. Nothing is
// written until the task is submitted again.
func (c *Controller) Edit(st AppState) AppState {
	st.TaskInput = st.Record.TaskText()
	st.Message = ""
	st.View = ViewMorning
	return st
}

// ShowHistory loads past days for the history view.
func (c *Controller) ShowHistory(ctx context.Context, st AppState) (AppState, error) {
	records, err := c.days.AllDays(ctx)
	if err != nil {
		return st, fmt.Errorf("failed to load history: %w", err)
	}
	now := c.now()
	st.Today = utils.DateKey(now)
	st.History = History(records, st.Today)
	st.Streak = streak.Compute(records, now)
	st.View = ViewHistory
	return st, nil
}

// SaveSettings persists s, normalized, and asks for the daily alarms to be
// re-derived.
func (c *Controller) SaveSettings(ctx context.Context, st AppState, s models.Settings) (AppState, error) {
	s = s.Normalize()
	if err := c.days.SaveSettings(ctx, s); err != nil {
		return st, err
	}
	c.send(ctx, constants.MsgRescheduleDaily)

	st.Settings = s
	st.Message = MsgSettingsSaved
	return st, nil
}

// ResetSettings stores the defaults.
func (c *Controller) ResetSettings(ctx context.Context, st AppState) (AppState, error) {
	s := models.DefaultSettings()
	if err := c.days.SaveSettings(ctx, s); err != nil {
		return st, err
	}
	c.send(ctx, constants.MsgRescheduleDaily)

	st.Settings = s
	st.Message = MsgSettingsReset
	return st, nil
}
