package dispatcher

import (
	"context"
	"fmt"

	"github.com/julianstephens/dailyfocus/internal/constants"
	"github.com/julianstephens/dailyfocus/internal/logger"
	"github.com/julianstephens/dailyfocus/internal/models"
	"github.com/julianstephens/dailyfocus/internal/notifier"
	"github.com/julianstephens/dailyfocus/internal/scheduler"
	"github.com/julianstephens/dailyfocus/internal/storage"
	"github.com/julianstephens/dailyfocus/internal/utils"
)

const (
	MorningTitle   = "Good morning!"
	MorningMessage = "Set your task for today in Daily Focus."

	ReminderTitle        = "Reminder: Today's Focus"
	ReminderUnsetTitle   = "Set your task for today"
	ReminderUnsetMessage = "You have not set your focus yet. Open Daily Focus to set it now."

	EveningTitle   = "Evening check-in"
	EveningMessage = "Did you complete your task today? Open the app to update your status."
)

// Dispatcher turns alarm fires into notifications and re-arms the daily
// alarms afterwards.
type Dispatcher struct {
	days      *storage.DayStore
	scheduler *scheduler.Scheduler
	notifier  notifier.Service
	opener    Opener
}

func New(days *storage.DayStore, sched *scheduler.Scheduler, n notifier.Service, opener Opener) *Dispatcher {
	if opener == nil {
		opener = LogOpener{}
	}
	return &Dispatcher{
		days:      days,
		scheduler: sched,
		notifier:  n,
		opener:    opener,
	}
}

func basic(title, message string) models.Notification {
	return models.Notification{
		Type:    constants.NotificationType,
		IconURL: constants.NotificationIconURL,
		Title:   title,
		Message: message,
	}
}

// HandleAlarm reacts to the alarm called name. Unknown names are ignored.
// Only a failure to read the store is returned; notification and alarm
// failures are logged.
func (d *Dispatcher) HandleAlarm(ctx context.Context, name string) error {
	switch name {
	case constants.AlarmMorning:
		return d.onMorning(ctx)
	case constants.AlarmReminder:
		return d.onReminder(ctx)
	case constants.AlarmEvening:
		return d.onEvening(ctx)
	default:
		logger.Debug("Ignoring unknown alarm", "alarm", name)
		return nil
	}
}

func (d *Dispatcher) today(ctx context.Context) (*models.DayRecord, error) {
	date := utils.DateKey(d.scheduler.Now())
	rec, err := d.days.Day(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load day record: %w", err)
	}
	return rec, nil
}

func (d *Dispatcher) settings(ctx context.Context) models.Settings {
	s, err := d.days.Settings(ctx)
	if err != nil {
		logger.Warn("Using default settings", "error", err)
		return models.DefaultSettings()
	}
	return s
}

func (d *Dispatcher) onMorning(ctx context.Context) error {
	d.show(constants.NotifMorning, basic(MorningTitle, MorningMessage))

	// A new day ends yesterday's reminder loop even when it was never resolved.
	_ = d.scheduler.DisarmReminders(ctx)
	_ = d.scheduler.ScheduleMorning(ctx, d.settings(ctx))
	return nil
}

func (d *Dispatcher) onReminder(ctx context.Context) error {
	rec, err := d.today(ctx)
	if err != nil {
		return err
	}

	if rec.IsResolved() {
		logger.Info("Reminder fired for a resolved day, disarming")
		_ = d.scheduler.DisarmReminders(ctx)
		return nil
	}

	if rec.HasTask() {
		d.show(constants.NotifReminder, basic(ReminderTitle, rec.TaskText()))
	} else {
		d.show(constants.NotifReminder, basic(ReminderUnsetTitle, ReminderUnsetMessage))
	}
	return nil
}

func (d *Dispatcher) onEvening(ctx context.Context) error {
	d.show(constants.NotifEvening, basic(EveningTitle, EveningMessage))

	rec, err := d.today(ctx)
	if err == nil && rec.IsResolved() {
		_ = d.scheduler.DisarmReminders(ctx)
	}
	_ = d.scheduler.ScheduleEvening(ctx, d.settings(ctx))
	return err
}

func (d *Dispatcher) show(id string, n models.Notification) {
	if err := d.notifier.Create(id, n); err != nil {
		logger.Warn("Failed to show notification", "id", id, "error", err)
	}
}

// HandleClick opens the app and dismisses the clicked notification. Ids this
// dispatcher never created are ignored.
func (d *Dispatcher) HandleClick(ctx context.Context, id string) {
	switch id {
	case constants.NotifMorning, constants.NotifReminder, constants.NotifEvening:
	default:
		logger.Debug("Ignoring click on unknown notification", "id", id)
		return
	}

	if err := d.opener.Open(ctx); err != nil {
		logger.Warn("Failed to open dailyfocus", "error", err)
	}
	if err := d.notifier.Clear(id); err != nil {
		logger.Warn("Failed to clear notification", "id", id, "error", err)
	}
}
