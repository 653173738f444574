package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/jmhodges/clock"

	"github.com/julianstephens/dailyfocus/internal/alarm"
	"github.com/julianstephens/dailyfocus/internal/constants"
	"github.com/julianstephens/dailyfocus/internal/logger"
	"github.com/julianstephens/dailyfocus/internal/models"
	"github.com/julianstephens/dailyfocus/internal/utils"
)

// NextOccurrence returns the next wall-clock hour:minute strictly after now,
// in now's location. Tomorrow's occurrence is computed on the calendar so
// that DST transitions keep the same local time.
func NextOccurrence(now time.Time, hour, minute int) time.Time {
	candidate := utils.AtClock(now, hour, minute)
	if candidate.After(now) {
		return candidate
	}
	return utils.AtClock(now.AddDate(0, 0, 1), hour, minute)
}

// Scheduler arms and disarms the three named alarms from the user's settings.
// Every schedule operation clears the alarm before creating it.
type Scheduler struct {
	alarms alarm.Service
	clock  clock.Clock
	loc    *time.Location
}

func New(alarms alarm.Service, clk clock.Clock, loc *time.Location) *Scheduler {
	if clk == nil {
		clk = clock.New()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		alarms: alarms,
		clock:  clk,
		loc:    loc,
	}
}

// Now returns the current time in the scheduler's location.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now().In(s.loc)
}

// ScheduleDailyTriggers re-derives the morning and evening alarms. It is
// idempotent.
func (s *Scheduler) ScheduleDailyTriggers(ctx context.Context, settings models.Settings) error {
	return errors.Join(
		s.ScheduleMorning(ctx, settings),
		s.ScheduleEvening(ctx, settings),
	)
}

// ScheduleMorning clears the morning alarm and re-creates it when enabled.
func (s *Scheduler) ScheduleMorning(_ context.Context, settings models.Settings) error {
	return s.scheduleDaily(constants.AlarmMorning, settings.EnableMorning, settings.MorningHour, settings.MorningMinute)
}

// ScheduleEvening clears the evening alarm and re-creates it when enabled.
func (s *Scheduler) ScheduleEvening(_ context.Context, settings models.Settings) error {
	return s.scheduleDaily(constants.AlarmEvening, settings.EnableEvening, settings.EveningHour, settings.EveningMinute)
}

func (s *Scheduler) scheduleDaily(name string, enabled bool, hour, minute int) error {
	if err := s.clear(name); err != nil {
		return err
	}
	if !enabled {
		logger.Debug("Daily alarm disabled", "alarm", name)
		return nil
	}

	when := NextOccurrence(s.Now(), hour, minute)
	if err := s.alarms.Create(name, alarm.Spec{When: when}); err != nil {
		logger.Warn("Failed to create alarm", "alarm", name, "error", err)
		return err
	}
	logger.Info("Alarm scheduled", "alarm", name, "when", when.Format(time.RFC3339))
	return nil
}

// ArmReminders starts the periodic reminder, replacing any running one.
func (s *Scheduler) ArmReminders(_ context.Context, settings models.Settings) error {
	if err := s.clear(constants.AlarmReminder); err != nil {
		return err
	}
	if !settings.EnableReminders {
		logger.Debug("Reminders disabled")
		return nil
	}

	minutes := max(1, settings.ReminderMinutes)
	interval := time.Duration(minutes) * time.Minute
	if err := s.alarms.Create(constants.AlarmReminder, alarm.Spec{Delay: interval, Period: interval}); err != nil {
		logger.Warn("Failed to create alarm", "alarm", constants.AlarmReminder, "error", err)
		return err
	}
	logger.Info("Reminders armed", "every_minutes", minutes)
	return nil
}

// DisarmReminders stops the periodic reminder. Morning and evening alarms are
// left alone.
func (s *Scheduler) DisarmReminders(_ context.Context) error {
	return s.clear(constants.AlarmReminder)
}

func (s *Scheduler) clear(name string) error {
	if err := s.alarms.Clear(name); err != nil {
		logger.Warn("Failed to clear alarm", "alarm", name, "error", err)
		return err
	}
	return nil
}
