// Package daemon runs the background context: alarm fires, notification
// clicks and popup messages are turned into events and handled one at a time.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/dailyfocus/internal/alarm"
	"github.com/julianstephens/dailyfocus/internal/constants"
	"github.com/julianstephens/dailyfocus/internal/dispatcher"
	"github.com/julianstephens/dailyfocus/internal/ipc"
	"github.com/julianstephens/dailyfocus/internal/logger"
	"github.com/julianstephens/dailyfocus/internal/models"
	"github.com/julianstephens/dailyfocus/internal/scheduler"
	"github.com/julianstephens/dailyfocus/internal/storage"
)

type Options struct {
	Days       *storage.DayStore
	Scheduler  *scheduler.Scheduler
	Dispatcher *dispatcher.Dispatcher
	// Fires is the alarm delivery channel, usually alarm.Engine.C().
	Fires <-chan alarm.Fire
	// SocketPath enables the IPC server when set.
	SocketPath string
	// MarkerPath is the install marker written by init.
	MarkerPath string
}

type Daemon struct {
	days       *storage.DayStore
	scheduler  *scheduler.Scheduler
	dispatcher *dispatcher.Dispatcher
	fires      <-chan alarm.Fire
	socketPath string
	markerPath string
	events     chan Event
}

func New(opts Options) *Daemon {
	return &Daemon{
		days:       opts.Days,
		scheduler:  opts.Scheduler,
		dispatcher: opts.Dispatcher,
		fires:      opts.Fires,
		socketPath: opts.SocketPath,
		markerPath: opts.MarkerPath,
		events:     make(chan Event),
	}
}

// MarkInstalled records that the next daemon start follows a fresh install.
func MarkInstalled(path string) error {
	if err := os.WriteFile(path, []byte(constants.Version+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write install marker: %w", err)
	}
	return nil
}

// consumeInstallMarker reports whether the marker existed and removes it.
func (d *Daemon) consumeInstallMarker() bool {
	if d.markerPath == "" {
		return false
	}
	if _, err := os.Stat(d.markerPath); err != nil {
		return false
	}
	if err := os.Remove(d.markerPath); err != nil {
		logger.Warn("Failed to remove install marker", "path", d.markerPath, "error", err)
	}
	return true
}

// Run handles lifecycle events, then alarm fires and IPC events until ctx is
// cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if d.socketPath != "" {
		g.Go(func() error {
			if err := ipc.Serve(ctx, d.socketPath, d); err != nil {
				return fmt.Errorf("ipc server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		if d.consumeInstallMarker() {
			d.Handle(ctx, Installed())
		}
		d.Handle(ctx, Startup())
		return d.loop(ctx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (d *Daemon) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			logger.Info("Daemon stopping")
			return nil
		case fire, ok := <-d.fires:
			if !ok {
				return errors.New("alarm channel closed")
			}
			d.Handle(ctx, AlarmFired(fire.Name))
		case ev := <-d.events:
			d.Handle(ctx, ev)
		}
	}
}

// Handle processes a single event. It never panics on external failures;
// errors are logged or returned to the sender through ev.Reply.
func (d *Daemon) Handle(ctx context.Context, ev Event) {
	logger.Info("Handling event", "kind", ev.Kind, "name", ev.Name, "type", ev.Message.Type)

	switch ev.Kind {
	case EventInstalled, EventStartup:
		if err := d.scheduler.ScheduleDailyTriggers(ctx, d.settings(ctx)); err != nil {
			logger.Warn("Failed to schedule daily alarms", "event", ev.Kind, "error", err)
		}
	case EventAlarmFired:
		if err := d.dispatcher.HandleAlarm(ctx, ev.Name); err != nil {
			logger.Error("Alarm handling failed", "alarm", ev.Name, "error", err)
		}
	case EventNotificationClicked:
		d.dispatcher.HandleClick(ctx, ev.Name)
		reply(ev, nil)
	case EventMessage:
		reply(ev, d.handleMessage(ctx, ev.Message))
	default:
		logger.Warn("Ignoring unknown event", "kind", ev.Kind)
		reply(ev, errors.New("unknown event"))
	}
}

func reply(ev Event, err error) {
	if ev.Reply == nil {
		return
	}
	ev.Reply <- ipc.Ack(err)
}

func (d *Daemon) handleMessage(ctx context.Context, msg ipc.Message) error {
	switch msg.Type {
	case constants.MsgScheduleReminders, constants.MsgScheduleRemindersLegacy:
		return d.scheduler.ArmReminders(ctx, d.settings(ctx))
	case constants.MsgClearReminders:
		return d.scheduler.DisarmReminders(ctx)
	case constants.MsgRescheduleDaily:
		return d.scheduler.ScheduleDailyTriggers(ctx, d.settings(ctx))
	default:
		logger.Warn("Unknown message type", "type", msg.Type, "id", msg.ID)
		return ipc.ErrUnknownMessage
	}
}

func (d *Daemon) settings(ctx context.Context) models.Settings {
	s, err := d.days.Settings(ctx)
	if err != nil {
		logger.Warn("Using default settings", "error", err)
		return models.DefaultSettings()
	}
	return s
}

// submit hands ev to the loop and waits for its reply.
func (d *Daemon) submit(ctx context.Context, ev Event) ipc.Response {
	replies := make(chan ipc.Response, 1)
	ev.Reply = replies

	select {
	case d.events <- ev:
	case <-ctx.Done():
		return ipc.Ack(ctx.Err())
	}

	select {
	case resp := <-replies:
		return resp
	case <-ctx.Done():
		return ipc.Ack(ctx.Err())
	}
}

// HandleMessage implements ipc.Handler.
func (d *Daemon) HandleMessage(ctx context.Context, msg ipc.Message) ipc.Response {
	return d.submit(ctx, Event{Kind: EventMessage, Message: msg})
}

// Clicked implements ipc.Handler.
func (d *Daemon) Clicked(ctx context.Context, id string) ipc.Response {
	return d.submit(ctx, NotificationClicked(id))
}
