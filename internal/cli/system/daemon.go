package system

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/dailyfocus/internal/alarm"
	"github.com/julianstephens/dailyfocus/internal/cli"
	"github.com/julianstephens/dailyfocus/internal/constants"
	"github.com/julianstephens/dailyfocus/internal/daemon"
	"github.com/julianstephens/dailyfocus/internal/dispatcher"
	"github.com/julianstephens/dailyfocus/internal/logger"
	"github.com/julianstephens/dailyfocus/internal/notifier"
)

// alarmBuffer bounds undelivered fires while the handler is busy.
const alarmBuffer = 16

type DaemonCmd struct {
	Notifier string `help:"Override the configured notifier (tray or log)."`
}

func (c *DaemonCmd) Run(ctx *cli.Context) error {
	kind := ctx.Config.Notifier
	if c.Notifier != "" {
		kind = c.Notifier
	}
	n, err := notifier.New(kind, os.Stdout)
	if err != nil {
		return err
	}
	if kind == constants.NotifierTray {
		if err := notifier.Running(); err != nil {
			logger.Warn("Tray app not reachable, notifications will fail until it starts", "error", err)
		}
	}

	engine := alarm.NewEngine(alarmBuffer)
	engine.Start()
	defer engine.Stop()

	days := ctx.Days()
	sched := ctx.Scheduler(engine)
	disp := dispatcher.New(days, sched, n, dispatcher.NewOpener(ctx.Config.OpenCommand))

	d := daemon.New(daemon.Options{
		Days:       days,
		Scheduler:  sched,
		Dispatcher: disp,
		Fires:      engine.C(),
		SocketPath: ctx.Config.Socket,
		MarkerPath: ctx.InstallMarkerPath(),
	})

	runCtx, stop := signal.NotifyContext(ctx.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Daemon starting", "socket", ctx.Config.Socket, "notifier", kind, "store", ctx.Store.GetConfigPath())
	fmt.Printf("dailyfocus daemon listening on %s\n", ctx.Config.Socket)

	if err := d.Run(runCtx); err != nil {
		return err
	}
	if dropped := engine.Dropped(); dropped > 0 {
		logger.Warn("Alarm fires dropped while the handler was busy", "count", dropped)
	}
	logger.Info("Daemon stopped")
	return nil
}
