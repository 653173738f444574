package main

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/jmhodges/clock"

	"github.com/julianstephens/dailyfocus/internal/cli"
	"github.com/julianstephens/dailyfocus/internal/cli/focus"
	"github.com/julianstephens/dailyfocus/internal/cli/settings"
	"github.com/julianstephens/dailyfocus/internal/cli/system"
	"github.com/julianstephens/dailyfocus/internal/config"
	"github.com/julianstephens/dailyfocus/internal/constants"
	apperrors "github.com/julianstephens/dailyfocus/internal/errors"
	"github.com/julianstephens/dailyfocus/internal/logger"
	"github.com/julianstephens/dailyfocus/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path. The store, socket and notifier are set there or via DAILYFOCUS_* variables." type:"path" default:"${config_path}"`
	Debug   bool   `help:"Log at debug level and mirror logs to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Write the default config and initialize storage."`
	Daemon  system.DaemonCmd  `cmd:"" help:"Run the background scheduler and notification dispatcher."`
	Tui     system.TuiCmd     `cmd:"" help:"Open the daily focus view." default:"1"`
	Set     focus.SetCmd      `cmd:"" help:"Set today's focus task."`
	Skip    focus.SkipCmd     `cmd:"" help:"Skip today."`
	Done    focus.DoneCmd     `cmd:"" help:"Mark today's task completed."`
	Status  focus.StatusCmd   `cmd:"" help:"Show today's focus and streak."`
	History focus.HistoryCmd  `cmd:"" help:"Show past days."`
	Streak  focus.StreakCmd   `cmd:"" help:"Print the current streak."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`

	Settings settings.SettingsCmd `cmd:"" help:"Manage reminder settings."`
	Notify   system.NotifyCmd     `cmd:"" hidden:"" help:"Notification hooks (used by the tray app)."`
}

// Commands that never touch the store.
var storeless = map[string]bool{
	"keyring": true,
	"notify":  true,
}

// Commands that initialize or check the store themselves.
var selfLoading = map[string]bool{
	"init":   true,
	"doctor": true,
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("One focus task a day, with morning, reminder and evening nudges"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}

	command := strings.Fields(kctx.Command())[0]
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug || cfg.Debug,
		ConfigDir: cfg.Dir(),
		Verbose:   command == "daemon",
	}); err != nil {
		apperrors.Fatal(err)
	}

	loc, err := cfg.Location()
	if err != nil {
		apperrors.Fatal(err)
	}

	appCtx := &cli.Context{
		Ctx:      context.Background(),
		Config:   cfg,
		Clock:    clock.New(),
		Location: loc,
	}

	var store storage.Provider
	if !storeless[command] {
		if store, err = cli.NewStore(cfg.Store); err != nil {
			apperrors.Fatal(err)
		}
		if !selfLoading[command] {
			if err := store.Load(); err != nil {
				apperrors.Fatal(err)
			}
		}
		appCtx.Store = store
	}

	logger.Debug("Running command", "command", kctx.Command(), "config", cfg.Path(), "store", cfg.Store)
	err = kctx.Run(appCtx)
	if store != nil {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("Failed to close store", "error", cerr)
		}
	}
	apperrors.Fatal(err)
}
