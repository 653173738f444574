package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/dailyfocus/internal/cli"
	"github.com/julianstephens/dailyfocus/internal/constants"
	"github.com/julianstephens/dailyfocus/internal/notifier"
	"github.com/julianstephens/dailyfocus/internal/storage"
	"github.com/julianstephens/dailyfocus/internal/utils"
	"github.com/julianstephens/dailyfocus/internal/validation"
)

type DoctorCmd struct {
	Fix bool `help:"Repair fixable day record and settings problems."`
}

type check struct {
	name string
	run  func(*cli.Context) error
	// needsStore checks are skipped when the store could not be loaded.
	needsStore bool
	// warnOnly failures do not fail the command.
	warnOnly bool
}

// trayRunning is swapped in tests.
var trayRunning = notifier.Running

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	// The first check gates every needsStore check.
	checks := []check{
		{name: "Store reachable", run: checkStoreReachable},
		{name: "Schema version", run: checkSchemaVersion, needsStore: true},
		{name: "Migrations complete", run: checkMigrationsComplete, needsStore: true},
		{name: "Data validation", run: cmd.checkValidation, needsStore: true},
		{name: "Clock/timezone", run: checkClockTimezone},
		{name: "Daemon reachable", run: checkDaemon, warnOnly: true},
		{name: "Tray app", run: checkTray, warnOnly: true},
	}

	hasError := false
	storeReachable := false
	for i, c := range checks {
		if c.needsStore && !storeReachable {
			fmt.Printf("⊘ %s: SKIPPED (store not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
			if i == 0 {
				storeReachable = true
			}
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	if _, err := ctx.Store.Get(ctx.Context(), []string{constants.SettingsKey}); err != nil {
		return fmt.Errorf("failed to query store: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		// JSON store has no schema
		return nil
	}
	status, err := m.SchemaStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if status.Current > status.Latest {
		return fmt.Errorf("store schema version (%d) is newer than supported version (%d)", status.Current, status.Latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	status, err := m.SchemaStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if status.Pending() {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'dailyfocus migrate')", status.Current, status.Latest)
	}
	return nil
}

func (cmd *DoctorCmd) checkValidation(ctx *cli.Context) error {
	entries, err := ctx.Store.Get(ctx.Context(), nil)
	if err != nil {
		return fmt.Errorf("failed to read entries: %w", err)
	}

	result := validation.New().ValidateEntries(entries, utils.DateKey(ctx.Now()))
	if !result.HasConflicts() {
		return nil
	}
	fmt.Print(result.FormatReport())

	if !cmd.Fix {
		return fmt.Errorf("found %d problem(s), run 'dailyfocus doctor --fix' to repair the fixable ones", len(result.Conflicts))
	}

	actions := validation.AutoFix(result.Conflicts, entries, func(key string, value json.RawMessage) error {
		return ctx.Store.Set(ctx.Context(), map[string]json.RawMessage{key: value})
	})
	for _, a := range actions {
		fmt.Printf("   %s\n", a.Action)
	}
	remaining := 0
	for _, c := range result.Conflicts {
		if !c.Fixable {
			remaining++
		}
	}
	if remaining > 0 {
		return fmt.Errorf("%d problem(s) need manual attention", remaining)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("invalid timezone %q", ctx.Config.Timezone)
	}
	return nil
}

func checkDaemon(ctx *cli.Context) error {
	if err := ctx.Client().Ping(ctx.Context()); err != nil {
		return fmt.Errorf("daemon not reachable at %s, start it with 'dailyfocus daemon': %w", ctx.Config.Socket, err)
	}
	return nil
}

func checkTray(ctx *cli.Context) error {
	if ctx.Config.Notifier != constants.NotifierTray {
		return nil
	}
	if err := trayRunning(); err != nil {
		return errors.Join(errors.New("tray notifier configured but the tray app is not running"), err)
	}
	return nil
}
