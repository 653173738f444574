package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/dailyfocus/internal/cli"
	"github.com/julianstephens/dailyfocus/internal/config"
	"github.com/julianstephens/dailyfocus/internal/daemon"
	"github.com/julianstephens/dailyfocus/internal/storage/postgres"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing store before initialization."`
	Source string `help:"Source store (sqlite path, json:<path> or connection string) to copy entries from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	written, err := config.WriteDefault(ctx.Config.Path())
	if err != nil {
		return err
	}
	if written {
		fmt.Printf("Wrote default config to: %s\n", ctx.Config.Path())
	}

	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized dailyfocus storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying entries from: %s\n", c.Source)
		n, err := c.copyEntries(ctx, c.Source)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Printf("Copied %d entries\n", n)
	}

	if err := daemon.MarkInstalled(ctx.InstallMarkerPath()); err != nil {
		return err
	}
	return nil
}

// reset removes a file-backed store. Postgres databases are never dropped.
func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*postgres.Store); ok {
		return fmt.Errorf("--force is only supported for file-backed stores")
	}
	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absDbPath, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDbPath
		}
		absSource, err := filepath.Abs(c.Source)
		if err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing store: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing store: %w", err)
		}
		fmt.Printf("Deleted existing store at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing store: %w", err)
	}
	return nil
}

// copyEntries moves every key from source into the initialized store
// unchanged. Values are opaque, so any backend can feed any other.
func (c *InitCmd) copyEntries(ctx *cli.Context, source string) (int, error) {
	src, err := cli.NewStore(source)
	if err != nil {
		return 0, err
	}
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source store: %w", err)
	}
	defer src.Close()

	entries, err := src.Get(ctx.Context(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to read source store: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}
	if err := ctx.Store.Set(ctx.Context(), entries); err != nil {
		return 0, fmt.Errorf("failed to write entries: %w", err)
	}
	return len(entries), nil
}
