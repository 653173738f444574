package system

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmhodges/clock"

	"github.com/julianstephens/dailyfocus/internal/cli"
	"github.com/julianstephens/dailyfocus/internal/config"
	"github.com/julianstephens/dailyfocus/internal/constants"
	"github.com/julianstephens/dailyfocus/internal/models"
	"github.com/julianstephens/dailyfocus/internal/storage"
	"github.com/julianstephens/dailyfocus/internal/storage/sqlite"
)

// newTestContext returns a context rooted in a temp config dir with an
// uninitialized sqlite store and a fake clock at 2024-01-04 14:00 UTC.
func newTestContext(t *testing.T) (*cli.Context, clock.FakeClock) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default(filepath.Join(dir, "config.yaml"))
	cfg.Timezone = "UTC"

	store := sqlite.NewStore(cfg.Store)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	clk := clock.NewFake()
	clk.Set(time.Date(2024, 1, 4, 14, 0, 0, 0, time.UTC))

	return &cli.Context{
		Config:   cfg,
		Store:    store,
		Clock:    clk,
		Location: time.UTC,
	}, clk
}

func TestInitCmd_Success(t *testing.T) {
	ctx, _ := newTestContext(t)

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	for _, path := range []string{ctx.Config.Store, ctx.Config.Path(), ctx.InstallMarkerPath()} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _ := newTestContext(t)

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, _ := newTestContext(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}

	custom := models.DefaultSettings()
	custom.MorningHour = 6
	if err := ctx.Days().SaveSettings(ctx.Context(), custom); err != nil {
		t.Fatalf("failed to save modified settings: %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init with force failed: %v", err)
	}

	got, err := ctx.Days().Settings(ctx.Context())
	if err != nil {
		t.Fatalf("failed to get settings after force: %v", err)
	}
	if got != models.DefaultSettings() {
		t.Errorf("expected default settings after force, got %+v", got)
	}
}

func TestInitCmd_ForceWithNonExistentStore(t *testing.T) {
	ctx, _ := newTestContext(t)

	if _, err := os.Stat(ctx.Config.Store); !os.IsNotExist(err) {
		t.Fatalf("store file should not exist initially")
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init with force on non-existent store failed: %v", err)
	}
	if _, err := os.Stat(ctx.Config.Store); err != nil {
		t.Errorf("store file was not created: %v", err)
	}
}

func TestInitCmd_CopiesSource(t *testing.T) {
	ctx, _ := newTestContext(t)

	srcPath := filepath.Join(t.TempDir(), "old.json")
	src := storage.NewJSONStore(srcPath)
	if err := src.Init(); err != nil {
		t.Fatalf("failed to init source: %v", err)
	}
	rec, err := json.Marshal(models.NewTaskRecord("2024-01-03", "Ship it"))
	if err != nil {
		t.Fatal(err)
	}
	if err := src.Set(ctx.Context(), map[string]json.RawMessage{"2024-01-03": rec}); err != nil {
		t.Fatalf("failed to seed source: %v", err)
	}

	cmd := &InitCmd{Source: constants.StoreJSONPrefix + srcPath}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("init with source failed: %v", err)
	}

	got, err := ctx.Days().Day(ctx.Context(), "2024-01-03")
	if err != nil {
		t.Fatalf("failed to read copied day: %v", err)
	}
	if got == nil || got.TaskText() != "Ship it" {
		t.Errorf("expected copied task %q, got %+v", "Ship it", got)
	}
}

func TestInitCmd_ForceRejectsSameSource(t *testing.T) {
	ctx, _ := newTestContext(t)

	cmd := &InitCmd{Force: true, Source: ctx.Config.Store}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected error when source and destination are the same")
	}
}
