package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/dailyfocus/internal/constants"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Store != filepath.Join(filepath.Dir(path), "dailyfocus.db") {
		t.Errorf("Store = %q", cfg.Store)
	}
	if cfg.Socket != filepath.Join(filepath.Dir(path), constants.DefaultSocketName) {
		t.Errorf("Socket = %q", cfg.Socket)
	}
	if cfg.Notifier != constants.NotifierLog || cfg.Timezone != "Local" || cfg.Debug {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "store: json:" + filepath.Join(dir, "days.json") + "\nnotifier: tray\ntimezone: UTC\nopen_command: xdg-open dailyfocus://\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DAILYFOCUS_DEBUG", "true")
	t.Setenv("DAILYFOCUS_NOTIFIER", "log")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !strings.HasPrefix(cfg.Store, "json:") {
		t.Errorf("Store = %q, want json store", cfg.Store)
	}
	if cfg.Timezone != "UTC" || cfg.OpenCommand != "xdg-open dailyfocus://" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if !cfg.Debug {
		t.Error("DAILYFOCUS_DEBUG should enable debug")
	}
	if cfg.Notifier != constants.NotifierLog {
		t.Errorf("env should override file notifier, got %q", cfg.Notifier)
	}

	loc, err := cfg.Location()
	if err != nil || loc.String() != "UTC" {
		t.Errorf("Location() = %v, %v", loc, err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"notifier": "notifier: desktop\n",
		"timezone": "timezone: Mars/Olympus\n",
		"yaml":     "store: [unterminated\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("Load() accepted %q", content)
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	written, err := WriteDefault(path)
	if err != nil {
		t.Fatalf("WriteDefault() failed: %v", err)
	}
	if !written {
		t.Fatal("WriteDefault() should write a missing file")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() of written default failed: %v", err)
	}
	if *cfg != *Default(path) {
		t.Errorf("round trip = %+v, want %+v", cfg, Default(path))
	}

	if err := os.WriteFile(path, []byte("notifier: tray\n"), 0600); err != nil {
		t.Fatal(err)
	}
	written, err = WriteDefault(path)
	if err != nil || written {
		t.Errorf("WriteDefault() over existing file = %v, %v; want false, nil", written, err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "notifier: tray\n" {
		t.Error("existing config was overwritten")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/.config/dailyfocus"); got != filepath.Join(home, ".config", "dailyfocus") {
		t.Errorf("ExpandPath() = %q", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path changed: %q", got)
	}
	if got := ExpandPath("~user/x"); got != "~user/x" {
		t.Errorf("~user form should be left alone, got %q", got)
	}
}
