package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/dailyfocus/internal/constants"
	"github.com/julianstephens/dailyfocus/internal/utils"
)

// Config is the process configuration shared by the daemon and the popup.
// User-facing reminder settings live in the store, not here.
type Config struct {
	// Store is a sqlite path, a postgres:// URL, "keyring" (postgres URL
	// read from the OS keyring) or "json:<path>".
	Store string `mapstructure:"store" yaml:"store"`

	// Socket is the unix socket the daemon listens on.
	Socket string `mapstructure:"socket" yaml:"socket"`

	// Timezone decides where day boundaries fall. "Local" uses the system zone.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`

	Debug bool `mapstructure:"debug" yaml:"debug"`

	// Notifier is "tray" or "log".
	Notifier string `mapstructure:"notifier" yaml:"notifier"`

	// OpenCommand runs when a notification is clicked. Empty means log only.
	OpenCommand string `mapstructure:"open_command" yaml:"open_command"`

	path string
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory holding the config file, logs and socket.
func (c *Config) Dir() string {
	return filepath.Dir(c.path)
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Default returns the configuration used when no file exists at path.
func Default(path string) *Config {
	path = ExpandPath(path)
	dir := filepath.Dir(path)
	return &Config{
		Store:       filepath.Join(dir, constants.AppName+".db"),
		Socket:      filepath.Join(dir, constants.DefaultSocketName),
		Timezone:    constants.DefaultTimezone,
		Debug:       false,
		Notifier:    constants.NotifierLog,
		OpenCommand: "",
		path:        path,
	}
}

// Load reads the YAML file at path with DAILYFOCUS_* environment overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default(path)

	v := viper.New()
	v.SetConfigFile(cfg.path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault(constants.ConfigStore, cfg.Store)
	v.SetDefault(constants.ConfigSocket, cfg.Socket)
	v.SetDefault(constants.ConfigTimezone, cfg.Timezone)
	v.SetDefault(constants.ConfigDebug, cfg.Debug)
	v.SetDefault(constants.ConfigNotifier, cfg.Notifier)
	v.SetDefault(constants.ConfigOpenCommand, cfg.OpenCommand)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", cfg.path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", cfg.path, err)
	}
	cfg.Store = expandStore(cfg.Store)
	cfg.Socket = ExpandPath(cfg.Socket)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func expandStore(store string) string {
	if rest, ok := strings.CutPrefix(store, constants.StoreJSONPrefix); ok {
		return constants.StoreJSONPrefix + ExpandPath(rest)
	}
	return ExpandPath(store)
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store) == "" {
		return fmt.Errorf("config: %s must not be empty", constants.ConfigStore)
	}
	if strings.TrimSpace(c.Socket) == "" {
		return fmt.Errorf("config: %s must not be empty", constants.ConfigSocket)
	}
	switch c.Notifier {
	case constants.NotifierTray, constants.NotifierLog:
	default:
		return fmt.Errorf("config: %s must be %q or %q, got %q", constants.ConfigNotifier, constants.NotifierTray, constants.NotifierLog, c.Notifier)
	}
	_, err := c.Location()
	return err
}

// WriteDefault writes the default configuration to path unless a file is
// already there. It reports whether a file was written.
func WriteDefault(path string) (bool, error) {
	cfg := Default(path)
	if _, err := os.Stat(cfg.path); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(cfg.Dir(), 0o700); err != nil {
		return false, fmt.Errorf("creating config directory %s: %w", cfg.Dir(), err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return false, fmt.Errorf("encoding config: %w", err)
	}
	header := []byte("# dailyfocus process configuration. Environment variables DAILYFOCUS_<KEY> override these values.\n")
	if err := os.WriteFile(cfg.path, append(header, data...), 0o600); err != nil {
		return false, fmt.Errorf("writing config to %s: %w", cfg.path, err)
	}
	return true, nil
}
