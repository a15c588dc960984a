package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName   = "rwave"
	envPrefix = "RWAVE_"
)

type Config struct {
	LibrarySources []string `koanf:"library_sources"` // paths scanned by `rwave scan`
	DBPath         string   `koanf:"db_path"`

	Player PlayerConfig `koanf:"player"`
	Server ServerConfig `koanf:"server"`
	Log    LogConfig    `koanf:"log"`
}

// PlayerConfig holds audio output settings.
type PlayerConfig struct {
	PollInterval time.Duration `koanf:"poll_interval"` // period of position updates (default: 100ms)
	SampleRate   int           `koanf:"sample_rate"`   // output rate in Hz (default: 44100)
	Buffer       time.Duration `koanf:"buffer"`        // speaker buffer length (default: 100ms)
	SinkBuffer   int           `koanf:"sink_buffer"`   // pending events per subscriber (default: 64)
}

// ServerConfig holds the control surfaces started by `rwave serve`.
type ServerConfig struct {
	Addr  string `koanf:"addr"`  // HTTP listen address (default: 127.0.0.1:7744)
	MPRIS *bool  `koanf:"mpris"` // register on the session bus (default: true)

	Notifications bool `koanf:"notifications"` // desktop notification on track change
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `koanf:"level"` // debug, info, warn, error (default: info)
	File       string `koanf:"file"`  // optional rotated log file
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// Load reads the config files, then a .env file if present, then RWAVE_
// environment variables. Later sources win.
func Load() (*Config, error) {
	return load(getConfigPaths(), ".env")
}

func load(configPaths []string, dotenv string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	// godotenv never overrides variables already set in the environment.
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	for i, src := range cfg.LibrarySources {
		cfg.LibrarySources[i] = expandPath(src)
	}
	cfg.DBPath = expandPath(cfg.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	return cfg, nil
}

// envKey maps RWAVE_PLAYER__POLL_INTERVAL to player.poll_interval. A
// double underscore separates sections so keys may contain single ones.
// library_sources takes a list separated like PATH.
func envKey(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if key == "library_sources" {
		return key, filepath.SplitList(value)
	}
	return key, value
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/rwave/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetDBPath returns the library database location, defaulting to the XDG
// data directory.
func (c *Config) GetDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	return xdg.DataFile(filepath.Join(appName, appName+".db"))
}

// GetPlayerConfig returns the player configuration with defaults applied.
func (c *Config) GetPlayerConfig() PlayerConfig {
	cfg := c.Player
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 100 * time.Millisecond
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 100 * time.Millisecond
	}
	if cfg.SinkBuffer <= 0 {
		cfg.SinkBuffer = 64
	}
	return cfg
}

// GetServerConfig returns the server configuration with defaults applied.
func (c *Config) GetServerConfig() ServerConfig {
	cfg := c.Server
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:7744"
	}
	if cfg.MPRIS == nil {
		enabled := true
		cfg.MPRIS = &enabled
	}
	return cfg
}

// MPRISEnabled reports whether the MPRIS bridge should be started.
func (c *Config) MPRISEnabled() bool {
	return *c.GetServerConfig().MPRIS
}

// GetLogConfig returns the logging configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "error":
		cfg.Level = strings.ToLower(cfg.Level)
	default:
		cfg.Level = "info"
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 3
	}
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = 28
	}
	return cfg
}
