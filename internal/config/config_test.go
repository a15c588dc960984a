package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tilde expands to home", "~/music", filepath.Join(home, "music")},
		{"tilde with nested path", "~/music/library/albums", filepath.Join(home, "music", "library", "albums")},
		{"absolute path unchanged", "/usr/local/music", "/usr/local/music"},
		{"relative path unchanged", "music/albums", "music/albums"},
		{"empty string unchanged", "", ""},
		{"tilde only", "~", home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) != 2 {
		t.Fatalf("getConfigPaths() returned %d paths, want 2", len(paths))
	}
	if lastPath := paths[len(paths)-1]; lastPath != "config.toml" {
		t.Errorf("last config path = %q, want %q", lastPath, "config.toml")
	}
	if filepath.Base(filepath.Dir(paths[0])) != "rwave" {
		t.Errorf("first config path = %q, want it under an rwave directory", paths[0])
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_FilesAndEnv(t *testing.T) {
	dir := t.TempDir()
	user := writeFile(t, dir, "user.toml", `
library_sources = ["/music", "/more"]
db_path = "/data/user.db"

[player]
poll_interval = "250ms"
sample_rate = 48000

[server]
addr = ":9000"
mpris = false

[log]
level = "debug"
`)
	local := writeFile(t, dir, "local.toml", `
db_path = "/data/local.db"
`)

	t.Setenv("RWAVE_PLAYER__SINK_BUFFER", "8")
	t.Setenv("RWAVE_LOG__MAX_SIZE_MB", "5")

	cfg, err := load([]string{user, local, filepath.Join(dir, "missing.toml")}, filepath.Join(dir, "none.env"))
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	if len(cfg.LibrarySources) != 2 || cfg.LibrarySources[0] != "/music" {
		t.Errorf("LibrarySources = %v", cfg.LibrarySources)
	}
	if cfg.DBPath != "/data/local.db" {
		t.Errorf("DBPath = %q, want later file to win", cfg.DBPath)
	}

	player := cfg.GetPlayerConfig()
	if player.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %v, want 250ms", player.PollInterval)
	}
	if player.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000", player.SampleRate)
	}
	if player.SinkBuffer != 8 {
		t.Errorf("SinkBuffer = %d, want 8 from env", player.SinkBuffer)
	}
	if player.Buffer != 100*time.Millisecond {
		t.Errorf("Buffer = %v, want default 100ms", player.Buffer)
	}

	if cfg.GetServerConfig().Addr != ":9000" {
		t.Errorf("Addr = %q", cfg.GetServerConfig().Addr)
	}
	if cfg.MPRISEnabled() {
		t.Error("MPRIS should be disabled")
	}

	logCfg := cfg.GetLogConfig()
	if logCfg.Level != "debug" || logCfg.MaxSizeMB != 5 {
		t.Errorf("Log = %+v", logCfg)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	dotenv := writeFile(t, dir, ".env", "RWAVE_SERVER__ADDR=127.0.0.1:1234\nRWAVE_LIBRARY_SOURCES=/a"+string(os.PathListSeparator)+"/b\n")
	t.Cleanup(func() {
		os.Unsetenv("RWAVE_SERVER__ADDR")
		os.Unsetenv("RWAVE_LIBRARY_SOURCES")
	})

	cfg, err := load(nil, dotenv)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:1234" {
		t.Errorf("Addr = %q, want value from .env", cfg.Server.Addr)
	}
	if len(cfg.LibrarySources) != 2 || cfg.LibrarySources[1] != "/b" {
		t.Errorf("LibrarySources = %v, want [/a /b]", cfg.LibrarySources)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.toml", "this is = = not toml")

	if _, err := load([]string{bad}, filepath.Join(dir, "none.env")); err == nil {
		t.Error("load() should fail on invalid TOML")
	}
}

func TestDefaults(t *testing.T) {
	var cfg Config

	player := cfg.GetPlayerConfig()
	if player.PollInterval != 100*time.Millisecond || player.SampleRate != 44100 || player.SinkBuffer != 64 {
		t.Errorf("player defaults = %+v", player)
	}
	server := cfg.GetServerConfig()
	if server.Addr != "127.0.0.1:7744" || !*server.MPRIS || server.Notifications {
		t.Errorf("server defaults = %+v", server)
	}
	if cfg.GetLogConfig().Level != "info" {
		t.Errorf("log level default = %q", cfg.GetLogConfig().Level)
	}

	cfg.DBPath = "/tmp/x.db"
	if got, err := cfg.GetDBPath(); err != nil || got != "/tmp/x.db" {
		t.Errorf("GetDBPath() = %q, %v", got, err)
	}
}
