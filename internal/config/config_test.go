package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.YtDlpPath != "yt-dlp" {
		t.Errorf("default ytdlp_path = %q, want yt-dlp", cfg.YtDlpPath)
	}
	if !cfg.UseCookies {
		t.Error("default use_cookies should be true")
	}
	if cfg.CookiesPath != "storage/cookies/cookies.txt" {
		t.Errorf("default cookies_path = %q", cfg.CookiesPath)
	}
	if cfg.Timeout != 20 {
		t.Errorf("default timeout = %d, want 20", cfg.Timeout)
	}
	if cfg.Player != "mpv" {
		t.Errorf("default player = %q, want mpv", cfg.Player)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"invalid player", func(c *Config) { c.Player = "notepad" }, true},
		{"invalid quality", func(c *Config) { c.Quality = "8k" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"negative width", func(c *Config) { c.Width, c.Height = -1, 720 }, true},
		{"width without height", func(c *Config) { c.Width = 1280 }, true},
		{"empty tool", func(c *Config) { c.YtDlpPath = "" }, true},
		{"cookies without path", func(c *Config) { c.CookiesPath = "" }, true},
		{"no cookies, no path", func(c *Config) { c.UseCookies, c.CookiesPath = false, "" }, false},
		{"unbalanced extra args", func(c *Config) { c.ExtraArgs = `--proxy "x` }, true},
		{"quoted extra args", func(c *Config) { c.ExtraArgs = `--proxy "socks5://h:1"` }, false},
		{"valid vlc", func(c *Config) { c.Player = "vlc" }, false},
		{"valid 1080p label", func(c *Config) { c.Quality = "1080p" }, false},
		{"explicit size", func(c *Config) { c.Width, c.Height = 1080, 1920 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVideoParameters(t *testing.T) {
	cfg := Default()
	cfg.Quality = "1080"

	p, err := cfg.VideoParameters()
	if err != nil {
		t.Fatalf("VideoParameters() error: %v", err)
	}
	if p.Width != 1920 || p.Height != 1080 {
		t.Errorf("1080 preset = %dx%d", p.Width, p.Height)
	}
	if cfg.QualityLabel() != "1080" {
		t.Errorf("QualityLabel() = %q", cfg.QualityLabel())
	}

	cfg.Width, cfg.Height = 1080, 1920
	p, _ = cfg.VideoParameters()
	if p.Resolution() != 1080 {
		t.Errorf("explicit 1080x1920 resolution = %d, want 1080", p.Resolution())
	}
	if cfg.QualityLabel() != "1080x1920" {
		t.Errorf("QualityLabel() = %q", cfg.QualityLabel())
	}
}

func TestTimeoutDuration(t *testing.T) {
	cfg := Default()
	if got := cfg.TimeoutDuration(); got != 20*time.Second {
		t.Errorf("TimeoutDuration() = %v, want 20s", got)
	}
}

func TestLoadFromTOML(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	dir := filepath.Join(tmpDir, "ytresolve")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	content := `
ytdlp_path = "/usr/local/bin/yt-dlp"
use_cookies = false
quality = "480"
extra_args = "--proxy 'socks5://127.0.0.1:9050'"
timeout = 45
player = "vlc"
history = false
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.YtDlpPath != "/usr/local/bin/yt-dlp" {
		t.Errorf("ytdlp_path = %q", cfg.YtDlpPath)
	}
	if cfg.UseCookies {
		t.Error("use_cookies should be false")
	}
	if cfg.CookiesPath != "storage/cookies/cookies.txt" {
		t.Errorf("unset cookies_path should keep default, got %q", cfg.CookiesPath)
	}
	if cfg.Quality != "480" {
		t.Errorf("quality = %q, want 480", cfg.Quality)
	}
	if cfg.Timeout != 45 {
		t.Errorf("timeout = %d, want 45", cfg.Timeout)
	}
	if cfg.Player != "vlc" {
		t.Errorf("player = %q, want vlc", cfg.Player)
	}
	if cfg.History {
		t.Error("history should be false")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	dir := filepath.Join(tmpDir, "ytresolve")
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`timeout = -5`), 0644)

	if _, err := Load(); err == nil {
		t.Error("Load() should reject a negative timeout")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not error on missing file: %v", err)
	}
	if cfg.Player != "mpv" {
		t.Errorf("missing file should return defaults, got player = %q", cfg.Player)
	}
}

func TestExpandDownloadDir(t *testing.T) {
	cfg := Default()
	cfg.DownloadDir = "/tmp/test-downloads"

	dir, err := cfg.ExpandDownloadDir()
	if err != nil {
		t.Fatalf("ExpandDownloadDir() error: %v", err)
	}
	if dir != "/tmp/test-downloads" {
		t.Errorf("got %q, want /tmp/test-downloads", dir)
	}
}

func TestExpandCookiesPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	cfg := Default()
	got, _ := cfg.ExpandCookiesPath()
	if got != "storage/cookies/cookies.txt" {
		t.Errorf("relative path changed to %q", got)
	}

	cfg.CookiesPath = "~/cookies.txt"
	got, _ = cfg.ExpandCookiesPath()
	if want := filepath.Join(home, "cookies.txt"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHistoryPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmpDir)

	path, err := HistoryPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(tmpDir, "ytresolve", "history.db"); path != want {
		t.Errorf("HistoryPath() = %q, want %q", path, want)
	}
}
