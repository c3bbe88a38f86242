// Package config handles TOML-based configuration loading and validation.
// TOML is parsed as data only, so a config file can never inject commands;
// extra yt-dlp arguments are still filtered before use.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"ytresolve/internal/cmdargs"
	"ytresolve/internal/media"
)

// Config holds all application configuration.
type Config struct {
	YtDlpPath   string `toml:"ytdlp_path"`
	UseCookies  bool   `toml:"use_cookies"`
	CookiesPath string `toml:"cookies_path"`
	Quality     string `toml:"quality"`
	Width       int    `toml:"width"`  // Overrides the quality preset when set with Height
	Height      int    `toml:"height"` // Overrides the quality preset when set with Width
	ExtraArgs   string `toml:"extra_args"`
	Timeout     int    `toml:"timeout"` // Seconds
	Player      string `toml:"player"`
	History     bool   `toml:"history"`
	DownloadDir string `toml:"download_dir"`
	Debug       bool   `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		YtDlpPath:   "yt-dlp",
		UseCookies:  true,
		CookiesPath: "storage/cookies/cookies.txt",
		Quality:     "720",
		Timeout:     20,
		Player:      "mpv",
		History:     true,
		DownloadDir: "~/Videos/ytresolve",
		Debug:       false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ytresolve"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "ytresolve"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	validPlayers := map[string]bool{
		"mpv": true, "vlc": true, "iina": true, "celluloid": true,
	}
	if !validPlayers[strings.ToLower(c.Player)] {
		return fmt.Errorf("unsupported player %q (valid: mpv, vlc, iina, celluloid)", c.Player)
	}

	if _, err := media.ParseQuality(c.Quality); err != nil {
		return err
	}

	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("width and height must not be negative (got %dx%d)", c.Width, c.Height)
	}
	if (c.Width == 0) != (c.Height == 0) {
		return fmt.Errorf("width and height must be set together (got %dx%d)", c.Width, c.Height)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", c.Timeout)
	}

	if c.YtDlpPath == "" {
		return fmt.Errorf("ytdlp_path cannot be empty")
	}

	if c.UseCookies && c.CookiesPath == "" {
		return fmt.Errorf("cookies_path cannot be empty when use_cookies is set")
	}

	if _, err := cmdargs.Split(c.ExtraArgs); err != nil {
		return fmt.Errorf("extra_args: %w", err)
	}

	return nil
}

// VideoParameters returns the explicit dimensions if set, else the quality preset.
func (c *Config) VideoParameters() (media.VideoParameters, error) {
	params, err := media.ParseQuality(c.Quality)
	if err != nil {
		return media.VideoParameters{}, err
	}
	if c.Width > 0 && c.Height > 0 {
		params.Width = c.Width
		params.Height = c.Height
	}
	return params, nil
}

// QualityLabel describes the requested size for history and display.
func (c *Config) QualityLabel() string {
	if c.Width > 0 && c.Height > 0 {
		return fmt.Sprintf("%dx%d", c.Width, c.Height)
	}
	return c.Quality
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// ExpandDownloadDir resolves ~ in the download directory path.
func (c *Config) ExpandDownloadDir() (string, error) {
	return expandHome(c.DownloadDir)
}

// ExpandCookiesPath resolves ~ in the cookies path. Relative paths stay
// relative to the working directory, matching what yt-dlp sees.
func (c *Config) ExpandCookiesPath() (string, error) {
	if !strings.HasPrefix(c.CookiesPath, "~/") {
		return c.CookiesPath, nil
	}
	return expandHome(c.CookiesPath)
}

func expandHome(dir string) (string, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}

// HistoryPath returns the path to the history database.
func HistoryPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "ytresolve", "history.db"), nil
}
