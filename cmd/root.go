// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ytresolve/internal/config"
	"ytresolve/internal/ytdlp"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagQuality   string
	flagWidth     int
	flagHeight    int
	flagExtraArgs string
	flagNoCookies bool
	flagCookies   string
	flagYtDlp     string
	flagTimeout   int
	flagPlayer    string
	flagJSON      bool
	flagDebug     bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

// logger is replaced in loadConfig once the debug setting is known.
var logger = slog.Default()

var rootCmd = &cobra.Command{
	Use:   "ytresolve [link]",
	Short: "Resolve direct stream URLs for YouTube links",
	Long: `ytresolve asks yt-dlp for the direct video and audio stream URLs of a
YouTube link and prints them, plays them with mpv/vlc, or saves them with ffmpeg.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: loadConfig,
	RunE:              resolveRun,
	SilenceUsage:      true,
}

// Execute runs the root command.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagQuality, "quality", "q", "", "Target quality: 360 | 480 | 720 | 1080 | 1440 | 2160")
	pf.IntVar(&flagWidth, "width", 0, "Target width (with --height, overrides --quality)")
	pf.IntVar(&flagHeight, "height", 0, "Target height (with --width, overrides --quality)")
	pf.StringVarP(&flagExtraArgs, "extra-args", "e", "", "Extra yt-dlp arguments in shell syntax")
	pf.BoolVar(&flagNoCookies, "no-cookies", false, "Do not pass a cookies file to yt-dlp")
	pf.StringVar(&flagCookies, "cookies", "", "Cookies file passed to yt-dlp")
	pf.StringVar(&flagYtDlp, "ytdlp", "", "Path to the yt-dlp executable")
	pf.IntVar(&flagTimeout, "timeout", 0, "Seconds to wait for yt-dlp (default 20)")
	pf.StringVar(&flagPlayer, "player", "", "Media player: mpv | vlc | iina | celluloid")
	pf.BoolVarP(&flagJSON, "json", "j", false, "Output stream URLs as JSON")
	pf.BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	addResolveFlags(rootCmd)

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagQuality != "" {
		cfg.Quality = flagQuality
	}
	if flagWidth != 0 || flagHeight != 0 {
		cfg.Width, cfg.Height = flagWidth, flagHeight
	}
	if flagExtraArgs != "" {
		cfg.ExtraArgs = flagExtraArgs
	}
	if flagCookies != "" {
		cfg.CookiesPath = flagCookies
		cfg.UseCookies = true
	}
	if flagNoCookies {
		cfg.UseCookies = false
	}
	if flagYtDlp != "" {
		cfg.YtDlpPath = flagYtDlp
	}
	if flagTimeout != 0 {
		cfg.Timeout = flagTimeout
	}
	if flagPlayer != "" {
		cfg.Player = flagPlayer
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return nil
}

// debugf logs a message if debug mode is enabled.
func debugf(format string, args ...interface{}) {
	logger.Debug(fmt.Sprintf(format, args...))
}

// newExtractor builds an extractor from the merged configuration.
func newExtractor() *ytdlp.Extractor {
	return ytdlp.New(
		ytdlp.WithTool(cfg.YtDlpPath),
		ytdlp.WithTimeout(cfg.TimeoutDuration()),
		ytdlp.WithLogger(logger),
	)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ytresolve %s\n", Version)
	},
}
