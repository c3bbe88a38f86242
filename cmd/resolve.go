package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"ytresolve/internal/cmdargs"
	"ytresolve/internal/config"
	"ytresolve/internal/download"
	"ytresolve/internal/history"
	"ytresolve/internal/httputil"
	"ytresolve/internal/media"
	"ytresolve/internal/meta"
	"ytresolve/internal/player"
	"ytresolve/internal/ytdlp"
)

// Resolve flags
var (
	flagDryRun   bool
	flagPlay     bool
	flagDownload string
	flagSave     bool
)

// titleTimeout bounds the best-effort page title lookup.
const titleTimeout = 5 * time.Second

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <link>",
	Short: "Resolve the stream URLs of a link",
	Args:  cobra.ExactArgs(1),
	RunE:  resolveRun,
}

func addResolveFlags(c *cobra.Command) {
	c.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the yt-dlp command instead of running it")
	c.Flags().BoolVarP(&flagPlay, "play", "p", false, "Play the streams with the configured player")
	c.Flags().StringVarP(&flagDownload, "download", "d", "", "Save the streams to `DIR` with ffmpeg")
	c.Flags().BoolVarP(&flagSave, "save", "s", false, "Save the streams to the configured download_dir")
}

func init() {
	addResolveFlags(resolveCmd)
}

func resolveRun(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	return resolveLink(cmd.Context(), cmd.OutOrStdout(), strings.TrimSpace(args[0]))
}

// resolveLink resolves link and hands the streams to the requested output.
func resolveLink(ctx context.Context, w io.Writer, link string) error {
	if !ytdlp.IsSupportedLink(link) {
		return fmt.Errorf("unsupported link %q: expected a YouTube video URL", link)
	}

	req, err := buildRequest(link)
	if err != nil {
		return err
	}
	ext := newExtractor()

	if flagDryRun {
		argv, err := ext.Command(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, cmdargs.Join(argv...))
		return nil
	}

	debugf("resolving %s at %s", link, req.Params)
	res, err := ext.Extract(ctx, req)
	if err != nil {
		return err
	}

	streams := &media.Streams{
		Title:    lookupTitle(ctx, link),
		VideoURL: res.VideoURL,
		AudioURL: res.AudioURL,
	}
	recordHistory(ctx, link, streams)

	dir, err := downloadDir()
	if err != nil {
		return err
	}

	switch {
	case dir != "":
		path, err := download.Download(ctx, streams, dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s\n", okStyle.Render("Saved"), path)
		return nil
	case flagPlay:
		p := player.New(cfg.Player)
		if !p.Available() {
			return fmt.Errorf("%s not found in PATH", p.Name())
		}
		debugf("playing with %s", p.Name())
		return p.Play(ctx, streams)
	case flagJSON:
		return writeJSON(w, link, streams)
	default:
		writeStreams(w, streams)
		return nil
	}
}

// downloadDir returns where to save streams, or "" when not saving.
func downloadDir() (string, error) {
	if flagDownload != "" {
		return flagDownload, nil
	}
	if flagSave {
		return cfg.ExpandDownloadDir()
	}
	return "", nil
}

// buildRequest turns the merged configuration into an extraction request.
func buildRequest(link string) (ytdlp.Request, error) {
	params, err := cfg.VideoParameters()
	if err != nil {
		return ytdlp.Request{}, err
	}

	req := ytdlp.NewRequest(link, params)
	req.ExtraArgs = cfg.ExtraArgs
	req.UseCookies = cfg.UseCookies
	if req.UseCookies {
		cookies, err := cfg.ExpandCookiesPath()
		if err != nil {
			return ytdlp.Request{}, err
		}
		req.CookiesPath = cookies
	}
	return req, nil
}

// lookupTitle fetches the page title, returning "" on any failure.
func lookupTitle(ctx context.Context, link string) string {
	ctx, cancel := context.WithTimeout(ctx, titleTimeout)
	defer cancel()

	title, err := meta.FetchTitle(ctx, httputil.NewClient(), link)
	if err != nil {
		debugf("title lookup failed: %v", err)
		return ""
	}
	return title
}

// recordHistory saves the link to history. Failures are logged, not returned.
func recordHistory(ctx context.Context, link string, streams *media.Streams) {
	if !cfg.History {
		return
	}

	store, err := openHistory()
	if err != nil {
		logger.Warn("history unavailable", "err", err)
		return
	}
	defer store.Close()

	entry := media.HistoryEntry{
		Link:    link,
		Title:   streams.Title,
		Quality: cfg.QualityLabel(),
		Split:   streams.Split(),
	}
	if err := store.Save(ctx, entry); err != nil {
		logger.Warn("saving history", "err", err)
	}
}

func openHistory() (*history.Store, error) {
	path, err := config.HistoryPath()
	if err != nil {
		return nil, err
	}
	return history.Open(path)
}

type streamsJSON struct {
	Link     string `json:"link"`
	Title    string `json:"title,omitempty"`
	VideoURL string `json:"video_url"`
	AudioURL string `json:"audio_url"`
	Split    bool   `json:"split"`
}

func writeJSON(w io.Writer, link string, streams *media.Streams) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(streamsJSON{
		Link:     link,
		Title:    streams.Title,
		VideoURL: streams.VideoURL,
		AudioURL: streams.AudioURL,
		Split:    streams.Split(),
	})
}

func writeStreams(w io.Writer, streams *media.Streams) {
	if streams.Title != "" {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("title"), streams.Title)
	}
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("video"), streams.VideoURL)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("audio"), streams.AudioURL)
}
