package player

import (
	"context"

	"ytresolve/internal/media"
)

// MPV implements the Player interface for mpv.
type MPV struct{}

func (m *MPV) Name() string { return "mpv" }

func (m *MPV) Available() bool { return available("mpv") }

// Play launches mpv; a separate audio stream is attached with --audio-file.
func (m *MPV) Play(ctx context.Context, streams *media.Streams) error {
	return run(ctx, "mpv", mpvArgs(streams))
}

// mpvArgs is shared with mpv-compatible players.
func mpvArgs(streams *media.Streams) []string {
	args := []string{
		streams.VideoURL,
		"--really-quiet",
	}
	if streams.Title != "" {
		args = append(args, "--force-media-title="+streams.Title)
	}
	if streams.Split() {
		args = append(args, "--audio-file="+streams.AudioURL)
	}
	return args
}
