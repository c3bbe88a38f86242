package player

import (
	"context"

	"ytresolve/internal/media"
)

// VLC implements the Player interface for VLC media player.
type VLC struct{}

func (v *VLC) Name() string { return "vlc" }

func (v *VLC) Available() bool { return available("vlc") }

// Play launches VLC; a separate audio stream is added as an input slave.
func (v *VLC) Play(ctx context.Context, streams *media.Streams) error {
	return run(ctx, "vlc", vlcArgs(streams))
}

func vlcArgs(streams *media.Streams) []string {
	args := []string{
		streams.VideoURL,
		"--play-and-exit",
	}
	if streams.Title != "" {
		args = append(args, "--meta-title", streams.Title)
	}
	if streams.Split() {
		args = append(args, "--input-slave="+streams.AudioURL)
	}
	return args
}
