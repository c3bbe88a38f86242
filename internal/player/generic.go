package player

import (
	"context"

	"ytresolve/internal/media"
)

// Generic implements the Player interface for players like iina and celluloid
// that accept mpv-compatible arguments.
type Generic struct {
	name string
}

func (g *Generic) Name() string { return g.name }

func (g *Generic) Available() bool { return available(g.name) }

// Play launches the player with mpv-style flags. iina wants them prefixed
// with --mpv-.
func (g *Generic) Play(ctx context.Context, streams *media.Streams) error {
	return run(ctx, g.name, g.args(streams))
}

func (g *Generic) args(streams *media.Streams) []string {
	args := mpvArgs(streams)
	if g.name != "iina" {
		return args
	}
	for i, a := range args {
		if len(a) > 2 && a[:2] == "--" {
			args[i] = "--mpv-" + a[2:]
		}
	}
	return args
}
