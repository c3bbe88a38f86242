// Package player hands resolved streams to an external media player.
// Players are launched with explicit argument slices, never through a shell.
package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"ytresolve/internal/media"
)

// Player is the interface for media player implementations.
type Player interface {
	// Play blocks until the player exits.
	Play(ctx context.Context, streams *media.Streams) error

	// Name returns the player name.
	Name() string

	// Available checks if the player binary exists in PATH.
	Available() bool
}

// New creates a player by name.
func New(name string) Player {
	switch name {
	case "mpv":
		return &MPV{}
	case "vlc":
		return &VLC{}
	case "iina", "celluloid":
		return &Generic{name: name}
	default:
		return &MPV{}
	}
}

// run starts the player attached to the terminal. Players exit nonzero
// when the user closes them, so exit statuses are not errors.
func run(ctx context.Context, name string, args []string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return fmt.Errorf("running %s: %w", name, err)
	}
	return nil
}

func available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
