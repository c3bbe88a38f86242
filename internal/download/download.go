// Package download saves resolved streams to disk with ffmpeg.
// Streams are remuxed with -c copy; nothing is re-encoded.
package download

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"ytresolve/internal/httputil"
	"ytresolve/internal/media"
)

// Download remuxes streams into <outputDir>/<title>.mkv and returns the path.
func Download(ctx context.Context, streams *media.Streams, outputDir string) (string, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	absDir, err := filepath.Abs(outputDir)
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	outputPath, err := httputil.SafeDownloadPath(absDir, httputil.SanitizeFilename(streams.Title)+".mkv")
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, ffmpegArgs(streams, outputPath)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	fmt.Fprintf(os.Stderr, "Downloading to: %s\n", outputPath)

	if err := cmd.Run(); err != nil {
		os.Remove(outputPath)
		return "", fmt.Errorf("ffmpeg download failed: %w", err)
	}

	return outputPath, nil
}

func ffmpegArgs(streams *media.Streams, outputPath string) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "warning",
		"-i", streams.VideoURL,
	}

	if streams.Split() {
		args = append(args,
			"-i", streams.AudioURL,
			"-map", "0:v:0",
			"-map", "1:a:0",
		)
	}

	args = append(args, "-c", "copy")

	if streams.Title != "" {
		args = append(args, "-metadata", "title="+streams.Title)
	}

	return append(args, outputPath)
}
