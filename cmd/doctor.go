package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ytresolve/internal/config"
	"ytresolve/internal/runner"
)

const versionProbeTimeout = 5 * time.Second

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that yt-dlp, ffmpeg and the player are installed",
	Args:  cobra.NoArgs,
	RunE:  doctorRun,
}

// check is one doctor line. Optional checks do not fail the command.
type check struct {
	name     string
	detail   string
	ok       bool
	optional bool
}

func doctorRun(cmd *cobra.Command, args []string) error {
	checks := []check{
		toolCheck(cmd.Context(), runner.ExecRunner{}, cfg.YtDlpPath, false),
		toolCheck(cmd.Context(), nil, "ffmpeg", true),
		toolCheck(cmd.Context(), nil, "fzf", true),
		toolCheck(cmd.Context(), nil, cfg.Player, true),
		cookiesCheck(),
	}
	if path, err := config.ConfigPath(); err == nil {
		checks = append(checks, fileCheck("config", path, true))
	}

	if failed := writeChecks(cmd.OutOrStdout(), checks); failed > 0 {
		return fmt.Errorf("%d required checks failed", failed)
	}
	return nil
}

// toolCheck looks name up in PATH. With a runner it also reports the
// tool's --version output.
func toolCheck(ctx context.Context, r runner.Runner, name string, optional bool) check {
	c := check{name: name, optional: optional}
	path, err := runner.LookPath(name)
	if err != nil {
		c.detail = "not found in PATH"
		return c
	}
	c.ok = true
	c.detail = path

	if r == nil {
		return c
	}
	ctx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()
	stdout, _, err := r.Run(ctx, path, "--version")
	if err != nil {
		debugf("%s --version: %v", name, err)
		return c
	}
	if v := bytes.TrimSpace(stdout); len(v) > 0 {
		c.detail = fmt.Sprintf("%s (%s)", path, v)
	}
	return c
}

func cookiesCheck() check {
	if !cfg.UseCookies {
		return check{name: "cookies", detail: "disabled", ok: true, optional: true}
	}
	path, err := cfg.ExpandCookiesPath()
	if err != nil {
		return check{name: "cookies", detail: err.Error(), optional: true}
	}
	return fileCheck("cookies", path, true)
}

func fileCheck(name, path string, optional bool) check {
	c := check{name: name, detail: path, optional: optional}
	info, err := os.Stat(path)
	switch {
	case err != nil:
		c.detail = path + " (missing)"
	case info.IsDir():
		c.detail = path + " (is a directory)"
	default:
		c.ok = true
	}
	return c
}

// writeChecks prints one line per check and returns the number of failed
// required checks.
func writeChecks(w io.Writer, checks []check) int {
	failed := 0
	for _, c := range checks {
		mark := okStyle.Render("ok  ")
		switch {
		case c.ok:
		case c.optional:
			mark = labelStyle.Render("warn")
		default:
			mark = failStyle.Render("FAIL")
			failed++
		}
		fmt.Fprintf(w, "%s %-8s %s\n", mark, c.name, c.detail)
	}
	return failed
}
