// Package ytdlp resolves direct stream URLs for YouTube links by running
// yt-dlp and reading the URLs it prints.
package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ytresolve/internal/cmdargs"
	"ytresolve/internal/media"
	"ytresolve/internal/runner"
)

const (
	// DefaultTool is the resolver executable looked up on PATH.
	DefaultTool = "yt-dlp"

	// DefaultCookiesPath is where the cookie jar is read from unless overridden.
	DefaultCookiesPath = "storage/cookies/cookies.txt"

	// DefaultTimeout bounds a single resolver run.
	DefaultTimeout = 20 * time.Second

	// formatSelector prefers VP9/H.264 video merged with m4a audio.
	formatSelector = "bestvideo[vcodec~='(vp09|avc1)']+m4a/best"
)

// BlockedFlags may never be overridden by extra arguments.
var BlockedFlags = []string{"-f", "-g", "--no-warnings"}

var linkPattern = regexp.MustCompile(
	`^((?:https?:)?//)?((?:www|m)\.)?` +
		`(youtube(-nocookie)?\.com|youtu\.be)` +
		`(/(?:[\w\-]+\?v=|embed/|live/|v/)?)` +
		`([\w\-]+)(\S+)?$`,
)

// IsSupportedLink reports whether link looks like a YouTube video URL.
func IsSupportedLink(link string) bool {
	return linkPattern.MatchString(link)
}

// Request describes one resolution.
type Request struct {
	Link        string
	Params      media.VideoParameters
	ExtraArgs   string // Shell syntax, filtered before use
	UseCookies  bool
	CookiesPath string // Empty means DefaultCookiesPath
}

// NewRequest returns a Request with cookies enabled at the default path.
func NewRequest(link string, params media.VideoParameters) Request {
	return Request{
		Link:        link,
		Params:      params,
		UseCookies:  true,
		CookiesPath: DefaultCookiesPath,
	}
}

// Result holds the resolved stream URLs. Both are empty only when the
// request had no link.
type Result struct {
	VideoURL string
	AudioURL string
}

// IsZero reports whether nothing was resolved.
func (r Result) IsZero() bool {
	return r.VideoURL == "" && r.AudioURL == ""
}

// Split reports whether audio is served separately from video.
func (r Result) Split() bool {
	return r.AudioURL != r.VideoURL
}

// Extractor runs yt-dlp to resolve stream URLs.
type Extractor struct {
	tool      string
	runner    runner.Runner
	sanitizer cmdargs.Sanitizer
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTool sets the yt-dlp executable name or path.
func WithTool(path string) Option {
	return func(e *Extractor) {
		if path != "" {
			e.tool = path
		}
	}
}

// WithRunner sets the process runner (for testing).
func WithRunner(r runner.Runner) Option {
	return func(e *Extractor) {
		e.runner = r
	}
}

// WithSanitizer sets the filter applied to extra arguments.
func WithSanitizer(s cmdargs.Sanitizer) Option {
	return func(e *Extractor) {
		e.sanitizer = s
	}
}

// WithTimeout bounds each yt-dlp run.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger used for the debug command line.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Extractor. Without options it runs "yt-dlp" from PATH,
// filters extra arguments against yt-dlp's own help and times out after 20s.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		tool:    DefaultTool,
		runner:  runner.ExecRunner{},
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sanitizer == nil {
		e.sanitizer = cmdargs.NewHelpSanitizer(e.runner)
	}
	return e
}

// Command builds the yt-dlp argument vector for req, tool first.
func (e *Extractor) Command(ctx context.Context, req Request) ([]string, error) {
	cmd := []string{
		e.tool,
		"-g",
		"-f", formatSelector,
		"-S", "res:" + strconv.Itoa(req.Params.Resolution()),
		"--no-warnings",
	}

	if req.UseCookies {
		path := req.CookiesPath
		if path == "" {
			path = DefaultCookiesPath
		}
		cmd = append(cmd, "--cookies", path)
	}

	if strings.TrimSpace(req.ExtraArgs) != "" {
		words, err := cmdargs.Split(req.ExtraArgs)
		if err != nil {
			return nil, fmt.Errorf("parsing extra arguments: %w", err)
		}
		extra, err := e.sanitizer.Clean(ctx, words, e.tool, BlockedFlags)
		if err != nil {
			if isNotFound(err) {
				return nil, e.notInstalled(err)
			}
			return nil, fmt.Errorf("sanitizing extra arguments: %w", err)
		}
		cmd = append(cmd, extra...)
	}

	return append(cmd, req.Link), nil
}

type outcome struct {
	stdout []byte
	stderr []byte
	err    error
}

// Extract resolves req.Link into stream URLs. An empty link yields a zero
// Result and no error. Tool failures are returned as *ToolError.
func (e *Extractor) Extract(ctx context.Context, req Request) (Result, error) {
	if req.Link == "" {
		return Result{}, nil
	}

	// The timeout also covers the --help run made while sanitizing.
	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd, err := e.Command(runCtx, req)
	if err != nil {
		if runCtx.Err() != nil {
			return Result{}, e.contextError(runCtx)
		}
		return Result{}, err
	}

	e.logger.Debug("running yt-dlp", "command", cmdargs.Join(cmd...))

	// Buffered so the goroutine can finish after we stop listening.
	done := make(chan outcome, 1)
	go func() {
		stdout, stderr, err := e.runner.Run(runCtx, cmd[0], cmd[1:]...)
		done <- outcome{stdout: stdout, stderr: stderr, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-runCtx.Done():
		return Result{}, e.contextError(runCtx)
	}

	if out.err != nil {
		return Result{}, e.runError(runCtx, out)
	}

	return parseOutput(e.tool, out.stdout)
}

func (e *Extractor) runError(ctx context.Context, out outcome) error {
	if ctx.Err() != nil {
		return e.contextError(ctx)
	}

	if isNotFound(out.err) {
		return e.notInstalled(out.err)
	}

	stderr := strings.TrimSpace(string(out.stderr))
	// *exec.ExitError and test doubles both expose ExitCode.
	var exitErr interface{ ExitCode() int }
	if errors.As(out.err, &exitErr) && exitErr.ExitCode() != 0 {
		return &ToolError{
			Msg:    fmt.Sprintf("%s error: %s", e.tool, stderr),
			Stderr: stderr,
			Err:    errors.Join(ErrExitStatus, out.err),
		}
	}

	return &ToolError{
		Msg:    fmt.Sprintf("%s error: %v", e.tool, out.err),
		Stderr: stderr,
		Err:    out.err,
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

func (e *Extractor) notInstalled(err error) error {
	return &ToolError{
		Msg: fmt.Sprintf("%s is not installed on your system", e.tool),
		Err: errors.Join(ErrNotInstalled, err),
	}
}

func (e *Extractor) contextError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &ToolError{
			Msg: fmt.Sprintf("%s command timed out", e.tool),
			Err: errors.Join(ErrTimedOut, ctx.Err()),
		}
	}
	return &ToolError{
		Msg: fmt.Sprintf("%s command canceled", e.tool),
		Err: ctx.Err(),
	}
}

// parseOutput maps yt-dlp's -g output to a Result: the first line is the
// video (or combined) stream, the second, when present, the audio stream.
func parseOutput(tool string, stdout []byte) (Result, error) {
	text := strings.TrimSpace(string(stdout))
	if text == "" {
		return Result{}, &ToolError{
			Msg: fmt.Sprintf("no stream URLs found in %s output", tool),
			Err: ErrNoURLs,
		}
	}

	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	res := Result{VideoURL: lines[0], AudioURL: lines[0]}
	if len(lines) >= 2 {
		res.AudioURL = lines[1]
	}
	return res, nil
}
