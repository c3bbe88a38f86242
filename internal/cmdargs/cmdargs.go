// Package cmdargs tokenizes user-supplied argument strings and filters them
// before they are merged into a command built by the application.
package cmdargs

import (
	"context"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"

	"ytresolve/internal/runner"
)

// Split tokenizes s with POSIX shell word-splitting rules (quotes, escapes).
func Split(s string) ([]string, error) {
	words, err := shellquote.Split(s)
	if err != nil {
		return nil, fmt.Errorf("splitting %q: %w", s, err)
	}
	return words, nil
}

// Join quotes args so the result can be pasted into a shell.
func Join(args ...string) string {
	return shellquote.Join(args...)
}

// Sanitizer filters user arguments for program, removing every flag in blocked.
type Sanitizer interface {
	Clean(ctx context.Context, args []string, program string, blocked []string) ([]string, error)
}

// HelpSanitizer learns which options program accepts from its --help output.
// Flags that are blocked, or that program does not list, are dropped together
// with their value.
type HelpSanitizer struct {
	runner runner.Runner
}

// NewHelpSanitizer creates a HelpSanitizer. A nil runner uses runner.ExecRunner.
func NewHelpSanitizer(r runner.Runner) *HelpSanitizer {
	if r == nil {
		r = runner.ExecRunner{}
	}
	return &HelpSanitizer{runner: r}
}

// Clean implements Sanitizer.
func (s *HelpSanitizer) Clean(ctx context.Context, args []string, program string, blocked []string) ([]string, error) {
	if len(args) == 0 {
		return nil, nil
	}

	stdout, _, err := s.runner.Run(ctx, program, "--help")
	if err != nil && len(stdout) == 0 {
		return nil, fmt.Errorf("reading %s options: %w", program, err)
	}

	return Filter(args, ParseHelp(string(stdout)), blocked), nil
}

// Option is one entry of a program's option table.
type Option struct {
	Names    []string // All spellings, e.g. ["-f", "--format"]
	HasValue bool     // Consumes the following token
}

// Options indexes a program's options by every spelling.
type Options map[string]*Option

// ParseHelp reads a help text in the common layout
//
//	-f, --format FORMAT    Video format code
//	--no-warnings          Ignore warnings
//
// where the option usage is separated from its description by two spaces.
func ParseHelp(help string) Options {
	opts := make(Options)
	for _, line := range strings.Split(help, "\n") {
		usage := strings.TrimSpace(line)
		if !strings.HasPrefix(usage, "-") {
			continue
		}
		if i := strings.Index(usage, "  "); i >= 0 {
			usage = usage[:i]
		}

		opt := &Option{}
		for _, field := range strings.Fields(usage) {
			field = strings.TrimSuffix(field, ",")
			if !strings.HasPrefix(field, "-") {
				opt.HasValue = true
				break
			}
			name, _, hasInline := strings.Cut(field, "=")
			if hasInline {
				opt.HasValue = true
			}
			opt.Names = append(opt.Names, name)
		}
		for _, name := range opt.Names {
			opts[name] = opt
		}
	}
	return opts
}

// Filter drops blocked and unknown flags from args. A dropped flag also drops
// its value: the next token when the option takes one, or when the option is
// unknown and the next token is not itself a flag. Aliases of a blocked flag
// are blocked too. Positional tokens are kept.
func Filter(args []string, known Options, blocked []string) []string {
	deny := make(map[string]bool)
	for _, b := range blocked {
		deny[b] = true
		if opt, ok := known[b]; ok {
			for _, alias := range opt.Names {
				deny[alias] = true
			}
		}
	}

	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !isFlag(arg) {
			out = append(out, arg)
			continue
		}

		name, _, inline := strings.Cut(arg, "=")
		opt, ok := known[name]
		if ok && !deny[name] {
			out = append(out, arg)
			if opt.HasValue && !inline && i+1 < len(args) {
				i++
				out = append(out, args[i])
			}
			continue
		}

		if inline || i+1 >= len(args) {
			continue
		}
		if (ok && opt.HasValue) || (!ok && !isFlag(args[i+1])) {
			i++
		}
	}
	return out
}

func isFlag(s string) bool {
	return len(s) > 1 && strings.HasPrefix(s, "-")
}
