//go:build unix

package cmd

import (
	"context"
	"strings"
	"testing"
)

type versionRunner struct {
	out string
}

func (r versionRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	return []byte(r.out), nil, nil
}

func TestToolCheck(t *testing.T) {
	c := toolCheck(context.Background(), versionRunner{out: "2024.08.06\n"}, "sh", false)
	if !c.ok {
		t.Fatalf("toolCheck(sh) not ok: %s", c.detail)
	}
	if !strings.HasSuffix(c.detail, "(2024.08.06)") {
		t.Errorf("detail = %q, want version suffix", c.detail)
	}

	c = toolCheck(context.Background(), nil, "ytresolve-missing-tool", true)
	if c.ok || c.detail != "not found in PATH" {
		t.Errorf("toolCheck(missing) = %+v", c)
	}
}
