// Package runner executes external programs with explicit argument slices.
// No shell is involved, so user-supplied arguments are never interpreted.
package runner

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// waitDelay bounds how long Wait keeps draining pipes after the child is killed.
const waitDelay = 2 * time.Second

// Runner runs a program to completion and captures its output.
// Implementations must stop the program when ctx is done.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

// Run starts name in its own process group and waits for it.
// When ctx ends the whole group is killed, so helpers spawned by the
// program do not outlive it.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// LookPath reports where name resolves on PATH.
func LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
